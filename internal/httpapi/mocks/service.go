package mocks

import (
	"context"
	"errors"

	"github.com/prepdeck/interview-server/internal/service"
)

// MockAnalyticsService is a function-based mock of the analytics service
// for testing the handler layer.
type MockAnalyticsService struct {
	GetDashboardSummaryFunc func(ctx context.Context, userID string) (service.DashboardSummary, error)
	GetInterviewStatsFunc   func(ctx context.Context, userID string) (service.InterviewStats, error)
	GetActivityCalendarFunc func(ctx context.Context, userID string) (service.ActivityCalendar, error)
	GetWeakTopicsFunc       func(ctx context.Context, userID string) ([]service.WeakTopic, error)
}

func (m *MockAnalyticsService) GetDashboardSummary(ctx context.Context, userID string) (service.DashboardSummary, error) {
	if m.GetDashboardSummaryFunc != nil {
		return m.GetDashboardSummaryFunc(ctx, userID)
	}
	return service.DashboardSummary{}, errors.New("GetDashboardSummary not implemented")
}

func (m *MockAnalyticsService) GetInterviewStats(ctx context.Context, userID string) (service.InterviewStats, error) {
	if m.GetInterviewStatsFunc != nil {
		return m.GetInterviewStatsFunc(ctx, userID)
	}
	return service.InterviewStats{}, errors.New("GetInterviewStats not implemented")
}

func (m *MockAnalyticsService) GetActivityCalendar(ctx context.Context, userID string) (service.ActivityCalendar, error) {
	if m.GetActivityCalendarFunc != nil {
		return m.GetActivityCalendarFunc(ctx, userID)
	}
	return service.ActivityCalendar{}, errors.New("GetActivityCalendar not implemented")
}

func (m *MockAnalyticsService) GetWeakTopics(ctx context.Context, userID string) ([]service.WeakTopic, error) {
	if m.GetWeakTopicsFunc != nil {
		return m.GetWeakTopicsFunc(ctx, userID)
	}
	return nil, errors.New("GetWeakTopics not implemented")
}

// MockChallengeService is a function-based mock of the challenge service.
type MockChallengeService struct {
	GetDailyChallengeFunc func(ctx context.Context, userID string) (service.DailyChallenge, bool, error)
	MarkCompletedFunc     func(ctx context.Context, userID, challengeID string) (service.DailyChallenge, error)
	ClearTodayFunc        func(ctx context.Context, userID string) error
}

func (m *MockChallengeService) GetDailyChallenge(ctx context.Context, userID string) (service.DailyChallenge, bool, error) {
	if m.GetDailyChallengeFunc != nil {
		return m.GetDailyChallengeFunc(ctx, userID)
	}
	return service.DailyChallenge{}, false, errors.New("GetDailyChallenge not implemented")
}

func (m *MockChallengeService) MarkCompleted(ctx context.Context, userID, challengeID string) (service.DailyChallenge, error) {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, userID, challengeID)
	}
	return service.DailyChallenge{}, errors.New("MarkCompleted not implemented")
}

func (m *MockChallengeService) ClearToday(ctx context.Context, userID string) error {
	if m.ClearTodayFunc != nil {
		return m.ClearTodayFunc(ctx, userID)
	}
	return errors.New("ClearToday not implemented")
}
