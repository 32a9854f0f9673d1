package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

// MockInterviewRepository is a mock implementation of the
// InterviewRepository interface for testing the service layer.
type MockInterviewRepository struct {
	ListByUserFunc      func(ctx context.Context, userID string) ([]models.Interview, error)
	ListEvaluationsFunc func(ctx context.Context, userID string) ([]models.Evaluation, error)
	CompletionDatesFunc func(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

// ListByUser implements the InterviewRepository interface
func (m *MockInterviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, errors.New("ListByUserFunc not implemented")
}

// ListEvaluations implements the InterviewRepository interface
func (m *MockInterviewRepository) ListEvaluations(ctx context.Context, userID string) ([]models.Evaluation, error) {
	if m.ListEvaluationsFunc != nil {
		return m.ListEvaluationsFunc(ctx, userID)
	}
	return nil, errors.New("ListEvaluationsFunc not implemented")
}

// CompletionDates implements the InterviewRepository interface
func (m *MockInterviewRepository) CompletionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	if m.CompletionDatesFunc != nil {
		return m.CompletionDatesFunc(ctx, userID, from, to)
	}
	return nil, errors.New("CompletionDatesFunc not implemented")
}

// MockChallengeRepository is a mock implementation of the
// ChallengeRepository interface for testing the service layer.
type MockChallengeRepository struct {
	InsertFunc          func(ctx context.Context, ch models.DailyChallenge) error
	LatestForRangeFunc  func(ctx context.Context, userID string, from, to time.Time) (models.DailyChallenge, error)
	MarkCompletedFunc   func(ctx context.Context, userID, id string, completedAt time.Time) (models.DailyChallenge, error)
	DeleteForRangeFunc  func(ctx context.Context, userID string, from, to time.Time) error
	CompletionDatesFunc func(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

// Insert implements the ChallengeRepository interface
func (m *MockChallengeRepository) Insert(ctx context.Context, ch models.DailyChallenge) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, ch)
	}
	return errors.New("InsertFunc not implemented")
}

// LatestForRange implements the ChallengeRepository interface
func (m *MockChallengeRepository) LatestForRange(ctx context.Context, userID string, from, to time.Time) (models.DailyChallenge, error) {
	if m.LatestForRangeFunc != nil {
		return m.LatestForRangeFunc(ctx, userID, from, to)
	}
	return models.DailyChallenge{}, errors.New("LatestForRangeFunc not implemented")
}

// MarkCompleted implements the ChallengeRepository interface
func (m *MockChallengeRepository) MarkCompleted(ctx context.Context, userID, id string, completedAt time.Time) (models.DailyChallenge, error) {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, userID, id, completedAt)
	}
	return models.DailyChallenge{}, errors.New("MarkCompletedFunc not implemented")
}

// DeleteForRange implements the ChallengeRepository interface
func (m *MockChallengeRepository) DeleteForRange(ctx context.Context, userID string, from, to time.Time) error {
	if m.DeleteForRangeFunc != nil {
		return m.DeleteForRangeFunc(ctx, userID, from, to)
	}
	return errors.New("DeleteForRangeFunc not implemented")
}

// CompletionDates implements the ChallengeRepository interface
func (m *MockChallengeRepository) CompletionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	if m.CompletionDatesFunc != nil {
		return m.CompletionDatesFunc(ctx, userID, from, to)
	}
	return nil, errors.New("CompletionDatesFunc not implemented")
}
