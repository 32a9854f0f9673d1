package httpapi

import (
	"context"
	"time"

	"github.com/prepdeck/interview-server/internal/service"
)

// Cacher defines the interface for shared response cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type AnalyticsService interface {
	GetDashboardSummary(ctx context.Context, userID string) (service.DashboardSummary, error)
	GetInterviewStats(ctx context.Context, userID string) (service.InterviewStats, error)
	GetActivityCalendar(ctx context.Context, userID string) (service.ActivityCalendar, error)
	GetWeakTopics(ctx context.Context, userID string) ([]service.WeakTopic, error)
}

type ChallengeService interface {
	GetDailyChallenge(ctx context.Context, userID string) (service.DailyChallenge, bool, error)
	MarkCompleted(ctx context.Context, userID, challengeID string) (service.DailyChallenge, error)
	ClearToday(ctx context.Context, userID string) error
}
