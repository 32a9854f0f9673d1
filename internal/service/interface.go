package service

import (
	"context"
	"time"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

// InterviewRepository defines the record-store operations the analytics
// services need over interview documents.
type InterviewRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	ListEvaluations(ctx context.Context, userID string) ([]models.Evaluation, error)
	CompletionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

// ChallengeRepository defines the record-store operations over daily
// challenge documents. Lookups that find nothing return
// repository.ErrNotFound.
type ChallengeRepository interface {
	Insert(ctx context.Context, ch models.DailyChallenge) error
	LatestForRange(ctx context.Context, userID string, from, to time.Time) (models.DailyChallenge, error)
	MarkCompleted(ctx context.Context, userID, id string, completedAt time.Time) (models.DailyChallenge, error)
	DeleteForRange(ctx context.Context, userID string, from, to time.Time) error
	CompletionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

// ChallengeGenerator is the external collaborator that produces a
// challenge from detected weak topics.
type ChallengeGenerator interface {
	Generate(ctx context.Context, topics []WeakTopic) (GeneratedChallenge, error)
}

// ChallengeCache is the process-local TTL cache the cache-aside
// controller fronts challenge lookups with.
type ChallengeCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
}
