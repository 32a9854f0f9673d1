package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/prepdeck/interview-server/internal/repository"
	"github.com/prepdeck/interview-server/internal/repository/models"
)

const (
	// A generated or persisted challenge is valid for the rest of the day.
	challengeCacheTTL = 24 * time.Hour

	// The starter challenge is cached briefly: the user may complete
	// their first interview at any moment.
	starterCacheTTL = 1 * time.Hour
)

var (
	ErrGenerationFailure = errors.New("challenge generation failure")
	ErrChallengeNotFound = errors.New("daily challenge not found")
)

func dailyChallengeKey(userID string) string {
	return "daily_challenge:" + userID
}

// ChallengeService serves each user's daily challenge cache-aside: cache,
// then today's persisted document, then weak-topic detection feeding the
// external generator. Lookups past the cache are deduplicated per user
// through singleflight, so two concurrent first requests generate and
// persist exactly one document.
type ChallengeService struct {
	challenges ChallengeRepository
	interviews InterviewRepository
	cache      ChallengeCache
	generator  ChallengeGenerator
	logger     *zap.Logger
	now        func() time.Time
	group      singleflight.Group
}

// NewChallengeService creates a new ChallengeService instance.
func NewChallengeService(
	challenges ChallengeRepository,
	interviews InterviewRepository,
	cache ChallengeCache,
	generator ChallengeGenerator,
	logger *zap.Logger,
) *ChallengeService {
	if challenges == nil {
		panic("challenge repository must not be nil")
	}
	if interviews == nil {
		panic("interview repository must not be nil")
	}
	if cache == nil {
		panic("cache must not be nil")
	}
	if generator == nil {
		panic("generator must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ChallengeService{
		challenges: challenges,
		interviews: interviews,
		cache:      cache,
		generator:  generator,
		logger:     logger,
		now:        time.Now,
	}
}

// GetDailyChallenge returns today's challenge for userID. The boolean
// reports whether the value was served from cache.
func (s *ChallengeService) GetDailyChallenge(ctx context.Context, userID string) (DailyChallenge, bool, error) {
	key := dailyChallengeKey(userID)

	if v, ok := s.cache.Get(key); ok {
		if ch, ok := v.(DailyChallenge); ok {
			s.logger.Debug("daily challenge cache hit", zap.String("user_id", userID))
			return ch, true, nil
		}
		// A foreign value under our key cannot be served.
		s.cache.Delete(key)
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.loadOrGenerate(ctx, userID)
	})
	if err != nil {
		return DailyChallenge{}, false, err
	}
	return v.(DailyChallenge), false, nil
}

func (s *ChallengeService) loadOrGenerate(ctx context.Context, userID string) (DailyChallenge, error) {
	key := dailyChallengeKey(userID)
	now := s.now()
	dayStart := midnightOf(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	persisted, err := s.challenges.LatestForRange(ctx, userID, dayStart, dayEnd)
	switch {
	case err == nil:
		view := challengeView(persisted)
		s.cache.Set(key, view, challengeCacheTTL)
		s.logger.Debug("daily challenge served from store", zap.String("user_id", userID))
		return view, nil
	case !errors.Is(err, repository.ErrNotFound):
		return DailyChallenge{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	evaluations, err := s.interviews.ListEvaluations(ctx, userID)
	if err != nil {
		return DailyChallenge{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	topics := DetectWeakTopics(evaluations, weakTopicGenerationLimit)
	if !hasDetectedPatterns(topics) {
		starter := starterChallenge(now)
		s.cache.Set(key, starter, starterCacheTTL)
		s.logger.Info("serving starter challenge", zap.String("user_id", userID))
		return starter, nil
	}

	generated, err := s.generator.Generate(ctx, topics)
	if err != nil {
		return DailyChallenge{}, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}

	doc := models.DailyChallenge{
		ID:                uuid.NewString(),
		UserID:            userID,
		WeakTopics:        challengeTopics(topics),
		RecommendedTopics: generated.RecommendedTopics,
		Title:             generated.Challenge.Title,
		Description:       generated.Challenge.Description,
		Difficulty:        generated.Challenge.Difficulty,
		ChallengeDate:     now,
		Completed:         false,
		CreatedAt:         now,
	}
	if err := s.challenges.Insert(ctx, doc); err != nil {
		return DailyChallenge{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	view := challengeView(doc)
	s.cache.Set(key, view, challengeCacheTTL)

	s.logger.Info("daily challenge generated",
		zap.String("user_id", userID),
		zap.String("challenge_id", doc.ID),
		zap.Int("weak_topics", len(topics)))

	return view, nil
}

// MarkCompleted flags a challenge as done and refreshes the cache with the
// updated document, so subsequent reads stay consistent without an
// invalidation round-trip.
func (s *ChallengeService) MarkCompleted(ctx context.Context, userID, challengeID string) (DailyChallenge, error) {
	updated, err := s.challenges.MarkCompleted(ctx, userID, challengeID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return DailyChallenge{}, ErrChallengeNotFound
		}
		return DailyChallenge{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	view := challengeView(updated)
	s.cache.Set(dailyChallengeKey(userID), view, challengeCacheTTL)

	s.logger.Info("challenge completed",
		zap.String("user_id", userID),
		zap.String("challenge_id", challengeID))

	return view, nil
}

// ClearToday removes the cached entry and any persisted document for the
// current day, forcing detection and generation to re-run on next access.
func (s *ChallengeService) ClearToday(ctx context.Context, userID string) error {
	s.cache.Delete(dailyChallengeKey(userID))

	now := s.now()
	dayStart := midnightOf(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	if err := s.challenges.DeleteForRange(ctx, userID, dayStart, dayEnd); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("daily challenge cleared", zap.String("user_id", userID))
	return nil
}

// starterChallenge is the fixed challenge for users without enough scored
// history to detect weaknesses. It is served, not persisted.
func starterChallenge(now time.Time) DailyChallenge {
	return DailyChallenge{
		ID:         "get-started",
		WeakTopics: []models.ChallengeTopic{},
		RecommendedTopics: []string{
			"Data structures",
			"Algorithms",
			"System design basics",
		},
		Challenge: ChallengeDetail{
			Title:       "Get Started with Mock Interviews",
			Description: "Complete your first mock interview to unlock personalized daily challenges built from your weak areas.",
			Difficulty:  "easy",
		},
		ChallengeDate: now,
		Completed:     false,
	}
}

func challengeView(ch models.DailyChallenge) DailyChallenge {
	view := DailyChallenge{
		ID:                ch.ID,
		WeakTopics:        ch.WeakTopics,
		RecommendedTopics: ch.RecommendedTopics,
		Challenge: ChallengeDetail{
			Title:       ch.Title,
			Description: ch.Description,
			Difficulty:  ch.Difficulty,
		},
		ChallengeDate: ch.ChallengeDate,
		Completed:     ch.Completed,
		CompletedAt:   ch.CompletedAt,
	}
	if view.WeakTopics == nil {
		view.WeakTopics = []models.ChallengeTopic{}
	}
	if view.RecommendedTopics == nil {
		view.RecommendedTopics = []string{}
	}
	return view
}

func challengeTopics(topics []WeakTopic) []models.ChallengeTopic {
	out := make([]models.ChallengeTopic, len(topics))
	for i, t := range topics {
		out[i] = models.ChallengeTopic{Topic: t.Topic, Frequency: t.Frequency}
	}
	return out
}
