package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

const (
	dbTimeout = 1 * time.Second

	recentInterviewsLimit = 5
	scoreHistoryLimit     = 10

	displayDateLayout = "Jan 2, 2006"
)

var ErrStorageFailure = errors.New("storage failure")

// AnalyticsService computes dashboard, statistics, weak-topic and
// activity-calendar views over a user's interview history. All
// computations are pure functions over a snapshot of records; the service
// holds no mutable state.
type AnalyticsService struct {
	interviews InterviewRepository
	challenges ChallengeRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService instance.
func NewAnalyticsService(interviews InterviewRepository, challenges ChallengeRepository, logger *zap.Logger) *AnalyticsService {
	if interviews == nil {
		panic("interview repository must not be nil")
	}
	if challenges == nil {
		panic("challenge repository must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &AnalyticsService{
		interviews: interviews,
		challenges: challenges,
		logger:     logger,
		now:        time.Now,
	}
}

// GetDashboardSummary composes the dashboard view. A user with no
// completed interviews gets a well-formed zero summary whose weak topics
// are the "no patterns" sentinel, never an error.
func (s *AnalyticsService) GetDashboardSummary(ctx context.Context, userID string) (DashboardSummary, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	all, err := s.interviews.ListByUser(dbCtx, userID)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	completed := completedInterviews(all)

	summary := DashboardSummary{
		TotalInterviews:     len(all),
		CompletedInterviews: len(completed),
		RecentInterviews:    []InterviewSummary{},
		ScoreHistory:        []ScorePoint{},
		WeakTopics:          noPatternSentinel(),
	}

	if len(completed) == 0 {
		return summary, nil
	}

	var scoreSum float64
	for _, iv := range completed {
		scoreSum += *iv.AverageScore
	}
	summary.OverallAverageScore = round2(scoreSum / float64(len(completed)))

	// Newest completion first.
	sort.SliceStable(completed, func(i, j int) bool {
		return completionTime(completed[i]).After(completionTime(completed[j]))
	})

	for _, iv := range completed[:min(recentInterviewsLimit, len(completed))] {
		summary.RecentInterviews = append(summary.RecentInterviews, InterviewSummary{
			ID:           iv.ID,
			Role:         iv.Role,
			Level:        iv.Level,
			AverageScore: *iv.AverageScore,
			CompletedAt:  completionTime(iv),
		})
	}

	// The chart wants the last N completions re-ordered oldest first.
	history := completed[:min(scoreHistoryLimit, len(completed))]
	for i := len(history) - 1; i >= 0; i-- {
		iv := history[i]
		summary.ScoreHistory = append(summary.ScoreHistory, ScorePoint{
			Date:  completionTime(iv).Format(displayDateLayout),
			Score: *iv.AverageScore,
			Role:  iv.Role,
		})
	}

	summary.WeakTopics = DetectWeakTopics(allEvaluations(all), weakTopicStatsLimit)

	s.logger.Info("dashboard summary built",
		zap.String("user_id", userID),
		zap.Int("total_interviews", summary.TotalInterviews),
		zap.Int("completed_interviews", summary.CompletedInterviews))

	return summary, nil
}

// GetInterviewStats computes the overall and per-level statistics views.
// Both are independent aggregations over one pass of the completed set.
func (s *AnalyticsService) GetInterviewStats(ctx context.Context, userID string) (InterviewStats, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	all, err := s.interviews.ListByUser(dbCtx, userID)
	if err != nil {
		return InterviewStats{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	completed := completedInterviews(all)

	stats := InterviewStats{ByLevel: []LevelStats{}}
	if len(completed) == 0 {
		return stats, nil
	}

	type levelAgg struct {
		count int
		sum   float64
	}

	var sum float64
	maxScore := math.Inf(-1)
	minScore := math.Inf(1)
	byLevel := make(map[string]*levelAgg)

	for _, iv := range completed {
		score := *iv.AverageScore
		sum += score
		if score > maxScore {
			maxScore = score
		}
		if score < minScore {
			minScore = score
		}
		stats.Overall.TotalQuestions += len(iv.Questions)

		agg, ok := byLevel[iv.Level]
		if !ok {
			agg = &levelAgg{}
			byLevel[iv.Level] = agg
		}
		agg.count++
		agg.sum += score
	}

	stats.Overall.TotalInterviews = len(completed)
	stats.Overall.AvgScore = round2(sum / float64(len(completed)))
	stats.Overall.MaxScore = maxScore
	stats.Overall.MinScore = minScore

	for level, agg := range byLevel {
		stats.ByLevel = append(stats.ByLevel, LevelStats{
			Level:    level,
			Count:    agg.count,
			AvgScore: round2(agg.sum / float64(agg.count)),
		})
	}
	sort.Slice(stats.ByLevel, func(i, j int) bool {
		if stats.ByLevel[i].Count != stats.ByLevel[j].Count {
			return stats.ByLevel[i].Count > stats.ByLevel[j].Count
		}
		return stats.ByLevel[i].Level < stats.ByLevel[j].Level
	})

	return stats, nil
}

// GetActivityCalendar merges interview and challenge completions into the
// streak and heatmap view for the current calendar year.
func (s *AnalyticsService) GetActivityCalendar(ctx context.Context, userID string) (ActivityCalendar, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := s.now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := yearStart.AddDate(1, 0, 0)

	interviewDates, err := s.interviews.CompletionDates(dbCtx, userID, yearStart, yearEnd)
	if err != nil {
		return ActivityCalendar{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	challengeDates, err := s.challenges.CompletionDates(dbCtx, userID, yearStart, yearEnd)
	if err != nil {
		return ActivityCalendar{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	events := make([]time.Time, 0, len(interviewDates)+len(challengeDates))
	events = append(events, interviewDates...)
	events = append(events, challengeDates...)

	return BuildActivityCalendar(events, now), nil
}

// GetWeakTopics runs weak-topic detection over the user's full evaluation
// history.
func (s *AnalyticsService) GetWeakTopics(ctx context.Context, userID string) ([]WeakTopic, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	evaluations, err := s.interviews.ListEvaluations(dbCtx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return DetectWeakTopics(evaluations, weakTopicStatsLimit), nil
}

func completedInterviews(all []models.Interview) []models.Interview {
	completed := make([]models.Interview, 0, len(all))
	for _, iv := range all {
		if iv.AverageScore != nil {
			completed = append(completed, iv)
		}
	}
	return completed
}

func allEvaluations(interviews []models.Interview) []models.Evaluation {
	var evaluations []models.Evaluation
	for _, iv := range interviews {
		evaluations = append(evaluations, iv.Evaluations...)
	}
	return evaluations
}

func completionTime(iv models.Interview) time.Time {
	if iv.CompletedAt != nil {
		return *iv.CompletedAt
	}
	return time.Time{}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
