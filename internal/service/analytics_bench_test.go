package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/prepdeck/interview-server/internal/repository"
	"github.com/prepdeck/interview-server/internal/repository/models"
	dbbuilder "github.com/prepdeck/interview-server/pkg/database"
)

func setupRealDB(tb testing.TB) (*repository.InterviewRepository, *repository.ChallengeRepository) {
	tb.Helper()

	db, err := dbbuilder.New(
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
	)
	if err != nil {
		tb.Fatalf("failed to create db pool via builder: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := repository.Migrate(ctx, db); err != nil {
		tb.Fatalf("failed to migrate db: %v", err)
	}

	interviews := repository.NewInterviewRepository(db)
	challenges := repository.NewChallengeRepository(db)

	// 50 completed interviews across levels, two scored evaluations each.
	base := time.Now().AddDate(0, -2, 0)
	levels := []string{"junior", "mid", "senior"}
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("iv-%03d", i)
		completedAt := base.Add(time.Duration(i) * 24 * time.Hour)

		if err := interviews.Create(ctx, models.Interview{
			ID:        id,
			UserID:    "bench-user",
			Role:      "Backend Engineer",
			Level:     levels[i%len(levels)],
			Questions: []string{"q1", "q2"},
			Status:    models.InterviewStatusStarted,
			CreatedAt: completedAt.Add(-time.Hour),
		}); err != nil {
			tb.Fatalf("failed to seed interview: %v", err)
		}

		for j := 0; j < 2; j++ {
			score := float64(3 + (i+j)%7)
			ev := models.Evaluation{
				QuestionID: fmt.Sprintf("%s-q%d", id, j),
				Score:      &score,
			}
			if score < 7 {
				ev.Weaknesses = "struggled with react hooks and database indexing under concurrency"
			}
			if err := interviews.AddEvaluation(ctx, id, ev); err != nil {
				tb.Fatalf("failed to seed evaluation: %v", err)
			}
		}

		if err := interviews.Complete(ctx, id, completedAt); err != nil {
			tb.Fatalf("failed to complete interview: %v", err)
		}
	}

	return interviews, challenges
}

func BenchmarkGetDashboardSummary(b *testing.B) {
	logger := zap.NewNop()
	interviews, challenges := setupRealDB(b)

	svc := NewAnalyticsService(interviews, challenges, logger)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = svc.GetDashboardSummary(context.Background(), "bench-user")
	}
}

func BenchmarkGetInterviewStats(b *testing.B) {
	logger := zap.NewNop()
	interviews, challenges := setupRealDB(b)

	svc := NewAnalyticsService(interviews, challenges, logger)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = svc.GetInterviewStats(context.Background(), "bench-user")
	}
}

func BenchmarkGetActivityCalendar(b *testing.B) {
	logger := zap.NewNop()
	interviews, challenges := setupRealDB(b)

	svc := NewAnalyticsService(interviews, challenges, logger)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = svc.GetActivityCalendar(context.Background(), "bench-user")
	}
}
