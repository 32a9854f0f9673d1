//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prepdeck/interview-server/internal/httpapi"
	"github.com/prepdeck/interview-server/internal/repository"
	"github.com/prepdeck/interview-server/internal/repository/models"
	"github.com/prepdeck/interview-server/internal/service"
	"github.com/prepdeck/interview-server/pkg/cache"
	"github.com/prepdeck/interview-server/tests/e2e/mocks"
)

const testUser = "user-e2e"

type stubGenerator struct {
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, topics []service.WeakTopic) (service.GeneratedChallenge, error) {
	g.calls++
	recommended := make([]string, 0, len(topics))
	for _, t := range topics {
		recommended = append(recommended, t.Topic)
	}
	return service.GeneratedChallenge{
		RecommendedTopics: recommended,
		Challenge: service.ChallengeDetail{
			Title:       "Practice weak areas",
			Description: "Targeted exercise for your flagged topics.",
			Difficulty:  "medium",
		},
	}, nil
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db))
	return db
}

type testEnv struct {
	mux       *http.ServeMux
	interview *repository.InterviewRepository
	challenge *repository.ChallengeRepository
	generator *stubGenerator
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	logger := zap.NewNop()

	interviewRepo := repository.NewInterviewRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)

	memCache := cache.NewMemory()
	t.Cleanup(memCache.Close)

	gen := &stubGenerator{}

	analytics := service.NewAnalyticsService(interviewRepo, challengeRepo, logger)
	challenges := service.NewChallengeService(challengeRepo, interviewRepo, memCache, gen, logger)

	handlers := httpapi.NewHTTPHandlers(analytics, challenges, &mocks.NullCache{}, logger, time.Minute)
	mux := http.NewServeMux()
	handlers.Register(mux)

	return &testEnv{mux: mux, interview: interviewRepo, challenge: challengeRepo, generator: gen}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, http.MethodGet, path)
}

func (e *testEnv) request(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-User-ID", testUser)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// seedCompletedInterview stores a completed interview with two evaluations.
// The weakness note, if any, is attached to the first evaluation.
func seedCompletedInterview(t *testing.T, env *testEnv, completedAt time.Time, scores [2]float64, weakness string) string {
	t.Helper()
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, env.interview.Create(ctx, models.Interview{
		ID:        id,
		UserID:    testUser,
		Role:      "Backend Engineer",
		Level:     "mid",
		Questions: []string{"q1", "q2"},
		Status:    models.InterviewStatusStarted,
		CreatedAt: completedAt.Add(-time.Hour),
	}))

	for i, score := range scores {
		s := score
		ev := models.Evaluation{QuestionID: uuid.NewString(), Score: &s}
		if i == 0 {
			ev.Weaknesses = weakness
		}
		require.NoError(t, env.interview.AddEvaluation(ctx, id, ev))
	}

	require.NoError(t, env.interview.Complete(ctx, id, completedAt))
	return id
}

func TestE2E_DashboardFlow(t *testing.T) {
	env := setupEnv(t)
	now := time.Now()

	seedCompletedInterview(t, env, now.Add(-48*time.Hour), [2]float64{5.0, 6.0}, "struggled with react hooks state")
	seedCompletedInterview(t, env, now.Add(-24*time.Hour), [2]float64{7.0, 8.0}, "")

	rec := env.get(t, "/api/v1/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary service.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	assert.Equal(t, 2, summary.TotalInterviews)
	assert.Equal(t, 2, summary.CompletedInterviews)
	assert.Equal(t, 6.5, summary.OverallAverageScore)
	require.Len(t, summary.RecentInterviews, 2)
	assert.Len(t, summary.ScoreHistory, 2)
	require.NotEmpty(t, summary.WeakTopics)
	assert.Equal(t, "React", summary.WeakTopics[0].Topic)
}

func TestE2E_StatsAndHeatmap(t *testing.T) {
	env := setupEnv(t)
	now := time.Now()

	seedCompletedInterview(t, env, now.Add(-24*time.Hour), [2]float64{6.0, 8.0}, "")
	seedCompletedInterview(t, env, now, [2]float64{4.0, 5.0}, "")

	rec := env.get(t, "/api/v1/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.InterviewStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Overall.TotalInterviews)
	assert.Equal(t, 4, stats.Overall.TotalQuestions)
	// Max and min range over the frozen per-interview averages, not the
	// raw evaluation scores.
	assert.Equal(t, 7.0, stats.Overall.MaxScore)
	assert.Equal(t, 4.5, stats.Overall.MinScore)
	assert.Equal(t, 5.75, stats.Overall.AvgScore)

	rec = env.get(t, "/api/v1/activity/heatmap")
	require.Equal(t, http.StatusOK, rec.Code)

	var calendar service.ActivityCalendar
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &calendar))
	// Both completions land in the current year unless run on Jan 1.
	assert.GreaterOrEqual(t, calendar.TotalSubmissions, 1)
	assert.GreaterOrEqual(t, calendar.CurrentStreak, 1)
	assert.NotEmpty(t, calendar.Heatmap)
}

func TestE2E_DailyChallengeLifecycle(t *testing.T) {
	env := setupEnv(t)
	now := time.Now()

	seedCompletedInterview(t, env, now.Add(-24*time.Hour), [2]float64{4.0, 5.0}, "weak understanding of database indexing and caching")

	// First fetch generates and persists.
	rec := env.get(t, "/api/v1/challenge/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	var first struct {
		Challenge service.DailyChallenge `json:"challenge"`
		FromCache bool                   `json:"fromCache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.False(t, first.FromCache)
	assert.Equal(t, "Practice weak areas", first.Challenge.Challenge.Title)
	assert.NotEmpty(t, first.Challenge.WeakTopics)
	assert.Equal(t, 1, env.generator.calls)

	// Second fetch is served from cache without regenerating.
	rec = env.get(t, "/api/v1/challenge/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	var second struct {
		Challenge service.DailyChallenge `json:"challenge"`
		FromCache bool                   `json:"fromCache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Challenge.ID, second.Challenge.ID)
	assert.Equal(t, 1, env.generator.calls)

	// Completion is reflected in the returned document.
	rec = env.request(t, http.MethodPost, "/api/v1/challenge/"+first.Challenge.ID+"/complete")
	require.Equal(t, http.StatusOK, rec.Code)

	var completed service.DailyChallenge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedAt)

	// Clearing today forces the next fetch to regenerate.
	rec = env.request(t, http.MethodDelete, "/api/v1/challenge/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.get(t, "/api/v1/challenge/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, env.generator.calls)
}

func TestE2E_StarterChallengeWithoutHistory(t *testing.T) {
	env := setupEnv(t)

	rec := env.get(t, "/api/v1/challenge/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Challenge service.DailyChallenge `json:"challenge"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "get-started", got.Challenge.ID)
	assert.Equal(t, 0, env.generator.calls)

	// Starter challenges are not persisted.
	now := time.Now()
	_, err := env.challenge.LatestForRange(context.Background(), testUser, now.AddDate(0, 0, -2), now.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestE2E_WeakTopicsEndpoint(t *testing.T) {
	env := setupEnv(t)
	now := time.Now()

	seedCompletedInterview(t, env, now.Add(-24*time.Hour), [2]float64{4.0, 5.0}, "recursion and algorithms need work")

	rec := env.get(t, "/api/v1/weak-topics")
	require.Equal(t, http.StatusOK, rec.Code)

	var topics []service.WeakTopic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	require.NotEmpty(t, topics)
	for _, topic := range topics {
		assert.NotEmpty(t, topic.Recommendation)
	}
}

func TestE2E_UnauthenticatedRequestRejected(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
