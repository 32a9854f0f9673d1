package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/prepdeck/interview-server/internal/service"
)

const (
	defaultCacheDuration  = 10 * time.Minute
	defaultRequestTimeout = 10 * time.Second

	userHeader = "X-User-ID"
)

type CacheKeyType string

const (
	cacheKeyDashboard  CacheKeyType = "http:dashboard"
	cacheKeyStats      CacheKeyType = "http:interview_stats"
	cacheKeyHeatmap    CacheKeyType = "http:activity_heatmap"
	cacheKeyWeakTopics CacheKeyType = "http:weak_topics"
)

type HTTPHandlers struct {
	analytics  AnalyticsService
	challenges ChallengeService
	cache      Cacher
	logger     *zap.Logger
	sfGroup    singleflight.Group
	cacheTTL   time.Duration
}

// NewHTTPHandlers initializes the HTTP handlers. A nil cache disables the
// shared response cache; read endpoints then always hit the service layer.
func NewHTTPHandlers(analytics AnalyticsService, challenges ChallengeService, cache Cacher, logger *zap.Logger, ttl time.Duration) *HTTPHandlers {
	if analytics == nil {
		panic("nil AnalyticsService provided to NewHTTPHandlers")
	}
	if challenges == nil {
		panic("nil ChallengeService provided to NewHTTPHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &HTTPHandlers{
		analytics:  analytics,
		challenges: challenges,
		cache:      cache,
		logger:     logger.Named("http-handler"),
		cacheTTL:   ttl,
	}
}

// Register attaches all routes to mux.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/v1/dashboard", h.withUser(h.handleDashboard))
	mux.HandleFunc("GET /api/v1/dashboard/stats", h.withUser(h.handleStats))
	mux.HandleFunc("GET /api/v1/activity/heatmap", h.withUser(h.handleHeatmap))
	mux.HandleFunc("GET /api/v1/weak-topics", h.withUser(h.handleWeakTopics))
	mux.HandleFunc("GET /api/v1/challenge/daily", h.withUser(h.handleDailyChallenge))
	mux.HandleFunc("POST /api/v1/challenge/{id}/complete", h.withUser(h.handleCompleteChallenge))
	mux.HandleFunc("DELETE /api/v1/challenge/daily", h.withUser(h.handleClearChallenge))
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// withUser resolves the caller identity from the X-User-ID header. The header
// is set by the auth gateway upstream of this service.
func (h *HTTPHandlers) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing_user", errors.New("X-User-ID header is required"))
			return
		}
		next(w, r, userID)
	}
}

func userKey(prefix CacheKeyType, userID string) string {
	return fmt.Sprintf("%s:%s", prefix, userID)
}

func (h *HTTPHandlers) handleError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if ctx.Err() == context.DeadlineExceeded {
		h.logger.Warn("request timeout", zap.String("op", op))
		writeError(w, http.StatusGatewayTimeout, "timeout", errors.New("request timed out"))
		return
	}

	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		h.logger.Info("challenge not found", zap.String("op", op))
		writeError(w, http.StatusNotFound, "not_found", errors.New("challenge not found"))
	case errors.Is(err, service.ErrGenerationFailure):
		h.logger.Error("challenge generation failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusBadGateway, "generation_failed", errors.New("challenge generation failed"))
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "storage_failure", errors.New("database error"))
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", fmt.Errorf("%s failed", op))
	}
}

func (h *HTTPHandlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandlers) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	summary, err := FindAndCache(ctx, h.cache, &h.sfGroup, userKey(cacheKeyDashboard, userID), h.cacheTTL, h.logger, func(fetchCtx context.Context) (service.DashboardSummary, error) {
		return h.analytics.GetDashboardSummary(fetchCtx, userID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetDashboardSummary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandlers) handleStats(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	stats, err := FindAndCache(ctx, h.cache, &h.sfGroup, userKey(cacheKeyStats, userID), h.cacheTTL, h.logger, func(fetchCtx context.Context) (service.InterviewStats, error) {
		return h.analytics.GetInterviewStats(fetchCtx, userID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetInterviewStats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandlers) handleHeatmap(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	calendar, err := FindAndCache(ctx, h.cache, &h.sfGroup, userKey(cacheKeyHeatmap, userID), h.cacheTTL, h.logger, func(fetchCtx context.Context) (service.ActivityCalendar, error) {
		return h.analytics.GetActivityCalendar(fetchCtx, userID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetActivityCalendar", err)
		return
	}

	writeJSON(w, http.StatusOK, calendar)
}

func (h *HTTPHandlers) handleWeakTopics(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	topics, err := FindAndCache(ctx, h.cache, &h.sfGroup, userKey(cacheKeyWeakTopics, userID), h.cacheTTL, h.logger, func(fetchCtx context.Context) ([]service.WeakTopic, error) {
		return h.analytics.GetWeakTopics(fetchCtx, userID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetWeakTopics", err)
		return
	}

	writeJSON(w, http.StatusOK, topics)
}

type dailyChallengeResponse struct {
	Challenge service.DailyChallenge `json:"challenge"`
	FromCache bool                   `json:"fromCache"`
}

// handleDailyChallenge intentionally bypasses the shared response cache: the
// challenge service maintains its own 24h cache keyed per user.
func (h *HTTPHandlers) handleDailyChallenge(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	challenge, fromCache, err := h.challenges.GetDailyChallenge(ctx, userID)
	if err != nil {
		h.handleError(ctx, w, "GetDailyChallenge", err)
		return
	}

	writeJSON(w, http.StatusOK, dailyChallengeResponse{Challenge: challenge, FromCache: fromCache})
}

func (h *HTTPHandlers) handleCompleteChallenge(w http.ResponseWriter, r *http.Request, userID string) {
	challengeID := r.PathValue("id")
	if challengeID == "" {
		writeError(w, http.StatusBadRequest, "missing_id", errors.New("challenge id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	challenge, err := h.challenges.MarkCompleted(ctx, userID, challengeID)
	if err != nil {
		h.handleError(ctx, w, "MarkCompleted", err)
		return
	}

	writeJSON(w, http.StatusOK, challenge)
}

func (h *HTTPHandlers) handleClearChallenge(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	if err := h.challenges.ClearToday(ctx, userID); err != nil {
		h.handleError(ctx, w, "ClearToday", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
