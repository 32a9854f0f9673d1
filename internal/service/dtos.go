package service

import (
	"time"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

// WeakTopic is one recurring weakness mined from evaluation feedback.
type WeakTopic struct {
	Topic          string `json:"topic"`
	Frequency      int    `json:"frequency"`
	Recommendation string `json:"recommendation"`
}

// InterviewSummary is the projection of a completed interview shown in
// the dashboard's recent list.
type InterviewSummary struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Level        string    `json:"level"`
	AverageScore float64   `json:"averageScore"`
	CompletedAt  time.Time `json:"completedAt"`
}

// ScorePoint is one charting sample: a completed interview's score paired
// with a display date and role.
type ScorePoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Role  string  `json:"role"`
}

type DashboardSummary struct {
	TotalInterviews     int                `json:"totalInterviews"`
	CompletedInterviews int                `json:"completedInterviews"`
	OverallAverageScore float64            `json:"overallAverageScore"`
	RecentInterviews    []InterviewSummary `json:"recentInterviews"`
	ScoreHistory        []ScorePoint       `json:"scoreHistory"`
	WeakTopics          []WeakTopic        `json:"weakTopics"`
}

type OverallStats struct {
	TotalInterviews int     `json:"totalInterviews"`
	AvgScore        float64 `json:"avgScore"`
	MaxScore        float64 `json:"maxScore"`
	MinScore        float64 `json:"minScore"`
	TotalQuestions  int     `json:"totalQuestions"`
}

type LevelStats struct {
	Level    string  `json:"level"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avgScore"`
}

type InterviewStats struct {
	Overall OverallStats `json:"overall"`
	ByLevel []LevelStats `json:"byLevel"`
}

type HeatmapEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ActivityCalendar is the contribution-calendar view over the current
// calendar year.
type ActivityCalendar struct {
	TotalActiveDays  int            `json:"totalActiveDays"`
	TotalSubmissions int            `json:"totalSubmissions"`
	CurrentStreak    int            `json:"currentStreak"`
	MaxStreak        int            `json:"maxStreak"`
	Heatmap          []HeatmapEntry `json:"heatmap"`
}

type ChallengeDetail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// GeneratedChallenge is what the external generation collaborator returns.
type GeneratedChallenge struct {
	RecommendedTopics []string        `json:"recommendedTopics"`
	Challenge         ChallengeDetail `json:"dailyChallenge"`
}

// DailyChallenge is the challenge document as served to callers.
type DailyChallenge struct {
	ID                string                  `json:"id"`
	WeakTopics        []models.ChallengeTopic `json:"weakTopics"`
	RecommendedTopics []string                `json:"recommendedTopics"`
	Challenge         ChallengeDetail         `json:"dailyChallenge"`
	ChallengeDate     time.Time               `json:"challengeDate"`
	Completed         bool                    `json:"completed"`
	CompletedAt       *time.Time              `json:"completedAt"`
}
