package models

import "time"

// Interview statuses. An interview is created as started and transitions
// exactly once to completed, at which point its average score is computed
// and frozen.
const (
	InterviewStatusStarted   = "started"
	InterviewStatusCompleted = "completed"
)

// Evaluation is the scored feedback attached to one answered question.
// Score is nil when the evaluator produced no numeric score.
type Evaluation struct {
	QuestionID string
	Score      *float64
	Weaknesses string
	Strengths  string
}

type Interview struct {
	ID           string
	UserID       string
	Role         string
	Level        string
	Questions    []string
	Evaluations  []Evaluation
	AverageScore *float64
	Status       string
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

// DailyChallenge is one generated practice challenge document. Several may
// exist for the same user and day; the most recently created one is the
// authoritative document for that day.
type DailyChallenge struct {
	ID                string
	UserID            string
	WeakTopics        []ChallengeTopic
	RecommendedTopics []string
	Title             string
	Description       string
	Difficulty        string
	ChallengeDate     time.Time
	Completed         bool
	CompletedAt       *time.Time
	CreatedAt         time.Time
}

// ChallengeTopic is the weak-topic snapshot stored alongside a challenge.
type ChallengeTopic struct {
	Topic     string `json:"topic"`
	Frequency int    `json:"frequency"`
}
