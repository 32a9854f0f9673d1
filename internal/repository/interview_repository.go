package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("interview already completed")
)

type InterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// Create inserts a new interview in the started state.
func (r *InterviewRepository) Create(ctx context.Context, iv models.Interview) error {
	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	const query = `
		INSERT INTO interviews (id, user_id, role, level, questions, average_score, status, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, NULL, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		iv.ID, iv.UserID, iv.Role, iv.Level, string(questions),
		models.InterviewStatusStarted, iv.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

// AddEvaluation attaches one scored evaluation to an interview.
func (r *InterviewRepository) AddEvaluation(ctx context.Context, interviewID string, ev models.Evaluation) error {
	const query = `
		INSERT INTO evaluations (interview_id, question_id, score, weaknesses, strengths)
		VALUES (?, ?, ?, ?, ?)
	`
	var score sql.NullFloat64
	if ev.Score != nil {
		score = sql.NullFloat64{Float64: *ev.Score, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query, interviewID, ev.QuestionID, score, ev.Weaknesses, ev.Strengths)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

// Complete transitions an interview from started to completed, computing
// and freezing its average score as the two-decimal mean of all evaluation
// scores. An interview with no scored evaluations keeps a NULL average.
func (r *InterviewRepository) Complete(ctx context.Context, interviewID string, completedAt time.Time) error {
	const scoreQuery = `
		SELECT AVG(score) FROM evaluations WHERE interview_id = ? AND score IS NOT NULL
	`
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, scoreQuery, interviewID).Scan(&avg); err != nil {
		return fmt.Errorf("query evaluation average: %w", err)
	}

	var frozen any
	if avg.Valid {
		frozen = math.Round(avg.Float64*100) / 100
	}

	const update = `
		UPDATE interviews
		SET status = ?, average_score = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`
	res, err := r.db.ExecContext(ctx, update,
		models.InterviewStatusCompleted, frozen, completedAt.UTC(),
		interviewID, models.InterviewStatusStarted)
	if err != nil {
		return fmt.Errorf("complete interview: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete interview rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM interviews WHERE id = ?`, interviewID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check interview exists: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrAlreadyCompleted
	}
	return nil
}

// ListByUser returns every interview for a user, newest first, with
// evaluations attached.
func (r *InterviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	const query = `
		SELECT id, user_id, role, level, questions, average_score, status, completed_at, created_at
		FROM interviews
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ListByUser: %w", err)
	}
	defer rows.Close()

	var interviews []models.Interview
	index := make(map[string]int)

	for rows.Next() {
		var iv models.Interview
		var questions string
		var avgScore sql.NullFloat64
		var completedAt sql.NullTime

		if err := rows.Scan(&iv.ID, &iv.UserID, &iv.Role, &iv.Level, &questions,
			&avgScore, &iv.Status, &completedAt, &iv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ListByUser row: %w", err)
		}

		if questions != "" {
			if err := json.Unmarshal([]byte(questions), &iv.Questions); err != nil {
				return nil, fmt.Errorf("unmarshal questions for %s: %w", iv.ID, err)
			}
		}
		if avgScore.Valid {
			v := avgScore.Float64
			iv.AverageScore = &v
		}
		if completedAt.Valid {
			t := completedAt.Time
			iv.CompletedAt = &t
		}

		index[iv.ID] = len(interviews)
		interviews = append(interviews, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListByUser: %w", err)
	}

	if len(interviews) == 0 {
		return interviews, nil
	}

	const evalQuery = `
		SELECT e.interview_id, e.question_id, e.score, e.weaknesses, e.strengths
		FROM evaluations AS e
		JOIN interviews AS i ON e.interview_id = i.id
		WHERE i.user_id = ?
		ORDER BY e.id
	`
	evalRows, err := r.db.QueryContext(ctx, evalQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query ListByUser evaluations: %w", err)
	}
	defer evalRows.Close()

	for evalRows.Next() {
		var interviewID string
		var ev models.Evaluation
		var score sql.NullFloat64

		if err := evalRows.Scan(&interviewID, &ev.QuestionID, &score, &ev.Weaknesses, &ev.Strengths); err != nil {
			return nil, fmt.Errorf("scan ListByUser evaluation row: %w", err)
		}
		if score.Valid {
			v := score.Float64
			ev.Score = &v
		}

		if i, ok := index[interviewID]; ok {
			interviews[i].Evaluations = append(interviews[i].Evaluations, ev)
		}
	}
	if err := evalRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListByUser evaluations: %w", err)
	}

	return interviews, nil
}

// ListEvaluations returns every evaluation across all of a user's
// interviews, in insertion order.
func (r *InterviewRepository) ListEvaluations(ctx context.Context, userID string) ([]models.Evaluation, error) {
	const query = `
		SELECT e.question_id, e.score, e.weaknesses, e.strengths
		FROM evaluations AS e
		JOIN interviews AS i ON e.interview_id = i.id
		WHERE i.user_id = ?
		ORDER BY e.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ListEvaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []models.Evaluation
	for rows.Next() {
		var ev models.Evaluation
		var score sql.NullFloat64

		if err := rows.Scan(&ev.QuestionID, &score, &ev.Weaknesses, &ev.Strengths); err != nil {
			return nil, fmt.Errorf("scan ListEvaluations row: %w", err)
		}
		if score.Valid {
			v := score.Float64
			ev.Score = &v
		}
		evaluations = append(evaluations, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListEvaluations: %w", err)
	}
	return evaluations, nil
}

// CompletionDates returns the completion timestamps of completed
// interviews inside [from, to).
func (r *InterviewRepository) CompletionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	const query = `
		SELECT completed_at
		FROM interviews
		WHERE user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, models.InterviewStatusCompleted, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query CompletionDates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var completedAt time.Time
		if err := rows.Scan(&completedAt); err != nil {
			return nil, fmt.Errorf("scan CompletionDates row: %w", err)
		}
		dates = append(dates, completedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate CompletionDates: %w", err)
	}
	return dates, nil
}
