package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

type ChallengeRepository struct {
	db *sql.DB
}

func NewChallengeRepository(db *sql.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Insert stores a new daily challenge document.
func (r *ChallengeRepository) Insert(ctx context.Context, ch models.DailyChallenge) error {
	weakTopics, err := json.Marshal(ch.WeakTopics)
	if err != nil {
		return fmt.Errorf("marshal weak topics: %w", err)
	}
	recommended, err := json.Marshal(ch.RecommendedTopics)
	if err != nil {
		return fmt.Errorf("marshal recommended topics: %w", err)
	}

	const query = `
		INSERT INTO daily_challenges
			(id, user_id, weak_topics, recommended_topics, title, description, difficulty,
			 challenge_date, completed, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		ch.ID, ch.UserID, string(weakTopics), string(recommended),
		ch.Title, ch.Description, ch.Difficulty,
		ch.ChallengeDate.UTC(), ch.Completed, ch.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert daily challenge: %w", err)
	}
	return nil
}

// LatestForRange returns the most recently created challenge whose
// challenge date falls inside [from, to). ErrNotFound when none exists,
// so a duplicate-day race always resolves to the newest document.
func (r *ChallengeRepository) LatestForRange(ctx context.Context, userID string, from, to time.Time) (models.DailyChallenge, error) {
	const query = `
		SELECT id, user_id, weak_topics, recommended_topics, title, description, difficulty,
		       challenge_date, completed, completed_at, created_at
		FROM daily_challenges
		WHERE user_id = ? AND challenge_date >= ? AND challenge_date < ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID, from.UTC(), to.UTC())

	ch, err := scanChallenge(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DailyChallenge{}, ErrNotFound
		}
		return models.DailyChallenge{}, fmt.Errorf("query LatestForRange: %w", err)
	}
	return ch, nil
}

// GetByID returns one challenge document.
func (r *ChallengeRepository) GetByID(ctx context.Context, userID, id string) (models.DailyChallenge, error) {
	const query = `
		SELECT id, user_id, weak_topics, recommended_topics, title, description, difficulty,
		       challenge_date, completed, completed_at, created_at
		FROM daily_challenges
		WHERE id = ? AND user_id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id, userID)

	ch, err := scanChallenge(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DailyChallenge{}, ErrNotFound
		}
		return models.DailyChallenge{}, fmt.Errorf("query GetByID: %w", err)
	}
	return ch, nil
}

// MarkCompleted flags a challenge as completed and returns the updated
// document.
func (r *ChallengeRepository) MarkCompleted(ctx context.Context, userID, id string, completedAt time.Time) (models.DailyChallenge, error) {
	const update = `
		UPDATE daily_challenges
		SET completed = 1, completed_at = ?
		WHERE id = ? AND user_id = ?
	`
	res, err := r.db.ExecContext(ctx, update, completedAt.UTC(), id, userID)
	if err != nil {
		return models.DailyChallenge{}, fmt.Errorf("mark challenge completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.DailyChallenge{}, fmt.Errorf("mark challenge completed rows affected: %w", err)
	}
	if affected == 0 {
		return models.DailyChallenge{}, ErrNotFound
	}

	return r.GetByID(ctx, userID, id)
}

// DeleteForRange removes every challenge whose challenge date falls
// inside [from, to).
func (r *ChallengeRepository) DeleteForRange(ctx context.Context, userID string, from, to time.Time) error {
	const query = `
		DELETE FROM daily_challenges
		WHERE user_id = ? AND challenge_date >= ? AND challenge_date < ?
	`
	if _, err := r.db.ExecContext(ctx, query, userID, from.UTC(), to.UTC()); err != nil {
		return fmt.Errorf("delete challenges in range: %w", err)
	}
	return nil
}

// CompletionDates returns the completion timestamps of completed
// challenges inside [from, to).
func (r *ChallengeRepository) CompletionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	const query = `
		SELECT completed_at
		FROM daily_challenges
		WHERE user_id = ? AND completed = 1 AND completed_at >= ? AND completed_at < ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, from.UTC(), to.UTC())
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

func scanChallenge(row *sql.Row) (models.DailyChallenge, error) {
	var ch models.DailyChallenge
	var weakTopics, recommended string
	var completedAt sql.NullTime

	err := row.Scan(&ch.ID, &ch.UserID, &weakTopics, &recommended,
		&ch.Title, &ch.Description, &ch.Difficulty,
		&ch.ChallengeDate, &ch.Completed, &completedAt, &ch.CreatedAt)
	if err != nil {
		return models.DailyChallenge{}, err
	}

	if weakTopics != "" {
		if err := json.Unmarshal([]byte(weakTopics), &ch.WeakTopics); err != nil {
			return models.DailyChallenge{}, fmt.Errorf("unmarshal weak topics for %s: %w", ch.ID, err)
		}
	}
	if recommended != "" {
		if err := json.Unmarshal([]byte(recommended), &ch.RecommendedTopics); err != nil {
			return models.DailyChallenge{}, fmt.Errorf("unmarshal recommended topics for %s: %w", ch.ID, err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		ch.CompletedAt = &t
	}
	return ch, nil
}
