package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS interviews (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	role          TEXT NOT NULL,
	level         TEXT NOT NULL,
	questions     TEXT NOT NULL DEFAULT '[]',
	average_score REAL,
	status        TEXT NOT NULL,
	completed_at  DATETIME,
	created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interviews_user ON interviews (user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_interviews_completed ON interviews (user_id, status, completed_at);

CREATE TABLE IF NOT EXISTS evaluations (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	interview_id TEXT NOT NULL REFERENCES interviews (id),
	question_id  TEXT NOT NULL,
	score        REAL,
	weaknesses   TEXT NOT NULL DEFAULT '',
	strengths    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_evaluations_interview ON evaluations (interview_id);

CREATE TABLE IF NOT EXISTS daily_challenges (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	weak_topics        TEXT NOT NULL DEFAULT '[]',
	recommended_topics TEXT NOT NULL DEFAULT '[]',
	title              TEXT NOT NULL,
	description        TEXT NOT NULL,
	difficulty         TEXT NOT NULL,
	challenge_date     DATETIME NOT NULL,
	completed          INTEGER NOT NULL DEFAULT 0,
	completed_at       DATETIME,
	created_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_challenges_user_date ON daily_challenges (user_id, challenge_date, created_at);
`

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent, so running it on every startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
