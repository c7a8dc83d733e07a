package database

import "fmt"

// schema is applied on startup. Statements are idempotent so every instance
// can run them unconditionally.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      VARCHAR(50)  NOT NULL UNIQUE,
    email         VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    rating        INTEGER      NOT NULL DEFAULT 1000,
    win_count     INTEGER      NOT NULL DEFAULT 0,
    loss_count    INTEGER      NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS problems (
    id            UUID PRIMARY KEY,
    title         VARCHAR(255) NOT NULL UNIQUE,
    description   TEXT         NOT NULL,
    input_format  TEXT         NOT NULL DEFAULT '',
    output_format TEXT         NOT NULL DEFAULT '',
    test_cases    TEXT         NOT NULL DEFAULT '[]',
    difficulty    VARCHAR(20)  NOT NULL DEFAULT 'easy',
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS matches (
    id            UUID PRIMARY KEY,
    player1_id    UUID        NOT NULL REFERENCES users(id),
    player2_id    UUID        NOT NULL REFERENCES users(id),
    problem_id    UUID        NOT NULL REFERENCES problems(id),
    code_player1  TEXT,
    code_player2  TEXT,
    status        VARCHAR(20) NOT NULL DEFAULT 'active',
    winner_id     UUID        REFERENCES users(id),
    start_time    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    end_time      TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_matches_active_players
    ON matches (player1_id, player2_id)
    WHERE status = 'active';

CREATE INDEX IF NOT EXISTS idx_matches_player1 ON matches (player1_id);
CREATE INDEX IF NOT EXISTS idx_matches_player2 ON matches (player2_id);

CREATE TABLE IF NOT EXISTS submissions (
    id         UUID PRIMARY KEY,
    user_id    UUID        NOT NULL REFERENCES users(id),
    match_id   UUID        NOT NULL REFERENCES matches(id),
    code       TEXT        NOT NULL,
    language   VARCHAR(30) NOT NULL,
    result     VARCHAR(30) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_submissions_match ON submissions (match_id, created_at);

CREATE INDEX IF NOT EXISTS idx_users_leaderboard ON users (rating DESC, win_count DESC, username ASC);
`

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
