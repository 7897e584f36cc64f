package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the tables for the given driver. Safe to call repeatedly.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case DriverPostgres:
		schema = postgresSchema
	case DriverSQLite:
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id                 BIGSERIAL PRIMARY KEY,
    name               TEXT NOT NULL,
    email              TEXT NOT NULL UNIQUE,
    password_hash      TEXT NOT NULL,
    role               TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    email_verified     BOOLEAN NOT NULL DEFAULT FALSE,
    verification_token TEXT,
    reset_token        TEXT,
    reset_expires_at   TIMESTAMPTZ,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_verification_token ON users(verification_token);
CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_token);

CREATE TABLE IF NOT EXISTS teams (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    badge      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ballot_periods (
    id               BIGSERIAL PRIMARY KEY,
    season           TEXT NOT NULL,
    period           INTEGER NOT NULL,
    name             TEXT NOT NULL,
    period_begins_at TIMESTAMPTZ NOT NULL,
    period_ends_at   TIMESTAMPTZ NOT NULL,
    poll_opens_at    TIMESTAMPTZ NOT NULL,
    poll_closes_at   TIMESTAMPTZ NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (season, period)
);

CREATE TABLE IF NOT EXISTS ballots (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    variant    TEXT NOT NULL CHECK (variant IN ('draft', 'final')),
    period_id  BIGINT REFERENCES ballot_periods(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ballots_owner ON ballots(user_id, variant, COALESCE(period_id, 0));

CREATE TABLE IF NOT EXISTS ballot_rankings (
    ballot_id BIGINT NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
    team_id   BIGINT NOT NULL REFERENCES teams(id),
    rank      INTEGER NOT NULL CHECK (rank BETWEEN 1 AND 25),
    PRIMARY KEY (ballot_id, rank),
    UNIQUE (ballot_id, team_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_rankings_team ON ballot_rankings(team_id);

CREATE TABLE IF NOT EXISTS user_types (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

INSERT INTO user_types (name) VALUES
    ('fan'), ('college football coach or staff'), ('media')
ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS social_media_types (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

INSERT INTO social_media_types (name) VALUES
    ('Facebook'), ('Instagram'), ('TikTok'), ('X'), ('YouTube')
ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS user_accounts (
    user_id                   BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    favorite_team_id          BIGINT REFERENCES teams(id),
    user_type_id              BIGINT REFERENCES user_types(id),
    podcast                   BOOLEAN NOT NULL DEFAULT FALSE,
    podcast_url               TEXT,
    podcast_verified          BOOLEAN NOT NULL DEFAULT FALSE,
    podcast_followers         BIGINT CHECK (podcast_followers >= 0),
    sports_media              BOOLEAN NOT NULL DEFAULT FALSE,
    sports_media_url          TEXT,
    sports_media_verified     BOOLEAN NOT NULL DEFAULT FALSE,
    sports_broadcast          BOOLEAN NOT NULL DEFAULT FALSE,
    sports_broadcast_url      TEXT,
    sports_broadcast_verified BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at                TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS social_media_handles (
    id                   BIGSERIAL PRIMARY KEY,
    user_id              BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    social_media_type_id BIGINT NOT NULL REFERENCES social_media_types(id),
    handle               TEXT NOT NULL,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_social_handles_owner
    ON social_media_handles(user_id, social_media_type_id, LOWER(handle));
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    name               TEXT NOT NULL,
    email              TEXT NOT NULL UNIQUE,
    password_hash      TEXT NOT NULL,
    role               TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    email_verified     BOOLEAN NOT NULL DEFAULT 0,
    verification_token TEXT,
    reset_token        TEXT,
    reset_expires_at   TIMESTAMP,
    created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_verification_token ON users(verification_token);
CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_token);

CREATE TABLE IF NOT EXISTS teams (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL UNIQUE,
    badge      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ballot_periods (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    season           TEXT NOT NULL,
    period           INTEGER NOT NULL,
    name             TEXT NOT NULL,
    period_begins_at TIMESTAMP NOT NULL,
    period_ends_at   TIMESTAMP NOT NULL,
    poll_opens_at    TIMESTAMP NOT NULL,
    poll_closes_at   TIMESTAMP NOT NULL,
    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (season, period)
);

CREATE TABLE IF NOT EXISTS ballots (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    variant    TEXT NOT NULL CHECK (variant IN ('draft', 'final')),
    period_id  INTEGER REFERENCES ballot_periods(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ballots_owner ON ballots(user_id, variant, COALESCE(period_id, 0));

CREATE TABLE IF NOT EXISTS ballot_rankings (
    ballot_id INTEGER NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
    team_id   INTEGER NOT NULL REFERENCES teams(id),
    rank      INTEGER NOT NULL CHECK (rank BETWEEN 1 AND 25),
    PRIMARY KEY (ballot_id, rank),
    UNIQUE (ballot_id, team_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_rankings_team ON ballot_rankings(team_id);

CREATE TABLE IF NOT EXISTS user_types (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

INSERT INTO user_types (name) VALUES
    ('fan'), ('college football coach or staff'), ('media')
ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS social_media_types (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

INSERT INTO social_media_types (name) VALUES
    ('Facebook'), ('Instagram'), ('TikTok'), ('X'), ('YouTube')
ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS user_accounts (
    user_id                   INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    favorite_team_id          INTEGER REFERENCES teams(id),
    user_type_id              INTEGER REFERENCES user_types(id),
    podcast                   BOOLEAN NOT NULL DEFAULT 0,
    podcast_url               TEXT,
    podcast_verified          BOOLEAN NOT NULL DEFAULT 0,
    podcast_followers         INTEGER CHECK (podcast_followers >= 0),
    sports_media              BOOLEAN NOT NULL DEFAULT 0,
    sports_media_url          TEXT,
    sports_media_verified     BOOLEAN NOT NULL DEFAULT 0,
    sports_broadcast          BOOLEAN NOT NULL DEFAULT 0,
    sports_broadcast_url      TEXT,
    sports_broadcast_verified BOOLEAN NOT NULL DEFAULT 0,
    updated_at                TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS social_media_handles (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id              INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    social_media_type_id INTEGER NOT NULL REFERENCES social_media_types(id),
    handle               TEXT NOT NULL,
    created_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_social_handles_owner
    ON social_media_handles(user_id, social_media_type_id, LOWER(handle));
`
