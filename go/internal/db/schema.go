package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The unique constraints on draft_picks back the two draft invariants:
// no player drafted twice and no two picks sharing a sequence position.
// The coordinator's row lock is the serialization point; the constraints
// are the database-level backstop.
const schema = `
CREATE TABLE IF NOT EXISTS leagues (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    commissioner_email TEXT NOT NULL,
    max_players SMALLINT NOT NULL CHECK (max_players BETWEEN 2 AND 4),
    status TEXT NOT NULL DEFAULT 'SETUP' CHECK (status IN ('SETUP', 'DRAFTING', 'ACTIVE')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_leagues_created_at ON leagues(created_at DESC);

CREATE TABLE IF NOT EXISTS league_members (
    id UUID PRIMARY KEY,
    league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    slot SMALLINT NOT NULL CHECK (slot >= 1),
    is_commissioner BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (league_id, email),
    UNIQUE (league_id, slot)
);

CREATE INDEX IF NOT EXISTS idx_league_members_league_id ON league_members(league_id);

CREATE TABLE IF NOT EXISTS fantasy_teams (
    id UUID PRIMARY KEY,
    league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    member_id UUID NOT NULL UNIQUE REFERENCES league_members(id) ON DELETE CASCADE,
    name TEXT NOT NULL DEFAULT 'My Team'
);

CREATE TABLE IF NOT EXISTS drafts (
    id UUID PRIMARY KEY,
    league_id UUID NOT NULL UNIQUE REFERENCES leagues(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'NOT_STARTED' CHECK (status IN ('NOT_STARTED', 'IN_PROGRESS', 'COMPLETE')),
    current_slot SMALLINT NOT NULL DEFAULT 1,
    round INTEGER NOT NULL DEFAULT 1,
    pick_number INTEGER NOT NULL DEFAULT 1,
    started_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS draft_picks (
    id UUID PRIMARY KEY,
    draft_id UUID NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
    pick_number INTEGER NOT NULL,
    round INTEGER NOT NULL,
    slot SMALLINT NOT NULL,
    member_id UUID NOT NULL REFERENCES league_members(id) ON DELETE CASCADE,
    player_id INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (draft_id, player_id),
    UNIQUE (draft_id, pick_number)
);

CREATE INDEX IF NOT EXISTS idx_draft_picks_draft_id ON draft_picks(draft_id);

CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    team_abbreviation TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
