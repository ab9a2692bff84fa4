package events

import (
	"time"
)

// Event payload types shared between the draft engine and the gateway.

// DraftStartedPayload is the payload for a draft_started event.
type DraftStartedPayload struct {
	LeagueID    string    `json:"league_id"`
	DraftID     string    `json:"draft_id"`
	StartedAt   time.Time `json:"started_at"`
	MemberCount int       `json:"member_count"`
}

// PickMadePayload is the payload for a pick_made event.
type PickMadePayload struct {
	LeagueID   string    `json:"league_id"`
	DraftID    string    `json:"draft_id"`
	PickNumber int       `json:"pick_number"`
	Round      int       `json:"round"`
	Slot       int       `json:"slot"`
	Email      string    `json:"email"`
	PlayerID   int       `json:"player_id"`
	MadeAt     time.Time `json:"made_at"`
	NextSlot   int       `json:"next_slot"`
	NextRound  int       `json:"next_round"`
}

// LeagueResetPayload is the payload for a league_reset event.
type LeagueResetPayload struct {
	LeagueID string    `json:"league_id"`
	ResetAt  time.Time `json:"reset_at"`
}
