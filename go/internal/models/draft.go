package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	// DraftStatusComplete is a valid terminal state but no code path sets
	// it yet; no completion condition (fixed round count or player
	// exhaustion) is defined for these drafts.
	DraftStatusComplete DraftStatus = "COMPLETE"
)

// Draft represents a league's draft instance. The row exists only once the
// draft has been started at least once; before that the league serializes
// with a null draft.
type Draft struct {
	ID          uuid.UUID   `json:"id"`
	LeagueID    uuid.UUID   `json:"league_id"`
	Status      DraftStatus `json:"status"`
	CurrentSlot int         `json:"current_slot"`
	Round       int         `json:"round"`
	PickNumber  int         `json:"pick_number"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
}
