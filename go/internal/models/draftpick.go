package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single committed pick. Picks are append-only:
// they are never mutated and only deleted on a full league reset.
type DraftPick struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	PickNumber int       `json:"pick_number"` // overall, 1-based, unique per draft
	Round      int       `json:"round"`
	Slot       int       `json:"slot"`
	MemberID   uuid.UUID `json:"member_id"`
	PlayerID   int       `json:"player_id"` // provider id, unique per draft
	CreatedAt  time.Time `json:"created_at"`
}
