package models

import (
	"github.com/google/uuid"
)

// LeagueMember is a participant in a league. Slot is the 1-based draft
// position; the commissioner always holds slot 1.
type LeagueMember struct {
	ID             uuid.UUID `json:"id"`
	LeagueID       uuid.UUID `json:"league_id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Slot           int       `json:"slot"`
	IsCommissioner bool      `json:"is_commissioner"`
}
