package models

import (
	"github.com/google/uuid"
)

type FantasyTeam struct {
	ID       uuid.UUID `json:"id"`
	LeagueID uuid.UUID `json:"league_id"`
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
}
