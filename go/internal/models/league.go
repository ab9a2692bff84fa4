package models

import (
	"time"

	"github.com/google/uuid"
)

// LeagueStatus defines the lifecycle status of a league.
type LeagueStatus string

const (
	LeagueStatusSetup    LeagueStatus = "SETUP"
	LeagueStatusDrafting LeagueStatus = "DRAFTING"
	// LeagueStatusActive is reserved for the post-draft season. The draft
	// engine never sets it.
	LeagueStatusActive LeagueStatus = "ACTIVE"
)

// League represents a fantasy basketball league.
type League struct {
	ID                uuid.UUID    `json:"id"`
	Name              string       `json:"name"`
	CommissionerEmail string       `json:"commissioner_email"`
	MaxPlayers        int          `json:"max_players"`
	Status            LeagueStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
}
