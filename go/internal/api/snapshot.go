package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/fastbreakhq/fastbreak/go/internal/draft"
	"github.com/fastbreakhq/fastbreak/go/internal/models"
)

// LeagueSnapshot is the serialized view of a league returned by every
// league endpoint.
type LeagueSnapshot struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	CommissionerEmail string              `json:"commissioner_email"`
	MaxPlayers        int                 `json:"max_players"`
	Status            models.LeagueStatus `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
	Members           []MemberSnapshot    `json:"members"`
	Draft             *DraftSnapshot      `json:"draft"`
}

type MemberSnapshot struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Slot           int       `json:"slot"`
	IsCommissioner bool      `json:"is_commissioner"`
}

type DraftSnapshot struct {
	Status      models.DraftStatus `json:"status"`
	CurrentSlot int                `json:"current_slot"`
	Round       int                `json:"round"`
	PickNumber  int                `json:"pick_number"`
	StartedAt   *time.Time         `json:"started_at"`
	CurrentTurn *draft.CurrentTurn `json:"current_turn"`
}

// TeamsView lists each member's drafted players.
type TeamsView struct {
	LeagueID uuid.UUID   `json:"league_id"`
	Teams    []TeamEntry `json:"teams"`
}

type TeamEntry struct {
	Member    MemberSnapshot `json:"member"`
	TeamName  string         `json:"team_name"`
	PlayerIDs []int          `json:"player_ids"`
}

func buildMemberSnapshot(m models.LeagueMember) MemberSnapshot {
	return MemberSnapshot{
		ID:             m.ID,
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		Slot:           m.Slot,
		IsCommissioner: m.IsCommissioner,
	}
}

// buildLeagueSnapshot assembles the league view. d may be nil (draft never
// started); current_turn is only populated while the draft runs.
func buildLeagueSnapshot(league *models.League, members []models.LeagueMember, d *models.Draft) LeagueSnapshot {
	snapshot := LeagueSnapshot{
		ID:                league.ID,
		Name:              league.Name,
		CommissionerEmail: league.CommissionerEmail,
		MaxPlayers:        league.MaxPlayers,
		Status:            league.Status,
		CreatedAt:         league.CreatedAt,
		Members:           make([]MemberSnapshot, 0, len(members)),
	}
	for _, m := range members {
		snapshot.Members = append(snapshot.Members, buildMemberSnapshot(m))
	}

	if d == nil {
		return snapshot
	}

	ds := &DraftSnapshot{
		Status:      d.Status,
		CurrentSlot: d.CurrentSlot,
		Round:       d.Round,
		PickNumber:  d.PickNumber,
		StartedAt:   d.StartedAt,
	}
	if d.Status == models.DraftStatusInProgress {
		for _, m := range members {
			if m.Slot == d.CurrentSlot {
				ds.CurrentTurn = &draft.CurrentTurn{Slot: d.CurrentSlot, Email: m.Email}
				break
			}
		}
	}
	snapshot.Draft = ds
	return snapshot
}
