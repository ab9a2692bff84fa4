package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/fastbreakhq/fastbreak/go/internal/apperrors"
	"github.com/fastbreakhq/fastbreak/go/internal/events"
	"github.com/fastbreakhq/fastbreak/go/internal/identity"
	"github.com/fastbreakhq/fastbreak/go/internal/models"
	"github.com/fastbreakhq/fastbreak/go/internal/sqlutil"
)

// App handles league lifecycle business logic: creation with slot
// assignment and reset back to SETUP.
type App struct {
	db        *sql.DB
	clock     clockwork.Clock
	publisher events.Publisher
}

// NewApp creates a new leagues App.
func NewApp(db *sql.DB, clock clockwork.Clock, publisher events.Publisher) *App {
	return &App{
		db:        db,
		clock:     clock,
		publisher: publisher,
	}
}

// CreateLeague creates a league together with its members and teams in one
// transaction. Slot 1 is the commissioner; invites get slots 2..K in input
// order after normalization and dedup.
func (a *App) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.CommissionerEmail = identity.Normalize(req.CommissionerEmail)
	if req.MaxPlayers == 0 {
		req.MaxPlayers = defaultMaxPlayers
	}

	if err := a.validateCreateLeagueRequest(req); err != nil {
		return nil, err
	}

	invites := normalizeInvites(req.InviteEmails, req.CommissionerEmail)
	// Total participants includes the commissioner.
	if 1+len(invites) > req.MaxPlayers {
		return nil, apperrors.Validation("Too many emails. max_players=%d includes commissioner.", req.MaxPlayers)
	}

	league := models.League{
		ID:                uuid.New(),
		Name:              req.Name,
		CommissionerEmail: req.CommissionerEmail,
		MaxPlayers:        req.MaxPlayers,
		Status:            models.LeagueStatusSetup,
		CreatedAt:         a.clock.Now().UTC(),
	}

	err := sqlutil.Run(ctx, a.db, bindRepo, func(q *Repository) error {
		if err := q.CreateLeague(ctx, league); err != nil {
			return err
		}

		commissioner := models.LeagueMember{
			ID:             uuid.New(),
			LeagueID:       league.ID,
			Email:          league.CommissionerEmail,
			DisplayName:    "Commissioner",
			Slot:           1,
			IsCommissioner: true,
		}
		if err := q.InsertMember(ctx, commissioner); err != nil {
			return err
		}
		if err := q.InsertTeam(ctx, models.FantasyTeam{
			ID:       uuid.New(),
			LeagueID: league.ID,
			MemberID: commissioner.ID,
			Name:     "Commissioner Team",
		}); err != nil {
			return err
		}

		// Invites get slots 2..K.
		for i, email := range invites {
			member := models.LeagueMember{
				ID:             uuid.New(),
				LeagueID:       league.ID,
				Email:          email,
				DisplayName:    identity.DisplayName(email),
				Slot:           2 + i,
				IsCommissioner: false,
			}
			if err := q.InsertMember(ctx, member); err != nil {
				return err
			}
			if err := q.InsertTeam(ctx, models.FantasyTeam{
				ID:       uuid.New(),
				LeagueID: league.ID,
				MemberID: member.ID,
				Name:     fmt.Sprintf("%s's Team", member.DisplayName),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	log.Info().
		Str("league_id", league.ID.String()).
		Str("commissioner", league.CommissionerEmail).
		Int("members", 1+len(invites)).
		Msg("created league")
	return &league, nil
}

// GetLeague retrieves a league by ID.
func (a *App) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	league, err := NewRepository(a.db).GetLeague(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("League not found")
		}
		return nil, err
	}
	return league, nil
}

// ListLeagues returns the 50 most recently created leagues.
func (a *App) ListLeagues(ctx context.Context) ([]models.League, error) {
	return NewRepository(a.db).ListLeagues(ctx, 50)
}

// ListMembers returns a league's members ordered by slot.
func (a *App) ListMembers(ctx context.Context, leagueID uuid.UUID) ([]models.LeagueMember, error) {
	return NewRepository(a.db).ListMembers(ctx, leagueID)
}

// ListTeams returns a league's fantasy teams.
func (a *App) ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	return NewRepository(a.db).ListTeams(ctx, leagueID)
}

// GetMemberByEmail looks up a member by identity. Returns nil without error
// when no member matches, mirroring "unknown member" being a caller problem
// rather than a storage one.
func (a *App) GetMemberByEmail(ctx context.Context, leagueID uuid.UUID, email string) (*models.LeagueMember, error) {
	email = identity.Normalize(email)
	if email == "" {
		return nil, nil
	}
	member, err := NewRepository(a.db).GetMemberByEmail(ctx, leagueID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// CountMembers returns the number of members in a league.
func (a *App) CountMembers(ctx context.Context, leagueID uuid.UUID) (int, error) {
	return NewRepository(a.db).CountMembers(ctx, leagueID)
}

// ResetLeague deletes the league's picks and draft (if any) and returns the
// league to SETUP. Idempotent: resetting with no draft is a no-op on the
// draft side.
func (a *App) ResetLeague(ctx context.Context, leagueID uuid.UUID, starterEmail string) (*models.League, error) {
	league, err := a.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	if starterEmail != "" && !identity.Equal(starterEmail, league.CommissionerEmail) {
		return nil, apperrors.Permission("Only commissioner can reset league")
	}

	err = sqlutil.Run(ctx, a.db, bindRepo, func(q *Repository) error {
		if err := q.LockLeague(ctx, leagueID); err != nil {
			return err
		}
		// Picks first, then the draft row itself.
		if err := q.DeleteDraftPicksByLeague(ctx, leagueID); err != nil {
			return err
		}
		if err := q.DeleteDraftByLeague(ctx, leagueID); err != nil {
			return err
		}
		return q.UpdateLeagueStatus(ctx, leagueID, models.LeagueStatusSetup)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset league: %w", err)
	}

	a.publishReset(ctx, leagueID)

	log.Info().Str("league_id", leagueID.String()).Msg("reset league")
	return a.GetLeague(ctx, leagueID)
}

func (a *App) publishReset(ctx context.Context, leagueID uuid.UUID) {
	now := a.clock.Now().UTC()
	event, err := events.NewEvent(events.TypeLeagueReset, leagueID, now, events.LeagueResetPayload{
		LeagueID: leagueID.String(),
		ResetAt:  now,
	})
	if err == nil {
		err = a.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("league_id", leagueID.String()).Msg("failed to publish league_reset")
	}
}

// validateCreateLeagueRequest validates a create league request after
// normalization and defaulting.
func (a *App) validateCreateLeagueRequest(req CreateLeagueRequest) error {
	if req.Name == "" {
		return apperrors.Validation("name is required")
	}
	if req.CommissionerEmail == "" {
		return apperrors.Validation("commissioner_email is required")
	}
	if req.MaxPlayers < MinPlayers || req.MaxPlayers > MaxPlayersLimit {
		return apperrors.Validation("max_players must be between %d and %d", MinPlayers, MaxPlayersLimit)
	}
	return nil
}

// normalizeInvites lowercases, trims, dedups and drops empty entries and
// the commissioner's own email, preserving input order.
func normalizeInvites(invites []string, commissionerEmail string) []string {
	seen := make(map[string]bool, len(invites))
	var out []string
	for _, e := range invites {
		ne := identity.Normalize(e)
		if ne == "" || ne == commissionerEmail || seen[ne] {
			continue
		}
		seen[ne] = true
		out = append(out, ne)
	}
	return out
}

func bindRepo(db sqlutil.DBTX) *Repository {
	return NewRepository(db)
}
