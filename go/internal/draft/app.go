package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/fastbreakhq/fastbreak/go/internal/apperrors"
	"github.com/fastbreakhq/fastbreak/go/internal/events"
	"github.com/fastbreakhq/fastbreak/go/internal/identity"
	"github.com/fastbreakhq/fastbreak/go/internal/models"
	"github.com/fastbreakhq/fastbreak/go/internal/sqlutil"
)

// LeagueReader defines what the draft app needs from the leagues app.
// Member rows are immutable while a draft runs, so reading them outside the
// pick transaction is safe.
type LeagueReader interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListMembers(ctx context.Context, leagueID uuid.UUID) ([]models.LeagueMember, error)
	GetMemberByEmail(ctx context.Context, leagueID uuid.UUID, email string) (*models.LeagueMember, error)
	CountMembers(ctx context.Context, leagueID uuid.UUID) (int, error)
}

// App owns the draft state machine and the pick transaction coordinator.
type App struct {
	db        *sql.DB
	leagues   LeagueReader
	clock     clockwork.Clock
	publisher events.Publisher
}

// NewApp creates a new draft App.
func NewApp(db *sql.DB, leagues LeagueReader, clock clockwork.Clock, publisher events.Publisher) *App {
	return &App{
		db:        db,
		leagues:   leagues,
		clock:     clock,
		publisher: publisher,
	}
}

// StartDraft transitions a league's draft to IN_PROGRESS. Creates the draft
// row on first start; re-initializes a stale non-in-progress row; rejects a
// start while a draft is already running. Draft-row creation is guarded by
// a row-level lock on the league so two simultaneous starts cannot both
// succeed.
func (a *App) StartDraft(ctx context.Context, leagueID uuid.UUID, starterEmail string) (*models.Draft, error) {
	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	if starterEmail != "" && !identity.Equal(starterEmail, league.CommissionerEmail) {
		return nil, apperrors.Permission("Only commissioner can start draft (starter_email mismatch)")
	}

	memberCount, err := a.leagues.CountMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if memberCount < 2 {
		return nil, apperrors.Validation("Need at least 2 members to start draft")
	}

	now := a.clock.Now().UTC()
	var started models.Draft

	err = sqlutil.Run(ctx, a.db, bindRepo, func(q *Repository) error {
		if err := q.LockLeague(ctx, leagueID); err != nil {
			return err
		}

		existing, err := q.GetDraftByLeague(ctx, leagueID)
		switch {
		case err != nil && errors.Is(err, sql.ErrNoRows):
			started = models.Draft{
				ID:          uuid.New(),
				LeagueID:    leagueID,
				Status:      models.DraftStatusInProgress,
				CurrentSlot: 1,
				Round:       1,
				PickNumber:  1,
				StartedAt:   &now,
			}
			if err := q.CreateDraft(ctx, started); err != nil {
				return err
			}
		case err != nil:
			return err
		case existing.Status == models.DraftStatusInProgress:
			return apperrors.Conflict("Draft already in progress")
		default:
			// Exists but not running: start it over from the top.
			if err := q.ReinitializeDraft(ctx, existing.ID, now); err != nil {
				return err
			}
			started = *existing
			started.Status = models.DraftStatusInProgress
			started.CurrentSlot = 1
			started.Round = 1
			started.PickNumber = 1
			started.StartedAt = &now
		}

		return q.SetLeagueStatus(ctx, leagueID, models.LeagueStatusDrafting)
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to start draft: %w", err)
	}

	a.publishDraftStarted(ctx, &started, memberCount)

	log.Info().
		Str("league_id", leagueID.String()).
		Str("draft_id", started.ID.String()).
		Int("members", memberCount).
		Msg("draft started")
	return &started, nil
}

// MakePick validates and commits one pick. All checks from the turn check
// onward run under a row-level exclusive lock on the draft row, and the
// pick insert plus turn advancement commit atomically with it. Two
// concurrent picks on one draft serialize on the lock; the loser re-reads
// the advanced state and is either rejected ("not your turn") or becomes
// the next valid pick.
func (a *App) MakePick(ctx context.Context, leagueID uuid.UUID, req MakePickRequest) (*models.DraftPick, error) {
	email := identity.Normalize(req.Email)
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}

	// Precondition 1: the picker must be a member of this league.
	if _, err := a.leagues.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	member, err := a.leagues.GetMemberByEmail(ctx, leagueID, email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.Validation("That email is not a member of this league")
	}

	members, err := a.leagues.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	var pick models.DraftPick
	var next Turn

	err = sqlutil.Run(ctx, a.db, bindRepo, func(q *Repository) error {
		// Preconditions 2-4: draft exists, is running, and we hold its lock.
		d, err := q.GetDraftByLeagueForUpdate(ctx, leagueID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.Validation("Draft not started")
			}
			return err
		}
		if d.Status != models.DraftStatusInProgress {
			return apperrors.Validation("Draft status is %s, not in progress", d.Status)
		}

		// Precondition 5: it must be the picker's turn.
		if member.Slot != d.CurrentSlot {
			conflict := apperrors.Conflict("Not your turn")
			if current := memberBySlot(members, d.CurrentSlot); current != nil {
				conflict = conflict.WithDetails(map[string]any{
					"current_turn": CurrentTurn{Slot: d.CurrentSlot, Email: current.Email},
				})
			}
			return conflict
		}

		// Precondition 6: the player must still be available.
		taken, err := q.PlayerDrafted(ctx, d.ID, req.PlayerID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("Player already drafted")
		}

		pick = models.DraftPick{
			ID:         uuid.New(),
			DraftID:    d.ID,
			PickNumber: d.PickNumber,
			Round:      d.Round,
			Slot:       member.Slot,
			MemberID:   member.ID,
			PlayerID:   req.PlayerID,
			CreatedAt:  now,
		}
		if err := q.InsertPick(ctx, pick); err != nil {
			return err
		}

		cur := Turn{Slot: d.CurrentSlot, Round: d.Round, PickNumber: d.PickNumber}
		next, err = NextTurn(cur, len(members))
		if err != nil {
			return err
		}
		return q.AdvanceDraft(ctx, d.ID, next)
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to make pick: %w", err)
	}

	a.publishPickMade(ctx, leagueID, &pick, email, next)

	log.Info().
		Str("league_id", leagueID.String()).
		Int("pick_number", pick.PickNumber).
		Int("round", pick.Round).
		Int("slot", pick.Slot).
		Int("player_id", pick.PlayerID).
		Msg("pick made")
	return &pick, nil
}

// GetDraftByLeague retrieves a league's draft, or nil when it has never
// been started. Callers surface the nil case as NOT_STARTED.
func (a *App) GetDraftByLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	d, err := NewRepository(a.db).GetDraftByLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// ListPicksByDraft returns a draft's picks ordered by pick number.
func (a *App) ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	return NewRepository(a.db).ListPicksByDraft(ctx, draftID)
}

func (a *App) publishDraftStarted(ctx context.Context, d *models.Draft, memberCount int) {
	startedAt := a.clock.Now().UTC()
	if d.StartedAt != nil {
		startedAt = *d.StartedAt
	}
	event, err := events.NewEvent(events.TypeDraftStarted, d.LeagueID, startedAt, events.DraftStartedPayload{
		LeagueID:    d.LeagueID.String(),
		DraftID:     d.ID.String(),
		StartedAt:   startedAt,
		MemberCount: memberCount,
	})
	if err == nil {
		err = a.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("league_id", d.LeagueID.String()).Msg("failed to publish draft_started")
	}
}

func (a *App) publishPickMade(ctx context.Context, leagueID uuid.UUID, pick *models.DraftPick, email string, next Turn) {
	event, err := events.NewEvent(events.TypePickMade, leagueID, pick.CreatedAt, events.PickMadePayload{
		LeagueID:   leagueID.String(),
		DraftID:    pick.DraftID.String(),
		PickNumber: pick.PickNumber,
		Round:      pick.Round,
		Slot:       pick.Slot,
		Email:      email,
		PlayerID:   pick.PlayerID,
		MadeAt:     pick.CreatedAt,
		NextSlot:   next.Slot,
		NextRound:  next.Round,
	})
	if err == nil {
		err = a.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("league_id", leagueID.String()).Msg("failed to publish pick_made")
	}
}

func memberBySlot(members []models.LeagueMember, slot int) *models.LeagueMember {
	for i := range members {
		if members[i].Slot == slot {
			return &members[i]
		}
	}
	return nil
}

func bindRepo(db sqlutil.DBTX) *Repository {
	return NewRepository(db)
}
