package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastbreakhq/fastbreak/go/internal/models"
	"github.com/fastbreakhq/fastbreak/go/internal/sqlutil"
)

// Repository implements draft and pick data access. It binds to a
// sqlutil.DBTX; the ForUpdate variants only make sense inside a
// transaction.
type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const draftColumns = `id, league_id, status, current_slot, round, pick_number, started_at`

// GetDraftByLeague retrieves a league's draft. Returns sql.ErrNoRows
// (wrapped) when the draft has never been started.
func (r *Repository) GetDraftByLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+draftColumns+` FROM drafts WHERE league_id = $1
	`, leagueID)
	return scanDraft(row)
}

// GetDraftByLeagueForUpdate retrieves a league's draft holding a row-level
// exclusive lock until the surrounding transaction ends. This is the sole
// serialization point for concurrent picks on one draft: a second
// transaction blocks here until the first commits or rolls back, then sees
// the advanced turn state.
func (r *Repository) GetDraftByLeagueForUpdate(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+draftColumns+` FROM drafts WHERE league_id = $1 FOR UPDATE
	`, leagueID)
	return scanDraft(row)
}

// CreateDraft inserts a new draft row.
func (r *Repository) CreateDraft(ctx context.Context, d models.Draft) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, league_id, status, current_slot, round, pick_number, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.LeagueID, d.Status, d.CurrentSlot, d.Round, d.PickNumber, d.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// ReinitializeDraft restarts an existing non-in-progress draft from the
// top: slot/round/pick back to 1, fresh started_at.
func (r *Repository) ReinitializeDraft(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE drafts
		SET status = $2, current_slot = 1, round = 1, pick_number = 1, started_at = $3
		WHERE id = $1
	`, id, models.DraftStatusInProgress, startedAt)
	if err != nil {
		return fmt.Errorf("failed to reinitialize draft: %w", err)
	}
	return nil
}

// AdvanceDraft writes back the sequencer's next turn.
func (r *Repository) AdvanceDraft(ctx context.Context, id uuid.UUID, next Turn) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE drafts SET current_slot = $2, round = $3, pick_number = $4 WHERE id = $1
	`, id, next.Slot, next.Round, next.PickNumber)
	if err != nil {
		return fmt.Errorf("failed to advance draft: %w", err)
	}
	return nil
}

// PlayerDrafted reports whether a player is already taken in this draft.
func (r *Repository) PlayerDrafted(ctx context.Context, draftID uuid.UUID, playerID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM draft_picks WHERE draft_id = $1 AND player_id = $2)
	`, draftID, playerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check drafted player: %w", err)
	}
	return exists, nil
}

// InsertPick appends one pick.
func (r *Repository) InsertPick(ctx context.Context, p models.DraftPick) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO draft_picks (id, draft_id, pick_number, round, slot, member_id, player_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.DraftID, p.PickNumber, p.Round, p.Slot, p.MemberID, p.PlayerID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

// ListPicksByDraft returns all picks ordered by pick number.
func (r *Repository) ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, draft_id, pick_number, round, slot, member_id, player_id, created_at
		FROM draft_picks WHERE draft_id = $1 ORDER BY pick_number
	`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		var p models.DraftPick
		if err := rows.Scan(&p.ID, &p.DraftID, &p.PickNumber, &p.Round, &p.Slot, &p.MemberID, &p.PlayerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// LockLeague takes a row-level exclusive lock on the league row. Used by
// StartDraft, where the draft row may not exist yet and so cannot itself be
// locked.
func (r *Repository) LockLeague(ctx context.Context, leagueID uuid.UUID) error {
	var locked uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM leagues WHERE id = $1 FOR UPDATE
	`, leagueID).Scan(&locked)
	if err != nil {
		return fmt.Errorf("failed to lock league: %w", err)
	}
	return nil
}

// SetLeagueStatus flips the owning league's status inside the draft
// transaction.
func (r *Repository) SetLeagueStatus(ctx context.Context, leagueID uuid.UUID, status models.LeagueStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE leagues SET status = $2 WHERE id = $1
	`, leagueID, status)
	if err != nil {
		return fmt.Errorf("failed to set league status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	var d models.Draft
	err := row.Scan(&d.ID, &d.LeagueID, &d.Status, &d.CurrentSlot, &d.Round, &d.PickNumber, &d.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &d, nil
}
