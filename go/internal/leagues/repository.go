package leagues

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastbreakhq/fastbreak/go/internal/models"
	"github.com/fastbreakhq/fastbreak/go/internal/sqlutil"
)

// Repository implements league data access operations. It binds to a
// sqlutil.DBTX so the same queries run standalone or inside a transaction.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new leagues repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// CreateLeague inserts a new league row.
func (r *Repository) CreateLeague(ctx context.Context, league models.League) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leagues (id, name, commissioner_email, max_players, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, league.ID, league.Name, league.CommissionerEmail, league.MaxPlayers, league.Status, league.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

// InsertMember inserts one league member.
func (r *Repository) InsertMember(ctx context.Context, m models.LeagueMember) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO league_members (id, league_id, email, display_name, slot, is_commissioner)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.LeagueID, m.Email, m.DisplayName, m.Slot, m.IsCommissioner)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// InsertTeam inserts one fantasy team.
func (r *Repository) InsertTeam(ctx context.Context, t models.FantasyTeam) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fantasy_teams (id, league_id, member_id, name)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.LeagueID, t.MemberID, t.Name)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

// GetLeague retrieves a league by ID. Returns sql.ErrNoRows (wrapped) when
// the league does not exist.
func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var league models.League
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, commissioner_email, max_players, status, created_at
		FROM leagues WHERE id = $1
	`, id).Scan(&league.ID, &league.Name, &league.CommissionerEmail, &league.MaxPlayers, &league.Status, &league.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &league, nil
}

// ListLeagues returns the most recently created leagues.
func (r *Repository) ListLeagues(ctx context.Context, limit int) ([]models.League, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, commissioner_email, max_players, status, created_at
		FROM leagues ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	var leagues []models.League
	for rows.Next() {
		var league models.League
		if err := rows.Scan(&league.ID, &league.Name, &league.CommissionerEmail, &league.MaxPlayers, &league.Status, &league.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

// ListMembers returns a league's members ordered by slot.
func (r *Repository) ListMembers(ctx context.Context, leagueID uuid.UUID) ([]models.LeagueMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, league_id, email, display_name, slot, is_commissioner
		FROM league_members WHERE league_id = $1 ORDER BY slot
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.LeagueMember
	for rows.Next() {
		var m models.LeagueMember
		if err := rows.Scan(&m.ID, &m.LeagueID, &m.Email, &m.DisplayName, &m.Slot, &m.IsCommissioner); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMemberByEmail looks up a member by normalized email. Returns
// sql.ErrNoRows (wrapped) when no such member exists.
func (r *Repository) GetMemberByEmail(ctx context.Context, leagueID uuid.UUID, email string) (*models.LeagueMember, error) {
	var m models.LeagueMember
	err := r.db.QueryRowContext(ctx, `
		SELECT id, league_id, email, display_name, slot, is_commissioner
		FROM league_members WHERE league_id = $1 AND email = $2
	`, leagueID, email).Scan(&m.ID, &m.LeagueID, &m.Email, &m.DisplayName, &m.Slot, &m.IsCommissioner)
	if err != nil {
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	return &m, nil
}

// CountMembers returns the number of members in a league.
func (r *Repository) CountMembers(ctx context.Context, leagueID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM league_members WHERE league_id = $1
	`, leagueID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// ListTeams returns a league's fantasy teams.
func (r *Repository) ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, league_id, member_id, name
		FROM fantasy_teams WHERE league_id = $1
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.FantasyTeam
	for rows.Next() {
		var t models.FantasyTeam
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.MemberID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// UpdateLeagueStatus updates only the status of a league.
func (r *Repository) UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE leagues SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update league status: %w", err)
	}
	return nil
}

// LockLeague takes a row-level exclusive lock on the league for the
// duration of the surrounding transaction. Serializes start/reset against
// each other for one league.
func (r *Repository) LockLeague(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM leagues WHERE id = $1 FOR UPDATE
	`, id).Scan(&locked)
	if err != nil {
		return fmt.Errorf("failed to lock league: %w", err)
	}
	return nil
}

// DeleteDraftPicksByLeague removes all picks belonging to a league's draft.
func (r *Repository) DeleteDraftPicksByLeague(ctx context.Context, leagueID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM draft_picks
		WHERE draft_id IN (SELECT id FROM drafts WHERE league_id = $1)
	`, leagueID)
	if err != nil {
		return fmt.Errorf("failed to delete draft picks: %w", err)
	}
	return nil
}

// DeleteDraftByLeague removes a league's draft row. No-op when absent.
func (r *Repository) DeleteDraftByLeague(ctx context.Context, leagueID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM drafts WHERE league_id = $1
	`, leagueID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
