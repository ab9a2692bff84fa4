package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/fastbreakhq/fastbreak/go/internal/apperrors"
	"github.com/fastbreakhq/fastbreak/go/internal/draft"
	"github.com/fastbreakhq/fastbreak/go/internal/leagues"
	"github.com/fastbreakhq/fastbreak/go/internal/models"
)

// Server holds the apps behind the HTTP surface.
type Server struct {
	leagues *leagues.App
	drafts  *draft.App
}

func NewServer(leaguesApp *leagues.App, draftApp *draft.App) *Server {
	return &Server{
		leagues: leaguesApp,
		drafts:  draftApp,
	}
}

// createLeagueBody keeps invite_emails raw so a non-list value gets its own
// validation message instead of a generic decode error.
type createLeagueBody struct {
	Name              string          `json:"name"`
	CommissionerEmail string          `json:"commissioner_email"`
	InviteEmails      json.RawMessage `json:"invite_emails"`
	MaxPlayers        int             `json:"max_players"`
}

// startDraftBody is shared by start-draft and reset.
type startDraftBody struct {
	StarterEmail string `json:"starter_email"`
}

type makePickBody struct {
	Email    string          `json:"email"`
	PlayerID json.RawMessage `json:"player_id"`
}

// CreateLeague handles POST /leagues/
func (s *Server) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var body createLeagueBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var invites []string
	if len(body.InviteEmails) > 0 && string(body.InviteEmails) != "null" {
		if err := json.Unmarshal(body.InviteEmails, &invites); err != nil {
			ErrorResponse(w, http.StatusBadRequest, "invite_emails must be a list")
			return
		}
	}

	league, err := s.leagues.CreateLeague(r.Context(), leagues.CreateLeagueRequest{
		Name:              body.Name,
		CommissionerEmail: body.CommissionerEmail,
		InviteEmails:      invites,
		MaxPlayers:        body.MaxPlayers,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	s.writeLeagueSnapshot(w, r.Context(), league, http.StatusCreated)
}

// ListLeagues handles GET /leagues/
func (s *Server) ListLeagues(w http.ResponseWriter, r *http.Request) {
	all, err := s.leagues.ListLeagues(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	snapshots := make([]LeagueSnapshot, 0, len(all))
	for i := range all {
		snapshot, err := s.buildSnapshot(r.Context(), &all[i])
		if err != nil {
			WriteError(w, err)
			return
		}
		snapshots = append(snapshots, snapshot)
	}
	JSONResponse(w, http.StatusOK, snapshots)
}

// GetLeague handles GET /leagues/{id}/
func (s *Server) GetLeague(w http.ResponseWriter, r *http.Request) {
	league, ok := s.leagueFromPath(w, r)
	if !ok {
		return
	}
	s.writeLeagueSnapshot(w, r.Context(), league, http.StatusOK)
}

// StartDraft handles POST /leagues/{id}/start-draft/
func (s *Server) StartDraft(w http.ResponseWriter, r *http.Request) {
	league, ok := s.leagueFromPath(w, r)
	if !ok {
		return
	}

	var body startDraftBody
	if err := ParseJSONBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, err := s.drafts.StartDraft(r.Context(), league.ID, body.StarterEmail); err != nil {
		WriteError(w, err)
		return
	}

	// Re-read: status changed to DRAFTING.
	fresh, err := s.leagues.GetLeague(r.Context(), league.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	s.writeLeagueSnapshot(w, r.Context(), fresh, http.StatusOK)
}

// MakePick handles POST /leagues/{id}/pick/
func (s *Server) MakePick(w http.ResponseWriter, r *http.Request) {
	league, ok := s.leagueFromPath(w, r)
	if !ok {
		return
	}

	var body makePickBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	playerID, ok := parsePlayerID(body.PlayerID)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "player_id must be an integer")
		return
	}

	_, err := s.drafts.MakePick(r.Context(), league.ID, draft.MakePickRequest{
		Email:    body.Email,
		PlayerID: playerID,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	s.writeLeagueSnapshot(w, r.Context(), league, http.StatusOK)
}

// GetTeams handles GET /leagues/{id}/teams/
func (s *Server) GetTeams(w http.ResponseWriter, r *http.Request) {
	league, ok := s.leagueFromPath(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	members, err := s.leagues.ListMembers(ctx, league.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	teams, err := s.leagues.ListTeams(ctx, league.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	teamNames := make(map[uuid.UUID]string, len(teams))
	for _, t := range teams {
		teamNames[t.MemberID] = t.Name
	}

	picksByMember := make(map[uuid.UUID][]int, len(members))
	d, err := s.drafts.GetDraftByLeague(ctx, league.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if d != nil {
		picks, err := s.drafts.ListPicksByDraft(ctx, d.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		for _, p := range picks {
			picksByMember[p.MemberID] = append(picksByMember[p.MemberID], p.PlayerID)
		}
	}

	view := TeamsView{LeagueID: league.ID, Teams: make([]TeamEntry, 0, len(members))}
	for _, m := range members {
		playerIDs := picksByMember[m.ID]
		if playerIDs == nil {
			playerIDs = []int{}
		}
		view.Teams = append(view.Teams, TeamEntry{
			Member:    buildMemberSnapshot(m),
			TeamName:  teamNames[m.ID],
			PlayerIDs: playerIDs,
		})
	}
	JSONResponse(w, http.StatusOK, view)
}

// ResetLeague handles POST /leagues/{id}/reset/
func (s *Server) ResetLeague(w http.ResponseWriter, r *http.Request) {
	league, ok := s.leagueFromPath(w, r)
	if !ok {
		return
	}

	var body startDraftBody
	if err := ParseJSONBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	fresh, err := s.leagues.ResetLeague(r.Context(), league.ID, body.StarterEmail)
	if err != nil {
		WriteError(w, err)
		return
	}
	s.writeLeagueSnapshot(w, r.Context(), fresh, http.StatusOK)
}

// Healthz handles GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// leagueFromPath resolves {id} and loads the league, writing the error
// response itself on failure.
func (s *Server) leagueFromPath(w http.ResponseWriter, r *http.Request) (*models.League, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, apperrors.NotFound("League not found"))
		return nil, false
	}
	league, err := s.leagues.GetLeague(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return nil, false
	}
	return league, true
}

func (s *Server) buildSnapshot(ctx context.Context, league *models.League) (LeagueSnapshot, error) {
	members, err := s.leagues.ListMembers(ctx, league.ID)
	if err != nil {
		return LeagueSnapshot{}, err
	}
	d, err := s.drafts.GetDraftByLeague(ctx, league.ID)
	if err != nil {
		return LeagueSnapshot{}, err
	}
	return buildLeagueSnapshot(league, members, d), nil
}

func (s *Server) writeLeagueSnapshot(w http.ResponseWriter, ctx context.Context, league *models.League, status int) {
	snapshot, err := s.buildSnapshot(ctx, league)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONResponse(w, status, snapshot)
}

// parsePlayerID accepts a JSON number or a numeric string.
func parsePlayerID(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if n, err := strconv.Atoi(str); err == nil {
			return n, true
		}
	}
	return 0, false
}
