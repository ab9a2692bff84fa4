package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fastbreakhq/fastbreak/go/internal/testutil"
)

func newTestMux(t *testing.T) (*http.ServeMux, *sql.DB) {
	t.Helper()
	database := testutil.SetupTestDB(t)
	t.Cleanup(func() { database.Close() })

	leagueApp, draftApp, _ := testutil.NewApps(t, database)
	return NewRouter(NewServer(leagueApp, draftApp)), database
}

func createLeague(t *testing.T, mux *http.ServeMux, body map[string]any) LeagueSnapshot {
	t.Helper()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/leagues/", body))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var snapshot LeagueSnapshot
	testutil.DecodeJSON(t, w, &snapshot)
	return snapshot
}

func do(mux *http.ServeMux, method, path string, body map[string]any) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest(method, path, body))
	return w
}

func TestCreateLeague(t *testing.T) {
	mux, _ := newTestMux(t)

	snapshot := createLeague(t, mux, map[string]any{
		"name":               "Hoops League",
		"commissioner_email": "Alice@X.com",
		"invite_emails":      []string{"bob@x.com", "carol@x.com"},
	})

	if snapshot.Name != "Hoops League" {
		t.Errorf("name = %q", snapshot.Name)
	}
	if snapshot.CommissionerEmail != "alice@x.com" {
		t.Errorf("commissioner email not normalized: %q", snapshot.CommissionerEmail)
	}
	if snapshot.MaxPlayers != 4 {
		t.Errorf("expected default max_players 4, got %d", snapshot.MaxPlayers)
	}
	if snapshot.Status != "SETUP" {
		t.Errorf("status = %q", snapshot.Status)
	}
	if len(snapshot.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(snapshot.Members))
	}
	if snapshot.Members[0].Slot != 1 || !snapshot.Members[0].IsCommissioner {
		t.Errorf("slot 1 should be the commissioner: %+v", snapshot.Members[0])
	}
	if snapshot.Members[1].Email != "bob@x.com" || snapshot.Members[1].Slot != 2 {
		t.Errorf("unexpected second member: %+v", snapshot.Members[1])
	}
	if snapshot.Draft != nil {
		t.Errorf("expected draft to be null before start, got %+v", snapshot.Draft)
	}
}

func TestCreateLeagueValidation(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing name",
			body:       map[string]any{"commissioner_email": "a@x.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "name is required",
		},
		{
			name:       "missing commissioner",
			body:       map[string]any{"name": "L"},
			wantStatus: http.StatusBadRequest,
			wantError:  "commissioner_email is required",
		},
		{
			name:       "invite_emails not a list",
			body:       map[string]any{"name": "L", "commissioner_email": "a@x.com", "invite_emails": "b@x.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invite_emails must be a list",
		},
		{
			name:       "max_players out of range",
			body:       map[string]any{"name": "L", "commissioner_email": "a@x.com", "max_players": 7},
			wantStatus: http.StatusBadRequest,
			wantError:  "max_players must be between 2 and 4",
		},
		{
			name: "too many invites for max_players",
			body: map[string]any{
				"name":               "L",
				"commissioner_email": "a@x.com",
				"max_players":        2,
				"invite_emails":      []string{"b@x.com", "c@x.com"},
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Too many emails. max_players=2 includes commissioner.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(mux, "POST", "/leagues/", tt.body)
			testutil.AssertStatus(t, w, tt.wantStatus)

			var resp map[string]any
			testutil.DecodeJSON(t, w, &resp)
			if resp["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", resp["error"], tt.wantError)
			}
		})
	}
}

func TestCreateLeagueDedupsInvites(t *testing.T) {
	mux, _ := newTestMux(t)

	snapshot := createLeague(t, mux, map[string]any{
		"name":               "L",
		"commissioner_email": "a@x.com",
		"invite_emails":      []string{"B@x.com", "b@x.com", "A@x.com"},
	})
	// Commissioner's own email and the duplicate collapse to one invite.
	if len(snapshot.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(snapshot.Members))
	}
}

func TestGetLeagueNotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	w := do(mux, "GET", "/leagues/0d4e6c7a-0000-0000-0000-000000000000/", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// A malformed id is indistinguishable from a missing league.
	w = do(mux, "GET", "/leagues/not-a-uuid/", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestStartDraft(t *testing.T) {
	mux, _ := newTestMux(t)

	league := createLeague(t, mux, map[string]any{
		"name":               "L",
		"commissioner_email": "a@x.com",
		"invite_emails":      []string{"b@x.com"},
	})
	base := "/leagues/" + league.ID.String()

	// Non-commissioner cannot start.
	w := do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "b@x.com"})
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "A@x.com"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshot LeagueSnapshot
	testutil.DecodeJSON(t, w, &snapshot)
	if snapshot.Status != "DRAFTING" {
		t.Errorf("status = %q, want DRAFTING", snapshot.Status)
	}
	if snapshot.Draft == nil {
		t.Fatal("expected draft in snapshot")
	}
	if snapshot.Draft.Status != "IN_PROGRESS" {
		t.Errorf("draft status = %q", snapshot.Draft.Status)
	}
	if snapshot.Draft.CurrentSlot != 1 || snapshot.Draft.Round != 1 || snapshot.Draft.PickNumber != 1 {
		t.Errorf("draft should start at slot 1, round 1, pick 1: %+v", snapshot.Draft)
	}
	if snapshot.Draft.CurrentTurn == nil || snapshot.Draft.CurrentTurn.Email != "a@x.com" {
		t.Errorf("current turn should be the commissioner: %+v", snapshot.Draft.CurrentTurn)
	}

	// Starting again while running conflicts.
	w = do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "Draft already in progress" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestStartDraftNeedsTwoMembers(t *testing.T) {
	mux, _ := newTestMux(t)

	league := createLeague(t, mux, map[string]any{
		"name":               "Solo",
		"commissioner_email": "a@x.com",
	})

	w := do(mux, "POST", "/leagues/"+league.ID.String()+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "Need at least 2 members to start draft" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestMakePickFlow(t *testing.T) {
	mux, _ := newTestMux(t)

	league := createLeague(t, mux, map[string]any{
		"name":               "L",
		"commissioner_email": "a@x.com",
		"invite_emails":      []string{"b@x.com", "c@x.com"},
	})
	base := "/leagues/" + league.ID.String()

	// Picking before the draft starts fails.
	w := do(mux, "POST", base+"/pick/", map[string]any{"email": "a@x.com", "player_id": 101})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "Draft not started" {
		t.Errorf("error = %q", resp["error"])
	}

	w = do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusOK)

	// Slot 1 picks.
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "a@x.com", "player_id": 101})
	testutil.AssertStatus(t, w, http.StatusOK)

	// Slot 1 again out of turn: conflict with current turn details.
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "a@x.com", "player_id": 102})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "Not your turn" {
		t.Errorf("error = %q", resp["error"])
	}
	if resp["current_turn"] == nil {
		t.Error("expected current_turn details on the conflict")
	}

	// Slot 2 cannot re-pick a drafted player.
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "b@x.com", "player_id": 101})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "Player already drafted" {
		t.Errorf("error = %q", resp["error"])
	}

	// A stranger cannot pick at all.
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "mallory@x.com", "player_id": 999})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "That email is not a member of this league" {
		t.Errorf("error = %q", resp["error"])
	}

	// player_id may arrive as a numeric string, but not as garbage.
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "b@x.com", "player_id": "202"})
	testutil.AssertStatus(t, w, http.StatusOK)
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "c@x.com", "player_id": "lebron"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "player_id must be an integer" {
		t.Errorf("error = %q", resp["error"])
	}

	// Slot 3 completes round 1; the turn wraps back to slot 1, round 2.
	w = do(mux, "POST", base+"/pick/", map[string]any{"email": "c@x.com", "player_id": 303})
	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshot LeagueSnapshot
	testutil.DecodeJSON(t, w, &snapshot)
	if snapshot.Draft == nil {
		t.Fatal("expected draft in snapshot")
	}
	if snapshot.Draft.CurrentSlot != 1 || snapshot.Draft.Round != 2 || snapshot.Draft.PickNumber != 4 {
		t.Errorf("expected wrap to slot 1, round 2, pick 4: %+v", snapshot.Draft)
	}
}

func TestGetTeams(t *testing.T) {
	mux, _ := newTestMux(t)

	league := createLeague(t, mux, map[string]any{
		"name":               "L",
		"commissioner_email": "a@x.com",
		"invite_emails":      []string{"b@x.com"},
	})
	base := "/leagues/" + league.ID.String()

	// Teams exist even before the draft, with empty rosters.
	w := do(mux, "GET", base+"/teams/", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var view TeamsView
	testutil.DecodeJSON(t, w, &view)
	if len(view.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(view.Teams))
	}
	if view.Teams[0].TeamName != "Commissioner Team" {
		t.Errorf("team name = %q", view.Teams[0].TeamName)
	}
	if view.Teams[1].TeamName != "b's Team" {
		t.Errorf("team name = %q", view.Teams[1].TeamName)
	}
	if len(view.Teams[0].PlayerIDs) != 0 {
		t.Errorf("expected empty roster, got %v", view.Teams[0].PlayerIDs)
	}

	do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	do(mux, "POST", base+"/pick/", map[string]any{"email": "a@x.com", "player_id": 101})
	do(mux, "POST", base+"/pick/", map[string]any{"email": "b@x.com", "player_id": 202})
	do(mux, "POST", base+"/pick/", map[string]any{"email": "a@x.com", "player_id": 103})

	w = do(mux, "GET", base+"/teams/", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &view)

	if got := view.Teams[0].PlayerIDs; len(got) != 2 || got[0] != 101 || got[1] != 103 {
		t.Errorf("slot 1 roster = %v, want [101 103]", got)
	}
	if got := view.Teams[1].PlayerIDs; len(got) != 1 || got[0] != 202 {
		t.Errorf("slot 2 roster = %v, want [202]", got)
	}
}

func TestResetLeague(t *testing.T) {
	mux, database := newTestMux(t)

	league := createLeague(t, mux, map[string]any{
		"name":               "L",
		"commissioner_email": "a@x.com",
		"invite_emails":      []string{"b@x.com"},
	})
	base := "/leagues/" + league.ID.String()

	do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	do(mux, "POST", base+"/pick/", map[string]any{"email": "a@x.com", "player_id": 101})

	// Only the commissioner may reset.
	w := do(mux, "POST", base+"/reset/", map[string]any{"starter_email": "b@x.com"})
	testutil.AssertStatus(t, w, http.StatusForbidden)
	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	if resp["error"] != "Only commissioner can reset league" {
		t.Errorf("error = %q", resp["error"])
	}

	w = do(mux, "POST", base+"/reset/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshot LeagueSnapshot
	testutil.DecodeJSON(t, w, &snapshot)
	if snapshot.Status != "SETUP" {
		t.Errorf("status = %q, want SETUP", snapshot.Status)
	}
	if snapshot.Draft != nil {
		t.Errorf("expected draft cleared, got %+v", snapshot.Draft)
	}
	// Members survive the reset.
	if len(snapshot.Members) != 2 {
		t.Errorf("expected members preserved, got %d", len(snapshot.Members))
	}

	var pickCount int
	if err := database.QueryRow("SELECT COUNT(*) FROM draft_picks").Scan(&pickCount); err != nil {
		t.Fatalf("count picks: %v", err)
	}
	if pickCount != 0 {
		t.Errorf("expected all picks deleted, got %d", pickCount)
	}

	// Reset is idempotent.
	w = do(mux, "POST", base+"/reset/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusOK)

	// And the league can draft again from scratch.
	w = do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &snapshot)
	if snapshot.Draft == nil || snapshot.Draft.PickNumber != 1 {
		t.Errorf("restarted draft should begin at pick 1: %+v", snapshot.Draft)
	}
}

func TestListLeagues(t *testing.T) {
	mux, _ := newTestMux(t)

	createLeague(t, mux, map[string]any{"name": "One", "commissioner_email": "a@x.com"})
	createLeague(t, mux, map[string]any{"name": "Two", "commissioner_email": "b@x.com"})

	w := do(mux, "GET", "/leagues/", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshots []LeagueSnapshot
	testutil.DecodeJSON(t, w, &snapshots)
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 leagues, got %d", len(snapshots))
	}
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestMux(t)

	w := do(mux, "GET", "/healthz", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
}
