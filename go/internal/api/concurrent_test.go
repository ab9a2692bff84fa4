package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fastbreakhq/fastbreak/go/internal/testutil"
)

// TestConcurrentPicks hammers one draft with simultaneous picks from both
// members. The row lock on the draft serializes them: whatever subset
// succeeds must leave a gapless pick sequence with no duplicate players.
func TestConcurrentPicks(t *testing.T) {
	mux, database := newTestMux(t)

	league := createLeague(t, mux, map[string]any{
		"name":               "Race",
		"commissioner_email": "a@x.com",
		"invite_emails":      []string{"b@x.com"},
	})
	base := "/leagues/" + league.ID.String()

	w := do(mux, "POST", base+"/start-draft/", map[string]any{"starter_email": "a@x.com"})
	testutil.AssertStatus(t, w, http.StatusOK)

	numAttempts := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			email := "a@x.com"
			if idx%2 == 1 {
				email = "b@x.com"
			}
			w := do(mux, "POST", base+"/pick/", map[string]any{
				"email":     email,
				"player_id": 1000 + idx,
			})
			if w.Code == http.StatusOK {
				successCount.Add(1)
			} else if w.Code != http.StatusConflict {
				t.Errorf("attempt %d: unexpected status %d: %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	succeeded := int(successCount.Load())
	if succeeded < 1 {
		t.Fatal("expected at least one successful pick")
	}

	var pickCount int
	if err := database.QueryRow("SELECT COUNT(*) FROM draft_picks").Scan(&pickCount); err != nil {
		t.Fatalf("count picks: %v", err)
	}
	if pickCount != succeeded {
		t.Errorf("%d successful responses but %d rows", succeeded, pickCount)
	}

	// Pick numbers must be gapless 1..K with no duplicates.
	var distinctPicks, maxPick int
	err := database.QueryRow(
		"SELECT COUNT(DISTINCT pick_number), MAX(pick_number) FROM draft_picks",
	).Scan(&distinctPicks, &maxPick)
	if err != nil {
		t.Fatalf("query pick numbers: %v", err)
	}
	if distinctPicks != pickCount {
		t.Errorf("duplicate pick numbers: %d distinct of %d rows", distinctPicks, pickCount)
	}
	if maxPick != pickCount {
		t.Errorf("gap in pick sequence: max=%d count=%d", maxPick, pickCount)
	}

	// No player drafted twice.
	var distinctPlayers int
	if err := database.QueryRow("SELECT COUNT(DISTINCT player_id) FROM draft_picks").Scan(&distinctPlayers); err != nil {
		t.Fatalf("query players: %v", err)
	}
	if distinctPlayers != pickCount {
		t.Errorf("duplicate players: %d distinct of %d rows", distinctPlayers, pickCount)
	}

	// The draft cursor points one past the last committed pick.
	var nextPickNumber int
	if err := database.QueryRow("SELECT pick_number FROM drafts").Scan(&nextPickNumber); err != nil {
		t.Fatalf("query draft: %v", err)
	}
	if nextPickNumber != pickCount+1 {
		t.Errorf("draft pick_number=%d, want %d", nextPickNumber, pickCount+1)
	}

	// Successive picks must alternate slots in a two-member league.
	rows, err := database.Query("SELECT slot FROM draft_picks ORDER BY pick_number")
	if err != nil {
		t.Fatalf("query slots: %v", err)
	}
	defer rows.Close()

	wantSlot := 1
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			t.Fatalf("scan slot: %v", err)
		}
		if slot != wantSlot {
			t.Errorf("slot order violated: got %d, want %d", slot, wantSlot)
		}
		wantSlot = 3 - wantSlot
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate slots: %v", err)
	}
}
