package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSubjectFor(t *testing.T) {
	leagueID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	got := SubjectFor("draft.events", leagueID, TypePickMade)
	want := "draft.events.6ba7b810-9dad-11d1-80b4-00c04fd430c8.pick_made"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewEventWrapsPayload(t *testing.T) {
	leagueID := uuid.New()
	at := time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC)

	event, err := NewEvent(TypePickMade, leagueID, at, PickMadePayload{
		LeagueID:   leagueID.String(),
		PickNumber: 3,
		Round:      2,
		Slot:       1,
		Email:      "a@x.com",
		PlayerID:   42,
		MadeAt:     at,
	})
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}

	if event.EventType != TypePickMade {
		t.Errorf("event type = %q", event.EventType)
	}
	if event.LeagueID != leagueID {
		t.Errorf("league id = %v", event.LeagueID)
	}
	if event.ID == uuid.Nil {
		t.Error("event id not assigned")
	}

	var payload PickMadePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.PickNumber != 3 || payload.PlayerID != 42 {
		t.Errorf("payload round-tripped wrong: %+v", payload)
	}
}
