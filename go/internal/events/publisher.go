package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Event types published by the draft engine.
const (
	TypeDraftStarted = "draft_started"
	TypePickMade     = "pick_made"
	TypeLeagueReset  = "league_reset"
)

// DefaultSubjectPrefix is the NATS subject prefix for draft events.
// Full subjects look like "draft.events.<league_id>.<event_type>".
const DefaultSubjectPrefix = "draft.events"

// Event is one draft lifecycle event. Payload holds the marshaled
// type-specific payload from payloads.go.
type Event struct {
	ID        uuid.UUID       `json:"event_id"`
	EventType string          `json:"event_type"`
	LeagueID  uuid.UUID       `json:"league_id"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Publisher publishes draft events. Publishing is best-effort: the draft
// transaction has already committed by the time Publish is called.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NATSPublisher publishes events to NATS.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher connects to NATS and returns a publisher.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := SubjectFor(p.prefix, event.LeagueID, event.EventType)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the underlying connection.
func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}

// SubjectFor builds the subject for one league's event stream.
func SubjectFor(prefix string, leagueID uuid.UUID, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, leagueID, eventType)
}

// NopPublisher drops all events. Used when NATS is not configured and in
// tests.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

// NewEvent wraps a payload struct into an Event envelope.
func NewEvent(eventType string, leagueID uuid.UUID, at time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		EventType: eventType,
		LeagueID:  leagueID,
		CreatedAt: at,
		Payload:   data,
	}, nil
}
