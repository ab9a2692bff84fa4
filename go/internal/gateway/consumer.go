package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// EventConsumer subscribes to the draft event subjects and forwards each
// message to the hub. Subjects look like "<prefix>.<league_id>.<type>".
type EventConsumer struct {
	hub    *Hub
	nc     *nats.Conn
	sub    *nats.Subscription
	prefix string
}

// NewEventConsumer connects to NATS and starts forwarding draft events.
func NewEventConsumer(hub *Hub, url, prefix string) (*EventConsumer, error) {
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

	ec := &EventConsumer{hub: hub, nc: nc, prefix: prefix}
	sub, err := nc.Subscribe(prefix+".>", ec.handleMessage)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe to %s.>: %w", prefix, err)
	}
	ec.sub = sub

	log.Info().Str("subject", prefix+".>").Msg("gateway consuming draft events")
	return ec, nil
}

func (ec *EventConsumer) handleMessage(msg *nats.Msg) {
	leagueID, ok := ec.leagueFromSubject(msg.Subject)
	if !ok {
		log.Warn().Str("subject", msg.Subject).Msg("unparseable event subject")
		return
	}
	ec.hub.Broadcast(leagueID, msg.Data)
}

// leagueFromSubject extracts the league id segment following the prefix.
func (ec *EventConsumer) leagueFromSubject(subject string) (uuid.UUID, bool) {
	rest, found := strings.CutPrefix(subject, ec.prefix+".")
	if !found {
		return uuid.Nil, false
	}
	idPart, _, found := strings.Cut(rest, ".")
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Close unsubscribes and drains the connection.
func (ec *EventConsumer) Close() {
	if ec.sub != nil {
		_ = ec.sub.Unsubscribe()
	}
	_ = ec.nc.Drain()
}
