package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/fastbreakhq/fastbreak/go/internal/draft"
	"github.com/fastbreakhq/fastbreak/go/internal/events"
	"github.com/fastbreakhq/fastbreak/go/internal/gateway"
	"github.com/fastbreakhq/fastbreak/go/internal/leagues"
)

type Services struct {
	Leagues   *leagues.App
	Drafts    *draft.App
	Hub       *gateway.Hub
	publisher events.Publisher
	consumer  *gateway.EventConsumer
}

func setupServices(database *sql.DB, config *Config) (*Services, error) {
	clock := clockwork.NewRealClock()

	// Without a NATS URL events are dropped and the live feed stays silent;
	// the REST surface works either way.
	var publisher events.Publisher = events.NopPublisher{}
	hub := gateway.NewHub()
	var consumer *gateway.EventConsumer

	prefix := config.NATS.SubjectPrefix
	if prefix == "" {
		prefix = events.DefaultSubjectPrefix
	}

	if config.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(config.NATS.URL, prefix)
		if err != nil {
			return nil, err
		}
		publisher = natsPublisher

		consumer, err = gateway.NewEventConsumer(hub, config.NATS.URL, prefix)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn().Msg("NATS_URL not set, draft events disabled")
	}

	leagueApp := leagues.NewApp(database, clock, publisher)
	draftApp := draft.NewApp(database, leagueApp, clock, publisher)

	return &Services{
		Leagues:   leagueApp,
		Drafts:    draftApp,
		Hub:       hub,
		publisher: publisher,
		consumer:  consumer,
	}, nil
}

func (s *Services) Close() {
	if s.consumer != nil {
		s.consumer.Close()
	}
	if p, ok := s.publisher.(*events.NATSPublisher); ok {
		p.Close()
	}
}
