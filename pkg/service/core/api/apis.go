package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/config"
	"github.com/exweb/exweb-backend/pkg/service"
	"github.com/exweb/exweb-backend/pkg/service/core/api/ews"
	"github.com/exweb/exweb-backend/pkg/service/core/api/graph"
)

type Clients struct {
	CalendarAPI   service.CalendarAPI
	ContactsAPI   service.ContactsAPI
	MailAPI       service.MailAPI
	MailDetailAPI service.MailDetailAPI
}

func NewClients(
	tokens graph.TokenProvider,
	opErrs *prometheus.CounterVec,
	cfg config.Config,
	log zerolog.Logger,
) *Clients {
	graphClient := graph.NewClient(
		cfg.Exchange.GraphURL,
		tokens,
		opErrs,
		log.With().Str("component", "graph").Logger(),
	)

	return &Clients{
		CalendarAPI: graph.NewCalendarAPI(graphClient),
		ContactsAPI: graph.NewContactsAPI(graphClient),
		MailAPI:     graph.NewMailAPI(graphClient),
		MailDetailAPI: ews.NewMailDetailAPI(
			cfg.Exchange.Server,
			tokens,
			log.With().Str("component", "ews").Logger(),
		),
	}
}
