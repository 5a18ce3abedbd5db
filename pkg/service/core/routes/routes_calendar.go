package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/service/core/handlers"
	"github.com/exweb/exweb-backend/pkg/service/core/transport"
)

type CalendarEndpoints struct {
	GetEvents   http.HandlerFunc
	GetEvent    http.HandlerFunc
	CreateEvent http.HandlerFunc
	UpdateEvent http.HandlerFunc
	DeleteEvent http.HandlerFunc
}

func NewCalendarEndpoints(log zerolog.Logger, h *handlers.CalendarHandler) *CalendarEndpoints {
	return &CalendarEndpoints{
		GetEvents:   transport.For(h.GetEvents).Build(log),
		GetEvent:    transport.For(h.GetEvent).Build(log),
		CreateEvent: transport.For(h.CreateEvent).RequestFromJSON().Build(log),
		UpdateEvent: transport.For(h.UpdateEvent).RequestFromJSON().Build(log),
		DeleteEvent: transport.For(h.DeleteEvent).Build(log),
	}
}

func NewCalendarRoutes(endpoints *CalendarEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/v1/calendar/events", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.GetEvents)
			r.Post("/", endpoints.CreateEvent)
			r.Get("/{id}", endpoints.GetEvent)
			r.Put("/{id}", endpoints.UpdateEvent)
			r.Delete("/{id}", endpoints.DeleteEvent)
		})
	}
}
