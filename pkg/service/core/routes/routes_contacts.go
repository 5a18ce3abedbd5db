package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/service/core/handlers"
	"github.com/exweb/exweb-backend/pkg/service/core/transport"
)

type ContactsEndpoints struct {
	GetContacts   http.HandlerFunc
	GetContact    http.HandlerFunc
	CreateContact http.HandlerFunc
	UpdateContact http.HandlerFunc
	DeleteContact http.HandlerFunc
}

func NewContactsEndpoints(log zerolog.Logger, h *handlers.ContactsHandler) *ContactsEndpoints {
	return &ContactsEndpoints{
		GetContacts:   transport.For(h.GetContacts).Build(log),
		GetContact:    transport.For(h.GetContact).Build(log),
		CreateContact: transport.For(h.CreateContact).RequestFromJSON().Build(log),
		UpdateContact: transport.For(h.UpdateContact).RequestFromJSON().Build(log),
		DeleteContact: transport.For(h.DeleteContact).Build(log),
	}
}

func NewContactsRoutes(endpoints *ContactsEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/v1/contacts", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.GetContacts)
			r.Post("/", endpoints.CreateContact)
			r.Get("/{id}", endpoints.GetContact)
			r.Put("/{id}", endpoints.UpdateContact)
			r.Delete("/{id}", endpoints.DeleteContact)
		})
	}
}
