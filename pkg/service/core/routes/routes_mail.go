package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/service/core/handlers"
	"github.com/exweb/exweb-backend/pkg/service/core/transport"
)

type MailEndpoints struct {
	GetMessages      http.HandlerFunc
	GetMessageDetail http.HandlerFunc
	SendMessage      http.HandlerFunc
}

func NewMailEndpoints(log zerolog.Logger, h *handlers.MailHandler) *MailEndpoints {
	return &MailEndpoints{
		GetMessages:      transport.For(h.GetMessages).Build(log),
		GetMessageDetail: transport.For(h.GetMessageDetail).Build(log),
		SendMessage:      transport.For(h.SendMessage).RequestFromJSON().Build(log),
	}
}

func NewMailRoutes(endpoints *MailEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/v1/mail", func(r chi.Router) {
			r.Use(auth)
			r.Get("/messages", endpoints.GetMessages)
			r.Get("/messages/{id}", endpoints.GetMessageDetail)
			r.Post("/messages/send", endpoints.SendMessage)
		})
	}
}
