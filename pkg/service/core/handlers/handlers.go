package handlers

import (
	"github.com/exweb/exweb-backend/pkg/service/core"
)

type Handlers struct {
	AuthHandler     *AuthHandler
	CalendarHandler *CalendarHandler
	ContactsHandler *ContactsHandler
	MailHandler     *MailHandler
}

func NewHandlers(s *core.Services) *Handlers {
	return &Handlers{
		AuthHandler:     NewAuthHandler(s.AuthService),
		CalendarHandler: NewCalendarHandler(s.CalendarService),
		ContactsHandler: NewContactsHandler(s.ContactsService),
		MailHandler:     NewMailHandler(s.MailService),
	}
}
