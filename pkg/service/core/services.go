package core

import "github.com/exweb/exweb-backend/pkg/service"

type Services struct {
	AuthService     service.AuthService
	CalendarService service.CalendarService
	ContactsService service.ContactsService
	MailService     service.MailService
}

func NewServices(
	authService service.AuthService,
	calendarService service.CalendarService,
	contactsService service.ContactsService,
	mailService service.MailService,
) *Services {
	return &Services{
		AuthService:     authService,
		CalendarService: calendarService,
		ContactsService: contactsService,
		MailService:     mailService,
	}
}
