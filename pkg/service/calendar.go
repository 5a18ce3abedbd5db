package service

import (
	"context"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CalendarAPI interface {
	GetEvents(ctx context.Context, user string, query EventQuery) ([]*Event, error)
	GetEvent(ctx context.Context, user, id string) (*Event, error)
	CreateEvent(ctx context.Context, user string, input UpsertEvent) (*Event, error)
	UpdateEvent(ctx context.Context, user, id string, input UpsertEvent) (*Event, error)
	DeleteEvent(ctx context.Context, user, id string) error
}

type CalendarService interface {
	GetEvents(ctx context.Context, user string, query EventQuery) ([]*Event, error)
	GetEvent(ctx context.Context, user, id string) (*Event, error)
	CreateEvent(ctx context.Context, user string, input UpsertEvent) (*Event, error)
	UpdateEvent(ctx context.Context, user, id string, input UpsertEvent) (*Event, error)
	DeleteEvent(ctx context.Context, user, id string) error
}

type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	// ResponseStatus is empty until the attendee has responded.
	ResponseStatus string `json:"responseStatus,omitempty"`
}

func (a Attendee) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Email, validation.Required, is.EmailFormat),
	)
}

type Event struct {
	ID           string     `json:"id"`
	Subject      string     `json:"subject"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      time.Time  `json:"endTime"`
	Location     string     `json:"location,omitempty"`
	Body         string     `json:"body,omitempty"`
	IsAllDay     bool       `json:"isAllDay"`
	Attendees    []Attendee `json:"attendees"`
	Organizer    string     `json:"organizer"`
	CreatedTime  time.Time  `json:"createdTime"`
	ModifiedTime time.Time  `json:"modifiedTime"`
}

// UpsertEvent is the caller-supplied part of an event, shared by create
// and update since the upstream accepts the same document for both.
type UpsertEvent struct {
	Subject   string     `json:"subject"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	Location  string     `json:"location,omitempty"`
	Body      string     `json:"body,omitempty"`
	IsAllDay  bool       `json:"isAllDay"`
	Attendees []Attendee `json:"attendees,omitempty"`
}

func (e UpsertEvent) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Subject, validation.Required),
		validation.Field(&e.StartTime, validation.Required),
		validation.Field(&e.EndTime, validation.Required),
		validation.Field(&e.Attendees),
	)
	if err != nil {
		return err
	}

	if !e.IsAllDay && e.EndTime.Before(e.StartTime) {
		return validation.Errors{
			"endTime": validation.NewError("validation_end_before_start", "must not be before startTime"),
		}
	}

	return nil
}

type EventQuery struct {
	StartDate  time.Time
	EndDate    time.Time
	CalendarID string
}
