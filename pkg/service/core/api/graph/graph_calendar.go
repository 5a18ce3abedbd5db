package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

const eventSelectFields = "id,subject,organizer,start,end,location,body,attendees,isAllDay,createdDateTime,lastModifiedDateTime"

var _ service.CalendarAPI = &calendarAPI{}

type calendarAPI struct {
	client *Client
}

func NewCalendarAPI(client *Client) *calendarAPI {
	return &calendarAPI{client: client}
}

type eventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type location struct {
	DisplayName string `json:"displayName"`
}

type attendeeStatus struct {
	Response string `json:"response"`
	Time     string `json:"time,omitempty"`
}

type wireAttendee struct {
	EmailAddress emailAddress    `json:"emailAddress"`
	Type         string          `json:"type,omitempty"`
	Status       *attendeeStatus `json:"status,omitempty"`
}

// eventDoc is the inbound event shape. Pointers mark the fields whose
// absence is a mapping failure rather than a zero value.
type eventDoc struct {
	ID                   string         `json:"id"`
	Subject              *string        `json:"subject"`
	Start                *eventDateTime `json:"start"`
	End                  *eventDateTime `json:"end"`
	Location             *location      `json:"location"`
	Body                 *itemBody      `json:"body"`
	IsAllDay             bool           `json:"isAllDay"`
	Organizer            *recipient     `json:"organizer"`
	Attendees            []wireAttendee `json:"attendees"`
	CreatedDateTime      string         `json:"createdDateTime"`
	LastModifiedDateTime string         `json:"lastModifiedDateTime"`
}

// eventUpsertDoc is the outbound event shape. Optional wire objects are
// omitted entirely when the domain source is empty, since Graph rejects
// null placeholders.
type eventUpsertDoc struct {
	Subject   string         `json:"subject"`
	Start     eventDateTime  `json:"start"`
	End       eventDateTime  `json:"end"`
	IsAllDay  bool           `json:"isAllDay"`
	Location  *location      `json:"location,omitempty"`
	Body      *itemBody      `json:"body,omitempty"`
	Attendees []wireAttendee `json:"attendees,omitempty"`
}

type eventList struct {
	Value []eventDoc `json:"value"`
}

func (a *calendarAPI) GetEvents(ctx context.Context, user string, query service.EventQuery) ([]*service.Event, error) {
	const op errs.Op = "calendarAPI.GetEvents"

	calendarPath := ""
	if query.CalendarID != "" {
		calendarPath = "/calendars/" + url.PathEscape(query.CalendarID)
	}

	params := url.Values{}
	params.Set("$select", eventSelectFields)
	params.Set("$filter", fmt.Sprintf("start/dateTime ge '%sZ' and end/dateTime le '%sZ'",
		formatGraphTime(query.StartDate), formatGraphTime(query.EndDate)))

	var list eventList
	err := a.client.request(ctx, op, user, http.MethodGet,
		"/users/"+url.PathEscape(user)+calendarPath+"/events",
		params, utcPreferHeader(), nil, &list)
	if err != nil {
		return nil, errs.E(op, err)
	}

	events := make([]*service.Event, len(list.Value))
	for i, doc := range list.Value {
		event, err := eventFromDoc(doc)
		if err != nil {
			return nil, errs.E(op, err)
		}
		events[i] = event
	}

	return events, nil
}

func (a *calendarAPI) GetEvent(ctx context.Context, user, id string) (*service.Event, error) {
	const op errs.Op = "calendarAPI.GetEvent"

	var doc eventDoc
	err := a.client.request(ctx, op, user, http.MethodGet,
		"/users/"+url.PathEscape(user)+"/events/"+url.PathEscape(id),
		url.Values{"$select": []string{eventSelectFields}}, utcPreferHeader(), nil, &doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	event, err := eventFromDoc(doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return event, nil
}

func (a *calendarAPI) CreateEvent(ctx context.Context, user string, input service.UpsertEvent) (*service.Event, error) {
	const op errs.Op = "calendarAPI.CreateEvent"

	var doc eventDoc
	err := a.client.request(ctx, op, user, http.MethodPost,
		"/users/"+url.PathEscape(user)+"/events",
		nil, utcPreferHeader(), eventToDoc(input), &doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	event, err := eventFromDoc(doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return event, nil
}

func (a *calendarAPI) UpdateEvent(ctx context.Context, user, id string, input service.UpsertEvent) (*service.Event, error) {
	const op errs.Op = "calendarAPI.UpdateEvent"

	var doc eventDoc
	err := a.client.request(ctx, op, user, http.MethodPatch,
		"/users/"+url.PathEscape(user)+"/events/"+url.PathEscape(id),
		nil, utcPreferHeader(), eventToDoc(input), &doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	event, err := eventFromDoc(doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return event, nil
}

func (a *calendarAPI) DeleteEvent(ctx context.Context, user, id string) error {
	const op errs.Op = "calendarAPI.DeleteEvent"

	err := a.client.request(ctx, op, user, http.MethodDelete,
		"/users/"+url.PathEscape(user)+"/events/"+url.PathEscape(id),
		nil, nil, nil, nil)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}

func utcPreferHeader() http.Header {
	return http.Header{"Prefer": []string{`outlook.timezone="UTC"`}}
}

func eventToDoc(input service.UpsertEvent) eventUpsertDoc {
	doc := eventUpsertDoc{
		Subject: input.Subject,
		Start: eventDateTime{
			DateTime: formatGraphTime(input.StartTime),
			TimeZone: "UTC",
		},
		End: eventDateTime{
			DateTime: formatGraphTime(input.EndTime),
			TimeZone: "UTC",
		},
		IsAllDay: input.IsAllDay,
	}

	if input.Location != "" {
		doc.Location = &location{DisplayName: input.Location}
	}

	if input.Body != "" {
		doc.Body = &itemBody{
			ContentType: "HTML",
			Content:     input.Body,
		}
	}

	for _, a := range input.Attendees {
		doc.Attendees = append(doc.Attendees, wireAttendee{
			EmailAddress: emailAddress{
				Address: a.Email,
				Name:    a.Name,
			},
			Type: "required",
		})
	}

	return doc
}

func eventFromDoc(doc eventDoc) (*service.Event, error) {
	const op errs.Op = "graph.eventFromDoc"

	switch {
	case doc.ID == "":
		return nil, errs.E(op, errs.Validation, errs.Parameter("id"), errs.Str("missing required field"))
	case doc.Subject == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("subject"), errs.Str("missing required field"))
	case doc.Start == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("start"), errs.Str("missing required field"))
	case doc.End == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("end"), errs.Str("missing required field"))
	case doc.Organizer == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("organizer"), errs.Str("missing required field"))
	}

	start, err := parseGraphTime(op, "start.dateTime", doc.Start.DateTime)
	if err != nil {
		return nil, err
	}

	end, err := parseGraphTime(op, "end.dateTime", doc.End.DateTime)
	if err != nil {
		return nil, err
	}

	created, err := parseGraphTime(op, "createdDateTime", doc.CreatedDateTime)
	if err != nil {
		return nil, err
	}

	modified, err := parseGraphTime(op, "lastModifiedDateTime", doc.LastModifiedDateTime)
	if err != nil {
		return nil, err
	}

	attendees := make([]service.Attendee, 0, len(doc.Attendees))
	for _, wa := range doc.Attendees {
		attendee := service.Attendee{
			Email: wa.EmailAddress.Address,
			Name:  wa.EmailAddress.Name,
		}
		// No status sub-object means the attendee has not responded.
		if wa.Status != nil {
			attendee.ResponseStatus = wa.Status.Response
		}
		attendees = append(attendees, attendee)
	}

	event := &service.Event{
		ID:           doc.ID,
		Subject:      *doc.Subject,
		StartTime:    start,
		EndTime:      end,
		IsAllDay:     doc.IsAllDay,
		Attendees:    attendees,
		Organizer:    doc.Organizer.EmailAddress.Address,
		CreatedTime:  created,
		ModifiedTime: modified,
	}

	if doc.Location != nil {
		event.Location = doc.Location.DisplayName
	}

	if doc.Body != nil {
		event.Body = doc.Body.Content
	}

	return event, nil
}
