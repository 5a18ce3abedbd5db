package core

import (
	"context"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

var _ service.CalendarService = &calendarService{}

type calendarService struct {
	calendarAPI service.CalendarAPI
}

func NewCalendarService(api service.CalendarAPI) *calendarService {
	return &calendarService{
		calendarAPI: api,
	}
}

func (s *calendarService) GetEvents(ctx context.Context, user string, query service.EventQuery) ([]*service.Event, error) {
	const op errs.Op = "calendarService.GetEvents"

	events, err := s.calendarAPI.GetEvents(ctx, user, query)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return events, nil
}

func (s *calendarService) GetEvent(ctx context.Context, user, id string) (*service.Event, error) {
	const op errs.Op = "calendarService.GetEvent"

	event, err := s.calendarAPI.GetEvent(ctx, user, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return event, nil
}

func (s *calendarService) CreateEvent(ctx context.Context, user string, input service.UpsertEvent) (*service.Event, error) {
	const op errs.Op = "calendarService.CreateEvent"

	event, err := s.calendarAPI.CreateEvent(ctx, user, input)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return event, nil
}

func (s *calendarService) UpdateEvent(ctx context.Context, user, id string, input service.UpsertEvent) (*service.Event, error) {
	const op errs.Op = "calendarService.UpdateEvent"

	event, err := s.calendarAPI.UpdateEvent(ctx, user, id, input)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return event, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, user, id string) error {
	const op errs.Op = "calendarService.DeleteEvent"

	err := s.calendarAPI.DeleteEvent(ctx, user, id)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}
