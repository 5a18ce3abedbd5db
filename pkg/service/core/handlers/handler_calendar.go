package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/exweb/exweb-backend/pkg/auth"
	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
	"github.com/exweb/exweb-backend/pkg/service/core/transport"
)

type CalendarHandler struct {
	service service.CalendarService
}

func NewCalendarHandler(s service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: s}
}

func (h *CalendarHandler) GetEvents(ctx context.Context, r *http.Request, _ any) ([]*service.Event, error) {
	const op errs.Op = "CalendarHandler.GetEvents"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	startDate, err := parseQueryTime(r, "startDate")
	if err != nil {
		return nil, errs.E(op, err)
	}

	endDate, err := parseQueryTime(r, "endDate")
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.service.GetEvents(ctx, user.Username, service.EventQuery{
		StartDate:  startDate,
		EndDate:    endDate,
		CalendarID: r.URL.Query().Get("calendarId"),
	})
}

func (h *CalendarHandler) GetEvent(ctx context.Context, _ *http.Request, _ any) (*service.Event, error) {
	const op errs.Op = "CalendarHandler.GetEvent"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.GetEvent(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"))
}

func (h *CalendarHandler) CreateEvent(ctx context.Context, _ *http.Request, in service.UpsertEvent) (*service.Event, error) {
	const op errs.Op = "CalendarHandler.CreateEvent"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.CreateEvent(ctx, user.Username, in)
}

func (h *CalendarHandler) UpdateEvent(ctx context.Context, _ *http.Request, in service.UpsertEvent) (*service.Event, error) {
	const op errs.Op = "CalendarHandler.UpdateEvent"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.UpdateEvent(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"), in)
}

func (h *CalendarHandler) DeleteEvent(ctx context.Context, _ *http.Request, _ any) (*transport.Empty, error) {
	const op errs.Op = "CalendarHandler.DeleteEvent"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	err := h.service.DeleteEvent(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return &transport.Empty{}, nil
}

// parseQueryTime accepts RFC 3339 timestamps and bare dates.
func parseQueryTime(r *http.Request, key string) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return time.Time{}, errs.E(errs.InvalidRequest, errs.Parameter(key), errs.Str("missing required query parameter"))
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errs.E(errs.InvalidRequest, errs.Parameter(key), errs.Str("invalid timestamp"))
}
