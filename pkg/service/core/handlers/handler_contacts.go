package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/exweb/exweb-backend/pkg/auth"
	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
	"github.com/exweb/exweb-backend/pkg/service/core/transport"
)

type ContactsHandler struct {
	service service.ContactsService
}

func NewContactsHandler(s service.ContactsService) *ContactsHandler {
	return &ContactsHandler{service: s}
}

func (h *ContactsHandler) GetContacts(ctx context.Context, r *http.Request, _ any) (*service.ContactsPage, error) {
	const op errs.Op = "ContactsHandler.GetContacts"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.GetContacts(ctx, user.Username, service.ContactQuery{
		FolderID:  r.URL.Query().Get("folderId"),
		Search:    r.URL.Query().Get("search"),
		PageSize:  queryPageSize(r),
		PageToken: r.URL.Query().Get("pageToken"),
	})
}

func (h *ContactsHandler) GetContact(ctx context.Context, _ *http.Request, _ any) (*service.Contact, error) {
	const op errs.Op = "ContactsHandler.GetContact"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.GetContact(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"))
}

func (h *ContactsHandler) CreateContact(ctx context.Context, _ *http.Request, in service.UpsertContact) (*service.Contact, error) {
	const op errs.Op = "ContactsHandler.CreateContact"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.CreateContact(ctx, user.Username, in)
}

func (h *ContactsHandler) UpdateContact(ctx context.Context, _ *http.Request, in service.UpsertContact) (*service.Contact, error) {
	const op errs.Op = "ContactsHandler.UpdateContact"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.UpdateContact(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"), in)
}

func (h *ContactsHandler) DeleteContact(ctx context.Context, _ *http.Request, _ any) (*transport.Empty, error) {
	const op errs.Op = "ContactsHandler.DeleteContact"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	err := h.service.DeleteContact(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return &transport.Empty{}, nil
}

func queryPageSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil {
		return 0
	}

	return size
}
