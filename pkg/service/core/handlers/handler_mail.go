package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/exweb/exweb-backend/pkg/auth"
	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

type MailHandler struct {
	service service.MailService
}

func NewMailHandler(s service.MailService) *MailHandler {
	return &MailHandler{service: s}
}

func (h *MailHandler) GetMessages(ctx context.Context, r *http.Request, _ any) (*service.MessagesPage, error) {
	const op errs.Op = "MailHandler.GetMessages"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.GetMessages(ctx, user.Username, service.MessageQuery{
		Folder:    r.URL.Query().Get("folder"),
		PageSize:  queryPageSize(r),
		PageToken: r.URL.Query().Get("pageToken"),
	})
}

func (h *MailHandler) GetMessageDetail(ctx context.Context, _ *http.Request, _ any) (*service.MessageDetail, error) {
	const op errs.Op = "MailHandler.GetMessageDetail"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	return h.service.GetMessageDetail(ctx, user.Username, chi.URLParamFromCtx(ctx, "id"))
}

type SendMessageStatus struct {
	Status string `json:"status"`
}

func (h *MailHandler) SendMessage(ctx context.Context, _ *http.Request, in service.SendMessage) (*SendMessageStatus, error) {
	const op errs.Op = "MailHandler.SendMessage"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	err := h.service.SendMessage(ctx, user.Username, in)
	if err != nil {
		return nil, err
	}

	return &SendMessageStatus{Status: "sent"}, nil
}
