package core

import (
	"context"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

var _ service.MailService = &mailService{}

// mailService splits reads between the Graph list API and the EWS detail
// API, which is the only path exposing full bodies and attachments.
type mailService struct {
	mailAPI   service.MailAPI
	detailAPI service.MailDetailAPI
}

func NewMailService(mailAPI service.MailAPI, detailAPI service.MailDetailAPI) *mailService {
	return &mailService{
		mailAPI:   mailAPI,
		detailAPI: detailAPI,
	}
}

func (s *mailService) GetMessages(ctx context.Context, user string, query service.MessageQuery) (*service.MessagesPage, error) {
	const op errs.Op = "mailService.GetMessages"

	page, err := s.mailAPI.GetMessages(ctx, user, query)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return page, nil
}

func (s *mailService) GetMessageDetail(ctx context.Context, user, id string) (*service.MessageDetail, error) {
	const op errs.Op = "mailService.GetMessageDetail"

	detail, err := s.detailAPI.GetMessageDetail(ctx, user, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return detail, nil
}

func (s *mailService) SendMessage(ctx context.Context, user string, input service.SendMessage) error {
	const op errs.Op = "mailService.SendMessage"

	err := s.mailAPI.SendMessage(ctx, user, input)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}
