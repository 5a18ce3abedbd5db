package core

import (
	"context"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

var _ service.ContactsService = &contactsService{}

type contactsService struct {
	contactsAPI service.ContactsAPI
}

func NewContactsService(api service.ContactsAPI) *contactsService {
	return &contactsService{
		contactsAPI: api,
	}
}

func (s *contactsService) GetContacts(ctx context.Context, user string, query service.ContactQuery) (*service.ContactsPage, error) {
	const op errs.Op = "contactsService.GetContacts"

	page, err := s.contactsAPI.GetContacts(ctx, user, query)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return page, nil
}

func (s *contactsService) GetContact(ctx context.Context, user, id string) (*service.Contact, error) {
	const op errs.Op = "contactsService.GetContact"

	contact, err := s.contactsAPI.GetContact(ctx, user, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return contact, nil
}

func (s *contactsService) CreateContact(ctx context.Context, user string, input service.UpsertContact) (*service.Contact, error) {
	const op errs.Op = "contactsService.CreateContact"

	contact, err := s.contactsAPI.CreateContact(ctx, user, input)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return contact, nil
}

func (s *contactsService) UpdateContact(ctx context.Context, user, id string, input service.UpsertContact) (*service.Contact, error) {
	const op errs.Op = "contactsService.UpdateContact"

	contact, err := s.contactsAPI.UpdateContact(ctx, user, id, input)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return contact, nil
}

func (s *contactsService) DeleteContact(ctx context.Context, user, id string) error {
	const op errs.Op = "contactsService.DeleteContact"

	err := s.contactsAPI.DeleteContact(ctx, user, id)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}
