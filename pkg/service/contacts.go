package service

import (
	"context"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	PhoneTypeBusiness = "business"
	PhoneTypeHome     = "home"
	PhoneTypeMobile   = "mobile"
)

type ContactsAPI interface {
	GetContacts(ctx context.Context, user string, query ContactQuery) (*ContactsPage, error)
	GetContact(ctx context.Context, user, id string) (*Contact, error)
	CreateContact(ctx context.Context, user string, input UpsertContact) (*Contact, error)
	UpdateContact(ctx context.Context, user, id string, input UpsertContact) (*Contact, error)
	DeleteContact(ctx context.Context, user, id string) error
}

type ContactsService interface {
	GetContacts(ctx context.Context, user string, query ContactQuery) (*ContactsPage, error)
	GetContact(ctx context.Context, user, id string) (*Contact, error)
	CreateContact(ctx context.Context, user string, input UpsertContact) (*Contact, error)
	UpdateContact(ctx context.Context, user, id string, input UpsertContact) (*Contact, error)
	DeleteContact(ctx context.Context, user, id string) error
}

type PhoneNumber struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

func (p PhoneNumber) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required, validation.In(PhoneTypeBusiness, PhoneTypeHome, PhoneTypeMobile)),
		validation.Field(&p.Number, validation.Required),
	)
}

type Address struct {
	Type       string `json:"type"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Contact struct {
	ID             string        `json:"id"`
	GivenName      string        `json:"givenName,omitempty"`
	Surname        string        `json:"surname,omitempty"`
	DisplayName    string        `json:"displayName"`
	EmailAddresses []string      `json:"emailAddresses"`
	PhoneNumbers   []PhoneNumber `json:"phoneNumbers"`
	Addresses      []Address     `json:"addresses"`
	CompanyName    string        `json:"companyName,omitempty"`
	JobTitle       string        `json:"jobTitle,omitempty"`
	Department     string        `json:"department,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedTime    time.Time     `json:"createdTime"`
	ModifiedTime   time.Time     `json:"modifiedTime"`
}

type UpsertContact struct {
	GivenName      string        `json:"givenName,omitempty"`
	Surname        string        `json:"surname,omitempty"`
	DisplayName    string        `json:"displayName"`
	EmailAddresses []string      `json:"emailAddresses"`
	PhoneNumbers   []PhoneNumber `json:"phoneNumbers,omitempty"`
	Addresses      []Address     `json:"addresses,omitempty"`
	CompanyName    string        `json:"companyName,omitempty"`
	JobTitle       string        `json:"jobTitle,omitempty"`
	Department     string        `json:"department,omitempty"`
	Notes          string        `json:"notes,omitempty"`
}

func (c UpsertContact) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DisplayName, validation.Required),
		validation.Field(&c.EmailAddresses, validation.Required, validation.Each(is.EmailFormat)),
		validation.Field(&c.PhoneNumbers),
	)
}

type ContactQuery struct {
	FolderID  string
	Search    string
	PageSize  int
	PageToken string
}

type ContactsPage struct {
	Contacts []*Contact `json:"contacts"`
	// NextPageToken is empty when there are no further pages.
	NextPageToken string `json:"nextPageToken,omitempty"`
}
