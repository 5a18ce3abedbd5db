package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

const contactSelectFields = "id,givenName,surname,displayName,emailAddresses," +
	"businessPhones,mobilePhone,homePhones,addresses,companyName,jobTitle," +
	"department,personalNotes,createdDateTime,lastModifiedDateTime"

var _ service.ContactsAPI = &contactsAPI{}

type contactsAPI struct {
	client *Client
}

func NewContactsAPI(client *Client) *contactsAPI {
	return &contactsAPI{client: client}
}

type physicalAddress struct {
	Street          string `json:"street,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	CountryOrRegion string `json:"countryOrRegion,omitempty"`
}

type contactDoc struct {
	ID                   string            `json:"id"`
	GivenName            string            `json:"givenName"`
	Surname              string            `json:"surname"`
	DisplayName          *string           `json:"displayName"`
	EmailAddresses       []emailAddress    `json:"emailAddresses"`
	BusinessPhones       []string          `json:"businessPhones"`
	HomePhones           []string          `json:"homePhones"`
	MobilePhone          string            `json:"mobilePhone"`
	Addresses            []physicalAddress `json:"addresses"`
	CompanyName          string            `json:"companyName"`
	JobTitle             string            `json:"jobTitle"`
	Department           string            `json:"department"`
	PersonalNotes        string            `json:"personalNotes"`
	CreatedDateTime      string            `json:"createdDateTime"`
	LastModifiedDateTime string            `json:"lastModifiedDateTime"`
}

// contactUpsertDoc always serializes every property, so a PATCH with an
// empty value clears the field upstream instead of leaving it untouched.
type contactUpsertDoc struct {
	GivenName      string            `json:"givenName"`
	Surname        string            `json:"surname"`
	DisplayName    string            `json:"displayName"`
	EmailAddresses []emailAddress    `json:"emailAddresses"`
	BusinessPhones []string          `json:"businessPhones"`
	HomePhones     []string          `json:"homePhones"`
	MobilePhone    string            `json:"mobilePhone"`
	Addresses      []physicalAddress `json:"addresses"`
	CompanyName    string            `json:"companyName"`
	JobTitle       string            `json:"jobTitle"`
	Department     string            `json:"department"`
	PersonalNotes  string            `json:"personalNotes"`
}

type contactList struct {
	Value    []contactDoc `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

func (a *contactsAPI) GetContacts(ctx context.Context, user string, query service.ContactQuery) (*service.ContactsPage, error) {
	const op errs.Op = "contactsAPI.GetContacts"

	folderPath := ""
	if query.FolderID != "" {
		folderPath = "/contactFolders/" + url.PathEscape(query.FolderID)
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	params := url.Values{}
	params.Set("$top", strconv.Itoa(pageSize))
	params.Set("$select", contactSelectFields)
	if query.Search != "" {
		params.Set("$search", fmt.Sprintf("%q", query.Search))
	}
	if query.PageToken != "" {
		params.Set("$skiptoken", query.PageToken)
	}

	var list contactList
	err := a.client.request(ctx, op, user, http.MethodGet,
		"/users/"+url.PathEscape(user)+folderPath+"/contacts",
		params, nil, nil, &list)
	if err != nil {
		return nil, errs.E(op, err)
	}

	contacts := make([]*service.Contact, len(list.Value))
	for i, doc := range list.Value {
		contact, err := contactFromDoc(doc)
		if err != nil {
			return nil, errs.E(op, err)
		}
		contacts[i] = contact
	}

	return &service.ContactsPage{
		Contacts:      contacts,
		NextPageToken: pageToken(list.NextLink),
	}, nil
}

func (a *contactsAPI) GetContact(ctx context.Context, user, id string) (*service.Contact, error) {
	const op errs.Op = "contactsAPI.GetContact"

	var doc contactDoc
	err := a.client.request(ctx, op, user, http.MethodGet,
		"/users/"+url.PathEscape(user)+"/contacts/"+url.PathEscape(id),
		url.Values{"$select": []string{contactSelectFields}}, nil, nil, &doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	contact, err := contactFromDoc(doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return contact, nil
}

func (a *contactsAPI) CreateContact(ctx context.Context, user string, input service.UpsertContact) (*service.Contact, error) {
	const op errs.Op = "contactsAPI.CreateContact"

	var doc contactDoc
	err := a.client.request(ctx, op, user, http.MethodPost,
		"/users/"+url.PathEscape(user)+"/contacts",
		nil, nil, contactToDoc(input), &doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	contact, err := contactFromDoc(doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return contact, nil
}

func (a *contactsAPI) UpdateContact(ctx context.Context, user, id string, input service.UpsertContact) (*service.Contact, error) {
	const op errs.Op = "contactsAPI.UpdateContact"

	var doc contactDoc
	err := a.client.request(ctx, op, user, http.MethodPatch,
		"/users/"+url.PathEscape(user)+"/contacts/"+url.PathEscape(id),
		nil, nil, contactToDoc(input), &doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	contact, err := contactFromDoc(doc)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return contact, nil
}

func (a *contactsAPI) DeleteContact(ctx context.Context, user, id string) error {
	const op errs.Op = "contactsAPI.DeleteContact"

	err := a.client.request(ctx, op, user, http.MethodDelete,
		"/users/"+url.PathEscape(user)+"/contacts/"+url.PathEscape(id),
		nil, nil, nil, nil)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}

func contactToDoc(input service.UpsertContact) contactUpsertDoc {
	doc := contactUpsertDoc{
		GivenName:     input.GivenName,
		Surname:       input.Surname,
		DisplayName:   input.DisplayName,
		CompanyName:   input.CompanyName,
		JobTitle:      input.JobTitle,
		Department:    input.Department,
		PersonalNotes: input.Notes,
	}

	for _, email := range input.EmailAddresses {
		doc.EmailAddresses = append(doc.EmailAddresses, emailAddress{
			Address: email,
			Name:    input.DisplayName,
		})
	}

	// Partition phone numbers into the three upstream buckets. Graph holds
	// a single mobile number, so the last mobile entry wins.
	for _, phone := range input.PhoneNumbers {
		switch phone.Type {
		case service.PhoneTypeBusiness:
			doc.BusinessPhones = append(doc.BusinessPhones, phone.Number)
		case service.PhoneTypeHome:
			doc.HomePhones = append(doc.HomePhones, phone.Number)
		case service.PhoneTypeMobile:
			doc.MobilePhone = phone.Number
		}
	}

	for _, addr := range input.Addresses {
		doc.Addresses = append(doc.Addresses, physicalAddress{
			Street:          addr.Street,
			City:            addr.City,
			State:           addr.State,
			PostalCode:      addr.PostalCode,
			CountryOrRegion: addr.Country,
		})
	}

	return doc
}

func contactFromDoc(doc contactDoc) (*service.Contact, error) {
	const op errs.Op = "graph.contactFromDoc"

	switch {
	case doc.ID == "":
		return nil, errs.E(op, errs.Validation, errs.Parameter("id"), errs.Str("missing required field"))
	case doc.DisplayName == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("displayName"), errs.Str("missing required field"))
	}

	created, err := parseGraphTime(op, "createdDateTime", doc.CreatedDateTime)
	if err != nil {
		return nil, err
	}

	modified, err := parseGraphTime(op, "lastModifiedDateTime", doc.LastModifiedDateTime)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(doc.EmailAddresses))
	for _, email := range doc.EmailAddresses {
		emails = append(emails, email.Address)
	}

	phones := make([]service.PhoneNumber, 0, len(doc.BusinessPhones)+len(doc.HomePhones)+1)
	for _, number := range doc.BusinessPhones {
		phones = append(phones, service.PhoneNumber{Type: service.PhoneTypeBusiness, Number: number})
	}
	for _, number := range doc.HomePhones {
		phones = append(phones, service.PhoneNumber{Type: service.PhoneTypeHome, Number: number})
	}
	if doc.MobilePhone != "" {
		phones = append(phones, service.PhoneNumber{Type: service.PhoneTypeMobile, Number: doc.MobilePhone})
	}

	addresses := make([]service.Address, 0, len(doc.Addresses))
	for _, addr := range doc.Addresses {
		addresses = append(addresses, service.Address{
			// Graph does not differentiate address types.
			Type:       "business",
			Street:     addr.Street,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.CountryOrRegion,
		})
	}

	return &service.Contact{
		ID:             doc.ID,
		GivenName:      doc.GivenName,
		Surname:        doc.Surname,
		DisplayName:    *doc.DisplayName,
		EmailAddresses: emails,
		PhoneNumbers:   phones,
		Addresses:      addresses,
		CompanyName:    doc.CompanyName,
		JobTitle:       doc.JobTitle,
		Department:     doc.Department,
		Notes:          doc.PersonalNotes,
		CreatedTime:    created,
		ModifiedTime:   modified,
	}, nil
}
