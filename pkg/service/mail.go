package service

import (
	"context"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type MailAPI interface {
	GetMessages(ctx context.Context, user string, query MessageQuery) (*MessagesPage, error)
	SendMessage(ctx context.Context, user string, input SendMessage) error
}

// MailDetailAPI retrieves rich message content, which the list API does
// not expose. Served over EWS rather than Graph.
type MailDetailAPI interface {
	GetMessageDetail(ctx context.Context, user, id string) (*MessageDetail, error)
}

type MailService interface {
	GetMessages(ctx context.Context, user string, query MessageQuery) (*MessagesPage, error)
	GetMessageDetail(ctx context.Context, user, id string) (*MessageDetail, error)
	SendMessage(ctx context.Context, user string, input SendMessage) error
}

type Message struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	FromAddress string   `json:"fromAddress"`
	ToAddresses []string `json:"toAddresses"`
	// Date is the upstream receivedDateTime, passed through verbatim.
	Date           string `json:"date"`
	HasAttachments bool   `json:"hasAttachments"`
	Preview        string `json:"preview,omitempty"`
}

type MessageDetail struct {
	ID           string       `json:"id"`
	Subject      string       `json:"subject"`
	FromAddress  string       `json:"fromAddress"`
	ToAddresses  []string     `json:"toAddresses"`
	CcAddresses  []string     `json:"ccAddresses"`
	BccAddresses []string     `json:"bccAddresses"`
	Body         string       `json:"body"`
	Attachments  []Attachment `json:"attachments"`
}

type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type SendMessage struct {
	Subject       string   `json:"subject"`
	Body          string   `json:"body"`
	ToRecipients  []string `json:"toRecipients"`
	CcRecipients  []string `json:"ccRecipients,omitempty"`
	BccRecipients []string `json:"bccRecipients,omitempty"`
}

func (m SendMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Subject, validation.Required),
		validation.Field(&m.Body, validation.Required),
		validation.Field(&m.ToRecipients, validation.Required, validation.Each(is.EmailFormat)),
		validation.Field(&m.CcRecipients, validation.Each(is.EmailFormat)),
		validation.Field(&m.BccRecipients, validation.Each(is.EmailFormat)),
	)
}

type MessageQuery struct {
	Folder    string
	PageSize  int
	PageToken string
}

type MessagesPage struct {
	Messages []*Message `json:"messages"`
	// NextPageToken is empty when there are no further pages.
	NextPageToken string `json:"nextPageToken,omitempty"`
}
