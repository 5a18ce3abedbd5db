package graph

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

const messageSelectFields = "id,subject,from,toRecipients,receivedDateTime,hasAttachments,bodyPreview"

var _ service.MailAPI = &mailAPI{}

type mailAPI struct {
	client *Client
}

func NewMailAPI(client *Client) *mailAPI {
	return &mailAPI{client: client}
}

type messageDoc struct {
	ID               string      `json:"id"`
	Subject          *string     `json:"subject"`
	From             *recipient  `json:"from"`
	ToRecipients     []recipient `json:"toRecipients"`
	ReceivedDateTime string      `json:"receivedDateTime"`
	HasAttachments   bool        `json:"hasAttachments"`
	BodyPreview      string      `json:"bodyPreview"`
}

type messageList struct {
	Value    []messageDoc `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

type sendMessageDoc struct {
	Subject       string      `json:"subject"`
	Body          itemBody    `json:"body"`
	ToRecipients  []recipient `json:"toRecipients"`
	CcRecipients  []recipient `json:"ccRecipients,omitempty"`
	BccRecipients []recipient `json:"bccRecipients,omitempty"`
}

type sendMailRequest struct {
	Message sendMessageDoc `json:"message"`
}

func (a *mailAPI) GetMessages(ctx context.Context, user string, query service.MessageQuery) (*service.MessagesPage, error) {
	const op errs.Op = "mailAPI.GetMessages"

	folder := query.Folder
	if folder == "" {
		folder = "inbox"
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	params := url.Values{}
	params.Set("$top", strconv.Itoa(pageSize))
	params.Set("$orderby", "receivedDateTime desc")
	params.Set("$select", messageSelectFields)
	if query.PageToken != "" {
		params.Set("$skiptoken", query.PageToken)
	}

	var list messageList
	err := a.client.request(ctx, op, user, http.MethodGet,
		"/users/"+url.PathEscape(user)+"/mailFolders/"+url.PathEscape(folder)+"/messages",
		params, nil, nil, &list)
	if err != nil {
		return nil, errs.E(op, err)
	}

	messages := make([]*service.Message, len(list.Value))
	for i, doc := range list.Value {
		message, err := messageFromDoc(doc)
		if err != nil {
			return nil, errs.E(op, err)
		}
		messages[i] = message
	}

	return &service.MessagesPage{
		Messages:      messages,
		NextPageToken: pageToken(list.NextLink),
	}, nil
}

func (a *mailAPI) SendMessage(ctx context.Context, user string, input service.SendMessage) error {
	const op errs.Op = "mailAPI.SendMessage"

	body := sendMailRequest{
		Message: sendMessageDoc{
			Subject: input.Subject,
			Body: itemBody{
				ContentType: "HTML",
				Content:     input.Body,
			},
			ToRecipients:  toRecipients(input.ToRecipients),
			CcRecipients:  toRecipients(input.CcRecipients),
			BccRecipients: toRecipients(input.BccRecipients),
		},
	}

	// Graph answers 202 Accepted with an empty body on success.
	err := a.client.request(ctx, op, user, http.MethodPost,
		"/users/"+url.PathEscape(user)+"/sendMail",
		nil, nil, body, nil)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}

func toRecipients(addresses []string) []recipient {
	if len(addresses) == 0 {
		return nil
	}

	recipients := make([]recipient, len(addresses))
	for i, address := range addresses {
		recipients[i] = recipient{EmailAddress: emailAddress{Address: address}}
	}

	return recipients
}

func messageFromDoc(doc messageDoc) (*service.Message, error) {
	const op errs.Op = "graph.messageFromDoc"

	switch {
	case doc.ID == "":
		return nil, errs.E(op, errs.Validation, errs.Parameter("id"), errs.Str("missing required field"))
	case doc.Subject == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("subject"), errs.Str("missing required field"))
	case doc.From == nil:
		return nil, errs.E(op, errs.Validation, errs.Parameter("from"), errs.Str("missing required field"))
	case doc.ReceivedDateTime == "":
		return nil, errs.E(op, errs.Validation, errs.Parameter("receivedDateTime"), errs.Str("missing required field"))
	}

	to := make([]string, 0, len(doc.ToRecipients))
	for _, r := range doc.ToRecipients {
		to = append(to, r.EmailAddress.Address)
	}

	return &service.Message{
		ID:             doc.ID,
		Subject:        *doc.Subject,
		FromAddress:    doc.From.EmailAddress.Address,
		ToAddresses:    to,
		Date:           doc.ReceivedDateTime,
		HasAttachments: doc.HasAttachments,
		Preview:        doc.BodyPreview,
	}, nil
}
