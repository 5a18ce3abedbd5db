// Package ews implements the Exchange Web Services client used for rich
// message retrieval. The Graph message list does not expose full bodies or
// attachment metadata in this system's usage, so single-message reads go
// through a SOAP GetItem call instead.
package ews

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

// TokenProvider resolves a downstream access token for a user, or reports
// that none is available. The same access token used for Graph carries the
// EWS.AccessAsUser.All scope.
type TokenProvider interface {
	AccessToken(ctx context.Context, username string) (string, bool)
}

var _ service.MailDetailAPI = &mailDetailAPI{}

type mailDetailAPI struct {
	c        *http.Client
	endpoint string
	tokens   TokenProvider
	log      zerolog.Logger
}

func NewMailDetailAPI(server string, tokens TokenProvider, log zerolog.Logger) *mailDetailAPI {
	return &mailDetailAPI{
		c: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint: strings.TrimSuffix(server, "/") + "/EWS/Exchange.asmx",
		tokens:   tokens,
		log:      log,
	}
}

const getItemTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"
               xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages"
               xmlns:t="http://schemas.microsoft.com/exchange/services/2006/types">
  <soap:Header>
    <t:RequestServerVersion Version="Exchange2016"/>
  </soap:Header>
  <soap:Body>
    <m:GetItem>
      <m:ItemShape>
        <t:BaseShape>AllProperties</t:BaseShape>
        <t:BodyType>HTML</t:BodyType>
      </m:ItemShape>
      <m:ItemIds>
        <t:ItemId Id="%s"/>
      </m:ItemIds>
    </m:GetItem>
  </soap:Body>
</soap:Envelope>`

type getItemEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		GetItemResponse struct {
			ResponseMessages struct {
				GetItemResponseMessage []responseMessage `xml:"GetItemResponseMessage"`
			} `xml:"ResponseMessages"`
		} `xml:"GetItemResponse"`
	} `xml:"Body"`
}

type responseMessage struct {
	ResponseClass string `xml:"ResponseClass,attr"`
	MessageText   string `xml:"MessageText"`
	Items         struct {
		Message []messageItem `xml:"Message"`
	} `xml:"Items"`
}

type messageItem struct {
	ItemID struct {
		ID string `xml:"Id,attr"`
	} `xml:"ItemId"`
	Subject string `xml:"Subject"`
	Body    struct {
		Content string `xml:",chardata"`
	} `xml:"Body"`
	From struct {
		Mailbox mailbox `xml:"Mailbox"`
	} `xml:"From"`
	ToRecipients  recipientList `xml:"ToRecipients"`
	CcRecipients  recipientList `xml:"CcRecipients"`
	BccRecipients recipientList `xml:"BccRecipients"`
	Attachments   struct {
		FileAttachment []fileAttachment `xml:"FileAttachment"`
	} `xml:"Attachments"`
}

type recipientList struct {
	Mailbox []mailbox `xml:"Mailbox"`
}

type mailbox struct {
	Name         string `xml:"Name"`
	EmailAddress string `xml:"EmailAddress"`
}

type fileAttachment struct {
	AttachmentID struct {
		ID string `xml:"Id,attr"`
	} `xml:"AttachmentId"`
	Name        string `xml:"Name"`
	ContentType string `xml:"ContentType"`
	Size        int64  `xml:"Size"`
}

func (a *mailDetailAPI) GetMessageDetail(ctx context.Context, user, id string) (*service.MessageDetail, error) {
	const op errs.Op = "mailDetailAPI.GetMessageDetail"

	token, ok := a.tokens.AccessToken(ctx, user)
	if !ok {
		return nil, errs.E(op, errs.Unavailable, errs.Str("no downstream credential available"))
	}

	payload := fmt.Sprintf(getItemTemplate, escapeAttr(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(payload))
	if err != nil {
		return nil, errs.E(op, errs.IO, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	// Impersonation context: EWS resolves the mailbox from this header
	// when the token is scoped to act as the user.
	req.Header.Set("X-AnchorMailbox", user)

	res, err := a.c.Do(req)
	if err != nil {
		return nil, errs.E(op, errs.IO, err)
	}
	defer res.Body.Close()

	if res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		a.log.Error().
			Int("status_code", res.StatusCode).
			Str("body", string(body)).
			Msg("ews_request")

		return nil, errs.E(op, errs.IO, errs.Str(fmt.Sprintf("%v: non 2xx status code", res.Status)))
	}

	var envelope getItemEnvelope
	if err := xml.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errs.E(op, errs.IO, err, errs.Parameter("response_body"))
	}

	return messageDetailFromEnvelope(envelope)
}

func messageDetailFromEnvelope(envelope getItemEnvelope) (*service.MessageDetail, error) {
	const op errs.Op = "ews.messageDetailFromEnvelope"

	responses := envelope.Body.GetItemResponse.ResponseMessages.GetItemResponseMessage
	if len(responses) == 0 {
		return nil, errs.E(op, errs.Validation, errs.Str("empty GetItem response"))
	}

	response := responses[0]
	if response.ResponseClass != "Success" {
		return nil, errs.E(op, errs.IO, errs.Str(response.MessageText))
	}

	if len(response.Items.Message) == 0 {
		return nil, errs.E(op, errs.Validation, errs.Str("GetItem response contains no message"))
	}

	message := response.Items.Message[0]
	if message.ItemID.ID == "" {
		return nil, errs.E(op, errs.Validation, errs.Parameter("ItemId"), errs.Str("missing required field"))
	}

	attachments := make([]service.Attachment, 0, len(message.Attachments.FileAttachment))
	for _, att := range message.Attachments.FileAttachment {
		attachments = append(attachments, service.Attachment{
			ID:          att.AttachmentID.ID,
			Name:        att.Name,
			ContentType: att.ContentType,
			Size:        att.Size,
		})
	}

	return &service.MessageDetail{
		ID:           message.ItemID.ID,
		Subject:      message.Subject,
		FromAddress:  message.From.Mailbox.EmailAddress,
		ToAddresses:  addresses(message.ToRecipients),
		CcAddresses:  addresses(message.CcRecipients),
		BccAddresses: addresses(message.BccRecipients),
		Body:         message.Body.Content,
		Attachments:  attachments,
	}, nil
}

func addresses(list recipientList) []string {
	out := make([]string, 0, len(list.Mailbox))
	for _, mb := range list.Mailbox {
		out = append(out, mb.EmailAddress)
	}

	return out
}

func escapeAttr(s string) string {
	buf := &bytes.Buffer{}
	_ = xml.EscapeText(buf, []byte(s))

	return buf.String()
}
