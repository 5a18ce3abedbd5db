package ews

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

type staticTokens string

func (s staticTokens) AccessToken(_ context.Context, _ string) (string, bool) {
	return string(s), s != ""
}

const getItemSuccessResponse = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <m:GetItemResponse xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages"
                       xmlns:t="http://schemas.microsoft.com/exchange/services/2006/types">
      <m:ResponseMessages>
        <m:GetItemResponseMessage ResponseClass="Success">
          <m:ResponseCode>NoError</m:ResponseCode>
          <m:Items>
            <t:Message>
              <t:ItemId Id="message-1" ChangeKey="CQAAABYA"/>
              <t:Subject>Status report</t:Subject>
              <t:Body BodyType="HTML">&lt;p&gt;All good&lt;/p&gt;</t:Body>
              <t:From>
                <t:Mailbox>
                  <t:Name>Sender</t:Name>
                  <t:EmailAddress>from@example.com</t:EmailAddress>
                </t:Mailbox>
              </t:From>
              <t:ToRecipients>
                <t:Mailbox>
                  <t:EmailAddress>to@example.com</t:EmailAddress>
                </t:Mailbox>
                <t:Mailbox>
                  <t:EmailAddress>other@example.com</t:EmailAddress>
                </t:Mailbox>
              </t:ToRecipients>
              <t:CcRecipients>
                <t:Mailbox>
                  <t:EmailAddress>cc@example.com</t:EmailAddress>
                </t:Mailbox>
              </t:CcRecipients>
              <t:Attachments>
                <t:FileAttachment>
                  <t:AttachmentId Id="attachment-1"/>
                  <t:Name>report.pdf</t:Name>
                  <t:ContentType>application/pdf</t:ContentType>
                  <t:Size>2048</t:Size>
                </t:FileAttachment>
              </t:Attachments>
            </t:Message>
          </m:Items>
        </m:GetItemResponseMessage>
      </m:ResponseMessages>
    </m:GetItemResponse>
  </s:Body>
</s:Envelope>`

const getItemErrorResponse = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <m:GetItemResponse xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages">
      <m:ResponseMessages>
        <m:GetItemResponseMessage ResponseClass="Error">
          <m:MessageText>The specified object was not found in the store.</m:MessageText>
          <m:ResponseCode>ErrorItemNotFound</m:ResponseCode>
        </m:GetItemResponseMessage>
      </m:ResponseMessages>
    </m:GetItemResponse>
  </s:Body>
</s:Envelope>`

func TestGetMessageDetail(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotAnchor  string
		gotPayload string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAnchor = r.Header.Get("X-AnchorMailbox")

		payload, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotPayload = string(payload)

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write([]byte(getItemSuccessResponse))
	}))
	t.Cleanup(server.Close)

	api := NewMailDetailAPI(server.URL, staticTokens("downstream-token"), zerolog.New(io.Discard))

	detail, err := api.GetMessageDetail(context.Background(), "user@example.com", "message-1")
	require.NoError(t, err)

	assert.Equal(t, "/EWS/Exchange.asmx", gotPath)
	assert.Equal(t, "Bearer downstream-token", gotAuth)
	assert.Equal(t, "user@example.com", gotAnchor)
	assert.Contains(t, gotPayload, `<t:ItemId Id="message-1"/>`)
	assert.Contains(t, gotPayload, "<t:BaseShape>AllProperties</t:BaseShape>")

	expect := &service.MessageDetail{
		ID:          "message-1",
		Subject:     "Status report",
		FromAddress: "from@example.com",
		ToAddresses: []string{"to@example.com", "other@example.com"},
		CcAddresses: []string{"cc@example.com"},
		// No Bcc element in the response yields an empty slice.
		BccAddresses: []string{},
		Body:         "<p>All good</p>",
		Attachments: []service.Attachment{
			{ID: "attachment-1", Name: "report.pdf", ContentType: "application/pdf", Size: 2048},
		},
	}

	assert.Empty(t, cmp.Diff(expect, detail))
}

func TestGetMessageDetailUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write([]byte(getItemErrorResponse))
	}))
	t.Cleanup(server.Close)

	api := NewMailDetailAPI(server.URL, staticTokens("downstream-token"), zerolog.New(io.Discard))

	_, err := api.GetMessageDetail(context.Background(), "user@example.com", "missing-message")
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.IO, err))
	assert.Contains(t, err.Error(), "The specified object was not found in the store.")
}

func TestGetMessageDetailHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	api := NewMailDetailAPI(server.URL, staticTokens("downstream-token"), zerolog.New(io.Discard))

	_, err := api.GetMessageDetail(context.Background(), "user@example.com", "message-1")
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.IO, err))
}

func TestGetMessageDetailWithoutCredential(t *testing.T) {
	api := NewMailDetailAPI("https://mail.example.com", staticTokens(""), zerolog.New(io.Discard))

	_, err := api.GetMessageDetail(context.Background(), "user@example.com", "message-1")
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.Unavailable, err))
}

func TestEscapeAttr(t *testing.T) {
	assert.Equal(t, "AAMkAD&amp;quot;&lt;x&gt;", escapeAttr(`AAMkAD&quot;<x>`))
}

func TestMessageDetailFromEnvelopeEmpty(t *testing.T) {
	_, err := messageDetailFromEnvelope(getItemEnvelope{})
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.Validation, err))
}
