package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

func TestMessageFromDoc(t *testing.T) {
	subject := "Status report"

	doc := messageDoc{
		ID:      "message-1",
		Subject: &subject,
		From:    &recipient{EmailAddress: emailAddress{Address: "from@example.com", Name: "Sender"}},
		ToRecipients: []recipient{
			{EmailAddress: emailAddress{Address: "to@example.com"}},
			{EmailAddress: emailAddress{Address: "other@example.com"}},
		},
		ReceivedDateTime: "2026-01-15T10:30:00.1234567Z",
		HasAttachments:   true,
		BodyPreview:      "Here is the report",
	}

	got, err := messageFromDoc(doc)
	require.NoError(t, err)

	expect := &service.Message{
		ID:          "message-1",
		Subject:     "Status report",
		FromAddress: "from@example.com",
		ToAddresses: []string{"to@example.com", "other@example.com"},
		// The received timestamp is passed through verbatim.
		Date:           "2026-01-15T10:30:00.1234567Z",
		HasAttachments: true,
		Preview:        "Here is the report",
	}

	assert.Empty(t, cmp.Diff(expect, got))
}

func TestMessageFromDocMissingRequiredField(t *testing.T) {
	subject := "Status report"
	from := &recipient{EmailAddress: emailAddress{Address: "from@example.com"}}

	testCases := []struct {
		name      string
		doc       messageDoc
		parameter errs.Parameter
	}{
		{
			name:      "missing id",
			doc:       messageDoc{Subject: &subject, From: from, ReceivedDateTime: "2026-01-15T10:30:00Z"},
			parameter: "id",
		},
		{
			name:      "missing subject",
			doc:       messageDoc{ID: "message-1", From: from, ReceivedDateTime: "2026-01-15T10:30:00Z"},
			parameter: "subject",
		},
		{
			name:      "missing from",
			doc:       messageDoc{ID: "message-1", Subject: &subject, ReceivedDateTime: "2026-01-15T10:30:00Z"},
			parameter: "from",
		},
		{
			name:      "missing received timestamp",
			doc:       messageDoc{ID: "message-1", Subject: &subject, From: from},
			parameter: "receivedDateTime",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := messageFromDoc(tc.doc)
			require.Error(t, err)
			assert.True(t, errs.KindIs(errs.Validation, err))

			var e *errs.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.parameter, e.Param)
		})
	}
}

func TestGetMessagesDefaults(t *testing.T) {
	var (
		gotPath  string
		gotQuery map[string]string
	)

	api := NewMailAPI(testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"$top":     r.URL.Query().Get("$top"),
			"$orderby": r.URL.Query().Get("$orderby"),
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": []}`))
	})))

	page, err := api.GetMessages(context.Background(), "user@example.com", service.MessageQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.Empty(t, page.NextPageToken)

	assert.Equal(t, "/users/user@example.com/mailFolders/inbox/messages", gotPath)
	assert.Equal(t, "50", gotQuery["$top"])
	assert.Equal(t, "receivedDateTime desc", gotQuery["$orderby"])
}

func TestSendMessage(t *testing.T) {
	var (
		gotPath string
		gotBody sendMailRequest
	)

	api := NewMailAPI(testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusAccepted)
	})))

	err := api.SendMessage(context.Background(), "user@example.com", service.SendMessage{
		Subject:      "Status report",
		Body:         "<p>All good</p>",
		ToRecipients: []string{"to@example.com"},
		CcRecipients: []string{"cc@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/users/user@example.com/sendMail", gotPath)
	assert.Equal(t, "Status report", gotBody.Message.Subject)
	assert.Equal(t, itemBody{ContentType: "HTML", Content: "<p>All good</p>"}, gotBody.Message.Body)
	assert.Equal(t, []recipient{{EmailAddress: emailAddress{Address: "to@example.com"}}}, gotBody.Message.ToRecipients)
	assert.Equal(t, []recipient{{EmailAddress: emailAddress{Address: "cc@example.com"}}}, gotBody.Message.CcRecipients)
	assert.Nil(t, gotBody.Message.BccRecipients)
}

func TestSendMessageUpstreamFailure(t *testing.T) {
	api := NewMailAPI(testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": {"code": "MailboxBusy", "message": "The mailbox is temporarily unavailable."}}`))
	})))

	err := api.SendMessage(context.Background(), "user@example.com", service.SendMessage{
		Subject:      "Status report",
		Body:         "<p>All good</p>",
		ToRecipients: []string{"to@example.com"},
	})
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.IO, err))
	assert.Contains(t, err.Error(), "The mailbox is temporarily unavailable.")
}
