package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/exweb/exweb-backend/pkg/service"
)

func TestUpsertEventValidate(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		event     service.UpsertEvent
		expectErr bool
	}{
		{
			name: "valid event",
			event: service.UpsertEvent{
				Subject:   "Design sync",
				StartTime: start,
				EndTime:   end,
				Attendees: []service.Attendee{{Email: "a@example.com"}},
			},
		},
		{
			name: "missing subject",
			event: service.UpsertEvent{
				StartTime: start,
				EndTime:   end,
			},
			expectErr: true,
		},
		{
			name: "end before start",
			event: service.UpsertEvent{
				Subject:   "Design sync",
				StartTime: end,
				EndTime:   start,
			},
			expectErr: true,
		},
		{
			name: "all day event ignores time ordering",
			event: service.UpsertEvent{
				Subject:   "Offsite",
				StartTime: end,
				EndTime:   start,
				IsAllDay:  true,
			},
		},
		{
			name: "attendee without valid email",
			event: service.UpsertEvent{
				Subject:   "Design sync",
				StartTime: start,
				EndTime:   end,
				Attendees: []service.Attendee{{Email: "not-an-email"}},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSendMessageValidate(t *testing.T) {
	testCases := []struct {
		name      string
		message   service.SendMessage
		expectErr bool
	}{
		{
			name: "valid message",
			message: service.SendMessage{
				Subject:      "Status report",
				Body:         "<p>All good</p>",
				ToRecipients: []string{"to@example.com"},
				CcRecipients: []string{"cc@example.com"},
			},
		},
		{
			name: "no recipients",
			message: service.SendMessage{
				Subject: "Status report",
				Body:    "<p>All good</p>",
			},
			expectErr: true,
		},
		{
			name: "invalid cc address",
			message: service.SendMessage{
				Subject:      "Status report",
				Body:         "<p>All good</p>",
				ToRecipients: []string{"to@example.com"},
				CcRecipients: []string{"not-an-email"},
			},
			expectErr: true,
		},
		{
			name: "missing body",
			message: service.SendMessage{
				Subject:      "Status report",
				ToRecipients: []string{"to@example.com"},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.message.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpsertContactValidate(t *testing.T) {
	testCases := []struct {
		name      string
		contact   service.UpsertContact
		expectErr bool
	}{
		{
			name: "valid contact",
			contact: service.UpsertContact{
				DisplayName:    "Ada Lovelace",
				EmailAddresses: []string{"ada@example.com"},
				PhoneNumbers: []service.PhoneNumber{
					{Type: service.PhoneTypeMobile, Number: "+47 500"},
				},
			},
		},
		{
			name: "missing display name",
			contact: service.UpsertContact{
				EmailAddresses: []string{"ada@example.com"},
			},
			expectErr: true,
		},
		{
			name: "no email addresses",
			contact: service.UpsertContact{
				DisplayName: "Ada Lovelace",
			},
			expectErr: true,
		},
		{
			name: "unknown phone type",
			contact: service.UpsertContact{
				DisplayName:    "Ada Lovelace",
				EmailAddresses: []string{"ada@example.com"},
				PhoneNumbers: []service.PhoneNumber{
					{Type: "pager", Number: "+47 500"},
				},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.contact.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, service.LoginRequest{Username: "user@example.com"}.Validate())
	assert.Error(t, service.LoginRequest{}.Validate())
}
