package errs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exweb/exweb-backend/pkg/errs"
)

func TestE(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		expect    string
		topKind   errs.Kind
		opStack   []string
		parameter errs.Parameter
	}{
		{
			name:    "kind and message",
			err:     errs.E(errs.Op("mailService.GetMessages"), errs.Unavailable, errs.Str("no credentials")),
			expect:  "upstream_unavailable: no credentials",
			topKind: errs.Unavailable,
			opStack: []string{"mailService.GetMessages"},
		},
		{
			name: "kind promoted through wrapping",
			err: errs.E(errs.Op("calendarService.CreateEvent"),
				errs.E(errs.Op("graphAPI.CreateEvent"), errs.IO, errs.Str("status 502")),
			),
			expect:  "I/O_error: status 502",
			topKind: errs.IO,
			opStack: []string{"calendarService.CreateEvent", "graphAPI.CreateEvent"},
		},
		{
			name:      "parameter included",
			err:       errs.E(errs.Op("graphAPI.GetEvents"), errs.Validation, errs.Parameter("startDate"), errs.Str("malformed timestamp")),
			expect:    "validation_error: parameter startDate: malformed timestamp",
			topKind:   errs.Validation,
			opStack:   []string{"graphAPI.GetEvents"},
			parameter: errs.Parameter("startDate"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.err.Error())
			assert.Equal(t, tc.topKind, errs.TopKind(tc.err))
			assert.Equal(t, tc.opStack, errs.OpStack(tc.err))

			var e *errs.Error
			assert.ErrorAs(t, tc.err, &e)
			assert.Equal(t, tc.parameter, e.Param)
		})
	}
}

func TestKindIs(t *testing.T) {
	err := errs.E(errs.Op("contactsService.DeleteContact"),
		errs.E(errs.Op("graphAPI.DeleteContact"), errs.IO, errs.Str("status 404")),
	)

	assert.True(t, errs.KindIs(errs.IO, err))
	assert.False(t, errs.KindIs(errs.Validation, err))
	assert.False(t, errs.KindIs(errs.IO, errs.Str("plain error")))
}
