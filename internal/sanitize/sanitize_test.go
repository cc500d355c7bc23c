package sanitize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-05", "2024-01-05"},
		{" 2024-01-05 ", "2024-01-05"},
		{"01/05/2024", ""},
		{"2024-1-5", ""},
		{"", ""},
		{"2024-01-05T10:00", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Date(tt.input), "Date(%q)", tt.input)
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "Anna Petrova", Text("  Anna   Petrova\t"))
	assert.Equal(t, "Anna", Text("<b>Anna</b>"))
	assert.Equal(t, "line one line two", Text("line one\nline two"))
}

func TestTextareaKeepsNewlines(t *testing.T) {
	assert.Equal(t, "first\nsecond line", Textarea("first\nsecond   line\x00"))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "anna@example.com", Email(" anna@example.com "))
	assert.Equal(t, "", Email("not-an-email"))
	assert.Equal(t, "", Email(""))
}

func validParams() map[string]any {
	return map[string]any{
		"name":       "Anna",
		"phone":      "+7 912 000-11-22",
		"email":      "anna@example.com",
		"service_id": json.Number("5"),
		"staff_id":   json.Number("9"),
		"date":       "2024-01-05",
		"time":       "10:00",
		"comment":    "window seat",
		"consent":    true,
	}
}

func TestBookingSubmissionValid(t *testing.T) {
	sub, err := BookingSubmission(validParams())
	require.NoError(t, err)

	assert.Equal(t, "Anna", sub.Name)
	assert.Equal(t, "+7 912 000-11-22", sub.Phone)
	assert.Equal(t, "anna@example.com", sub.Email)
	assert.Equal(t, 5, sub.ServiceID)
	assert.Equal(t, 9, sub.StaffID)
	assert.Equal(t, "2024-01-05", sub.Date)
	assert.Equal(t, "10:00", sub.Time)
	assert.True(t, sub.Consent)
}

func TestBookingSubmissionMissingPhone(t *testing.T) {
	params := validParams()
	delete(params, "phone")

	_, err := BookingSubmission(params)
	assert.True(t, errors.Is(err, ErrMissingFields))
}

func TestBookingSubmissionZeroServiceID(t *testing.T) {
	params := validParams()
	params["service_id"] = json.Number("0")

	_, err := BookingSubmission(params)
	assert.True(t, errors.Is(err, ErrInvalidFields))
}

func TestBookingSubmissionBadDate(t *testing.T) {
	params := validParams()
	params["date"] = "01/05/2024"

	_, err := BookingSubmission(params)
	assert.True(t, errors.Is(err, ErrInvalidFields))
}

func TestBookingSubmissionInvalidEmailTolerated(t *testing.T) {
	params := validParams()
	params["email"] = "not-an-email"

	sub, err := BookingSubmission(params)
	require.NoError(t, err)
	assert.Equal(t, "", sub.Email)
}

func TestBookingSubmissionStringIDs(t *testing.T) {
	params := validParams()
	params["service_id"] = "5"
	params["staff_id"] = "9"

	sub, err := BookingSubmission(params)
	require.NoError(t, err)
	assert.Equal(t, 5, sub.ServiceID)
	assert.Equal(t, 9, sub.StaffID)
}

func TestBookingSubmissionConsentCoercion(t *testing.T) {
	params := validParams()
	params["consent"] = "on"

	sub, err := BookingSubmission(params)
	require.NoError(t, err)
	assert.True(t, sub.Consent)

	params["consent"] = "false"
	sub, err = BookingSubmission(params)
	require.NoError(t, err)
	assert.False(t, sub.Consent)
}

func TestPayloadBranchAttachment(t *testing.T) {
	sub, err := BookingSubmission(validParams())
	require.NoError(t, err)

	p := sub.Payload(0)
	assert.Zero(t, p.BranchID)

	p = sub.Payload(3)
	assert.Equal(t, 3, p.BranchID)
	assert.Equal(t, "Anna", p.Client.Name)
	assert.Equal(t, 5, p.ServiceID)
}
