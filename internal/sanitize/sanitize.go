// Package sanitize validates and normalizes inbound booking submissions.
package sanitize

import (
	"encoding/json"
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/salonbook/yclients-proxy/internal/yclients"
)

var (
	// ErrMissingFields is returned when a required field is absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidFields is returned when a field survives cleanup empty or non-positive.
	ErrInvalidFields = errors.New("invalid fields")
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// Date accepts only YYYY-MM-DD strings; anything else becomes empty.
func Date(raw string) string {
	v := Text(raw)
	if !datePattern.MatchString(v) {
		return ""
	}
	return v
}

// Text strips markup and control characters from a single-line value and
// collapses internal whitespace.
func Text(raw string) string {
	v := tagPattern.ReplaceAllString(raw, "")
	v = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, v)
	return strings.Join(strings.Fields(v), " ")
}

// Textarea is Text for multi-line values: newlines survive, other control
// characters do not.
func Textarea(raw string) string {
	v := tagPattern.ReplaceAllString(raw, "")
	v = strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, v)
	lines := strings.Split(v, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Email normalizes an email address. Invalid addresses become empty rather
// than rejecting the submission.
func Email(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return ""
	}
	return addr.Address
}

// Submission is a validated booking request. Consent is a local gate checked
// by the endpoint; it never travels upstream.
type Submission struct {
	Name      string
	Phone     string
	Email     string
	ServiceID int
	StaffID   int
	Date      string
	Time      string
	Comment   string
	Consent   bool
}

// requiredFields must be present in the raw submission before any cleanup.
var requiredFields = []string{"name", "phone", "service_id", "staff_id", "date", "time"}

// BookingSubmission validates a decoded JSON object into a Submission.
// Presence failures return ErrMissingFields; values that survive cleanup
// empty or non-positive return ErrInvalidFields.
func BookingSubmission(params map[string]any) (*Submission, error) {
	for _, field := range requiredFields {
		if isAbsent(params[field]) {
			return nil, ErrMissingFields
		}
	}

	sub := &Submission{
		Name:      Text(asString(params["name"])),
		Phone:     Text(asString(params["phone"])),
		Email:     Email(asString(params["email"])),
		ServiceID: asInt(params["service_id"]),
		StaffID:   asInt(params["staff_id"]),
		Date:      Date(asString(params["date"])),
		Time:      Text(asString(params["time"])),
		Comment:   Textarea(asString(params["comment"])),
		Consent:   asBool(params["consent"]),
	}

	if sub.Name == "" || sub.Phone == "" || sub.ServiceID <= 0 || sub.StaffID <= 0 || sub.Date == "" || sub.Time == "" {
		return nil, ErrInvalidFields
	}
	return sub, nil
}

// Payload builds the outbound upstream shape, attaching the branch when a
// nonzero default branch is configured. Consent is deliberately dropped.
func (s *Submission) Payload(defaultBranchID int) *yclients.BookingPayload {
	p := &yclients.BookingPayload{
		Client: yclients.BookingClient{
			Name:  s.Name,
			Phone: s.Phone,
			Email: s.Email,
		},
		ServiceID: s.ServiceID,
		StaffID:   s.StaffID,
		Date:      s.Date,
		Time:      s.Time,
		Comment:   s.Comment,
	}
	if defaultBranchID > 0 {
		p.BranchID = defaultBranchID
	}
	return p
}

// isAbsent reports whether a required field is missing. Numeric zero counts
// as present so that "service_id": 0 fails the validity check, not the
// presence check.
func isAbsent(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case bool:
		return !value
	default:
		return false
	}
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

// asInt coerces to a non-negative integer; negatives and garbage become 0.
func asInt(v any) int {
	var n int
	switch value := v.(type) {
	case json.Number:
		if parsed, err := value.Int64(); err == nil {
			n = int(parsed)
		}
	case float64:
		n = int(value)
	case int:
		n = value
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			n = parsed
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

func asBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		lowered := strings.ToLower(strings.TrimSpace(value))
		return lowered == "true" || lowered == "1" || lowered == "on"
	case json.Number:
		return value.String() != "0"
	case float64:
		return value != 0
	default:
		return false
	}
}
