// Package privacy masks personal data before it reaches log output.
package privacy

import (
	"regexp"
	"strings"
)

// maxLoggedBody caps how much of an upstream response body ends up in a log line.
const maxLoggedBody = 2000

var (
	nonDigits = regexp.MustCompile(`\D+`)
	// Runs of 10-15 digits in a response body are assumed to be phone numbers.
	digitRun = regexp.MustCompile(`\b\d{10,15}\b`)
)

// Phone masks all but the last four digits of a phone number.
// Non-digit characters are dropped first, so "+7 (912) 000-11-22"
// and "79120001122" mask to the same value.
func Phone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	masked := len(digits) - 4
	if masked < 0 {
		masked = 0
	}
	return strings.Repeat("*", masked) + digits[masked:]
}

// Token masks an API token for display. Short tokens are hidden entirely,
// longer ones keep the first and last three characters.
func Token(raw string) string {
	if raw == "" {
		return ""
	}
	if len(raw) <= 6 {
		return strings.Repeat("*", len(raw))
	}
	return raw[:3] + strings.Repeat("*", len(raw)-6) + raw[len(raw)-3:]
}

// Body scrubs phone-looking digit runs from a response body and truncates
// the result so a single upstream call cannot flood the log.
func Body(raw string) string {
	scrubbed := digitRun.ReplaceAllStringFunc(raw, Phone)
	if len(scrubbed) <= maxLoggedBody {
		return scrubbed
	}
	return scrubbed[:maxLoggedBody] + "..."
}
