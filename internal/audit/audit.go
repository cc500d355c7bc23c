// Package audit records immutable consent events for booking submissions.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/yclients-proxy/pkg/logging"
)

// EventType represents the type of audit event.
type EventType string

// EventConsentRecorded is logged when a visitor's processing consent is
// accepted alongside a booking submission.
const EventConsentRecorded EventType = "booking.consent_recorded"

// Event is one immutable audit record. Phone must already be masked by the
// caller; the recorder never sees raw personal data.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorder appends audit events to the structured log. Recording is
// best-effort and never fails the request being audited.
type Recorder struct {
	logger *logging.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{logger: logger}
}

// Record emits the event, filling in id and timestamp when absent.
func (r *Recorder) Record(_ context.Context, event Event) {
	if r == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.logger.Info("audit event",
		"id", event.ID,
		"type", string(event.Type),
		"client_ip", event.ClientIP,
		"phone", event.Phone,
		"created_at", event.CreatedAt.Format(time.RFC3339),
	)
}
