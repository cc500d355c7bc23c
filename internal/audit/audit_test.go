package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/salonbook/yclients-proxy/pkg/logging"
)

func TestRecordFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	rec := NewRecorder(logger)
	rec.Record(context.Background(), Event{
		Type:     EventConsentRecorded,
		ClientIP: "10.0.0.1",
		Phone:    "*******1122",
	})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["type"] != string(EventConsentRecorded) {
		t.Errorf("type = %v", line["type"])
	}
	if line["id"] == "" || line["id"] == nil {
		t.Error("expected generated event id")
	}
	if line["phone"] != "*******1122" {
		t.Errorf("phone = %v", line["phone"])
	}
	ts, _ := line["created_at"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("created_at %q not RFC3339: %v", ts, err)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), Event{Type: EventConsentRecorded})
}
