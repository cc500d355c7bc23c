package yclients

import "encoding/json"

// Result is the normalized outcome of one upstream call. Transport failures
// carry HTTPCode 0; non-2xx responses carry the upstream status and the
// message extracted from the body.
type Result struct {
	Success   bool
	HTTPCode  int
	RequestID string
	Body      json.RawMessage
	Message   string
}

// BookingClient is the customer part of a booking request.
type BookingClient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// BookingPayload is the outbound shape for POST /book_record/{company_id}.
// Consent is a local gate and never part of this payload.
type BookingPayload struct {
	Client    BookingClient `json:"client"`
	ServiceID int           `json:"service_id"`
	StaffID   int           `json:"staff_id"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Comment   string        `json:"comment"`
	BranchID  int           `json:"branch_id,omitempty"`
}

// ConnectionStatus is the admin-facing result of a connection check.
type ConnectionStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
