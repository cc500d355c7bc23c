// Package widget implements the client side of the booking widget: the
// selection flow state machine, response normalization and the proxy client.
package widget

// Strings holds the user-facing texts rendered by the widget. The server
// ships them in the bootstrap config so deployments can localize without
// touching the widget bundle.
type Strings struct {
	SelectService   string `json:"select_service"`
	SelectStaff     string `json:"select_staff"`
	SelectDate      string `json:"select_date"`
	SelectTime      string `json:"select_time"`
	AnyStaff        string `json:"any_staff"`
	Loading         string `json:"loading"`
	LoadError       string `json:"load_error"`
	BookingSuccess  string `json:"booking_success"`
	BookingError    string `json:"booking_error"`
	ConsentRequired string `json:"consent_required"`
	QuickSlotsTitle string `json:"quick_slots_title"`
	NoSlots         string `json:"no_slots"`
}

// DefaultStrings returns the built-in English texts.
func DefaultStrings() Strings {
	return Strings{
		SelectService:   "Select a service",
		SelectStaff:     "Select a specialist",
		SelectDate:      "Select a date",
		SelectTime:      "Select a time",
		AnyStaff:        "Any specialist",
		Loading:         "Loading...",
		LoadError:       "Failed to load data. Please try again.",
		BookingSuccess:  "You are booked!",
		BookingError:    "Booking failed. Please try again.",
		ConsentRequired: "Please accept the privacy policy.",
		QuickSlotsTitle: "Nearest available slots",
		NoSlots:         "No available slots",
	}
}
