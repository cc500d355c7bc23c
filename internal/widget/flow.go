package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Stage identifies a step of the selection flow.
type Stage int

const (
	StageService Stage = iota
	StageStaff
	StageDate
	StageTime
)

func (s Stage) String() string {
	switch s {
	case StageService:
		return "service"
	case StageStaff:
		return "staff"
	case StageDate:
		return "date"
	case StageTime:
		return "time"
	default:
		return "unknown"
	}
}

// quickSlotDates caps how many upcoming dates the quick-slot strip shows.
const quickSlotDates = 2

// Fetcher loads booking data for the flow, normalized to item lists.
type Fetcher interface {
	Services(ctx context.Context) ([]any, error)
	Staff(ctx context.Context, serviceID string) ([]any, error)
	AvailableDates(ctx context.Context, serviceID, staffID string) ([]any, error)
	AvailableTimes(ctx context.Context, serviceID, staffID, date string) ([]any, error)
	Book(ctx context.Context, form FormData) (json.RawMessage, error)
}

// View renders flow state. Implementations are not called concurrently.
type View interface {
	RenderOptions(stage Stage, options []Option)
	ResetStage(stage Stage)
	ShowError(message string)
	ShowSuccess(message string)
	RenderQuickSlots(date string, slots []Option)
	ClearQuickSlots()
	ResetForm()
}

// FormData is the booking form as submitted by the visitor.
type FormData struct {
	Name      string
	Phone     string
	Email     string
	ServiceID string
	StaffID   string
	Date      string
	Time      string
	Comment   string
	Consent   bool
}

// Flow drives the service -> staff -> date -> time selection sequence. Every
// selection invalidates in-flight fetches for later stages: a fetch started
// before the selection changed is dropped when it completes.
type Flow struct {
	fetcher Fetcher
	view    View
	strings Strings

	mu        sync.Mutex
	epoch     uint64
	selection map[Stage]string
}

// NewFlow creates a flow over the given fetcher and view.
func NewFlow(fetcher Fetcher, view View, strings Strings) *Flow {
	if strings == (Strings{}) {
		strings = DefaultStrings()
	}
	return &Flow{
		fetcher:   fetcher,
		view:      view,
		strings:   strings,
		selection: make(map[Stage]string),
	}
}

// Selection returns the current value chosen for a stage.
func (f *Flow) Selection(stage Stage) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection[stage]
}

// Load fetches the service list and renders the first stage.
func (f *Flow) Load(ctx context.Context) error {
	epoch := f.begin(StageService, "")

	items, err := f.fetcher.Services(ctx)
	if err != nil {
		return f.fail(epoch, err)
	}
	return f.complete(epoch, func() {
		f.view.RenderOptions(StageService, ListOptions(items))
	})
}

// SelectService records the chosen service and loads its staff.
func (f *Flow) SelectService(ctx context.Context, serviceID string) error {
	epoch := f.begin(StageService, serviceID)
	if serviceID == "" {
		return nil
	}

	items, err := f.fetcher.Staff(ctx, serviceID)
	if err != nil {
		return f.fail(epoch, err)
	}
	return f.complete(epoch, func() {
		f.view.RenderOptions(StageStaff, ListOptions(items))
		f.view.ResetStage(StageDate)
		f.view.ResetStage(StageTime)
		f.view.ClearQuickSlots()
	})
}

// SelectStaff records the chosen staff member, loads the available dates and
// refreshes the quick-slot strip for the nearest dates.
func (f *Flow) SelectStaff(ctx context.Context, staffID string) error {
	epoch := f.begin(StageStaff, staffID)
	if staffID == "" {
		return nil
	}
	serviceID := f.Selection(StageService)

	items, err := f.fetcher.AvailableDates(ctx, serviceID, staffID)
	if err != nil {
		return f.fail(epoch, err)
	}
	dates := DateOptions(items)
	if err := f.complete(epoch, func() {
		f.view.RenderOptions(StageDate, dates)
		f.view.ResetStage(StageTime)
	}); err != nil {
		return err
	}
	f.loadQuickSlots(ctx, epoch, serviceID, staffID, dates)
	return nil
}

// SelectDate records the chosen date and loads its time slots.
func (f *Flow) SelectDate(ctx context.Context, date string) error {
	epoch := f.begin(StageDate, date)
	if date == "" {
		return nil
	}
	serviceID := f.Selection(StageService)
	staffID := f.Selection(StageStaff)

	items, err := f.fetcher.AvailableTimes(ctx, serviceID, staffID, date)
	if err != nil {
		return f.fail(epoch, err)
	}
	return f.complete(epoch, func() {
		f.view.RenderOptions(StageTime, TimeOptions(items))
	})
}

// SelectTime records the chosen slot. Nothing is fetched.
func (f *Flow) SelectTime(_ context.Context, slot string) error {
	f.begin(StageTime, slot)
	return nil
}

// Submit validates consent, merges the current selections into the form and
// sends the booking. On success the form and quick slots are reset.
func (f *Flow) Submit(ctx context.Context, form FormData) error {
	if !form.Consent {
		f.view.ShowError(f.strings.ConsentRequired)
		return nil
	}

	f.mu.Lock()
	if form.ServiceID == "" {
		form.ServiceID = f.selection[StageService]
	}
	if form.StaffID == "" {
		form.StaffID = f.selection[StageStaff]
	}
	if form.Date == "" {
		form.Date = f.selection[StageDate]
	}
	if form.Time == "" {
		form.Time = f.selection[StageTime]
	}
	f.mu.Unlock()

	resp, err := f.fetcher.Book(ctx, form)
	if err != nil {
		message := f.strings.BookingError
		if m := err.Error(); m != "" {
			message = m
		}
		f.view.ShowError(message)
		return err
	}

	message := f.strings.BookingSuccess
	if id := bookingID(resp); id != "" {
		message = fmt.Sprintf("%s #%s", message, id)
	}
	f.view.ShowSuccess(message)
	f.view.ResetForm()
	f.view.ClearQuickSlots()

	f.mu.Lock()
	f.epoch++
	f.selection = make(map[Stage]string)
	f.mu.Unlock()
	return nil
}

// BookQuickSlot books directly from the quick-slot strip, bypassing the
// date and time dropdowns.
func (f *Flow) BookQuickSlot(ctx context.Context, date, slot string, form FormData) error {
	form.Date = date
	form.Time = slot
	return f.Submit(ctx, form)
}

// loadQuickSlots fetches times for the nearest dates one by one, rendering
// each strip as it arrives. A failed date stops the remaining fetches
// without surfacing an error; the dropdown flow still works.
func (f *Flow) loadQuickSlots(ctx context.Context, epoch uint64, serviceID, staffID string, dates []Option) {
	if f.stale(epoch) {
		return
	}
	f.view.ClearQuickSlots()

	shown := 0
	for _, date := range dates {
		if shown >= quickSlotDates {
			break
		}
		items, err := f.fetcher.AvailableTimes(ctx, serviceID, staffID, date.Value)
		if err != nil {
			return
		}
		if f.stale(epoch) {
			return
		}
		slots := TimeOptions(items)
		if len(slots) == 0 {
			continue
		}
		f.view.RenderQuickSlots(date.Value, slots)
		shown++
	}
}

// begin records a selection, invalidates everything downstream of it and
// returns the epoch the caller's fetch belongs to.
func (f *Flow) begin(stage Stage, value string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
	f.selection[stage] = value
	for s := stage + 1; s <= StageTime; s++ {
		delete(f.selection, s)
	}
	return f.epoch
}

// complete applies a fetch result unless a newer selection superseded it.
// Downstream stages are reset only here, so a failed fetch leaves the
// previous state on screen.
func (f *Flow) complete(epoch uint64, render func()) error {
	f.mu.Lock()
	if epoch != f.epoch {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()
	render()
	return nil
}

func (f *Flow) stale(epoch uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return epoch != f.epoch
}

func (f *Flow) fail(epoch uint64, err error) error {
	if f.stale(epoch) {
		return nil
	}
	f.view.ShowError(f.strings.LoadError)
	return err
}

// bookingID digs the created record id out of the booking response. The API
// reports it as id, record_id or nested under data.
func bookingID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if id := firstString(obj, "id", "record_id"); id != "" {
		return id
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return firstString(data, "id", "record_id")
	}
	return ""
}
