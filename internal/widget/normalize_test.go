package widget

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"data wrapper", `{"data":[{"id":1}],"meta":{"count":1}}`, 1},
		{"object without data", `{"success":true}`, 0},
		{"scalar", `42`, 0},
		{"empty", ``, 0},
		{"null data", `{"data":null}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, NormalizeList(json.RawMessage(tt.raw)), tt.want)
		})
	}
}

func TestListOptions(t *testing.T) {
	items := NormalizeList(json.RawMessage(`[
		{"id":10,"title":"Haircut"},
		{"staff_id":"7","name":"Olga"},
		{"service_id":3},
		{"id":0,"title":"placeholder"},
		{"title":"no id at all"},
		"not an object"
	]`))

	got := ListOptions(items)

	assert.Equal(t, []Option{
		{Value: "10", Label: "Haircut"},
		{Value: "7", Label: "Olga"},
		{Value: "3", Label: "3"},
	}, got)
}

func TestDateOptions(t *testing.T) {
	items := NormalizeList(json.RawMessage(`["2026-09-15",{"date":"2026-09-16"},{"other":"x"},5]`))

	got := DateOptions(items)

	assert.Equal(t, []Option{
		{Value: "2026-09-15", Label: "2026-09-15"},
		{Value: "2026-09-16", Label: "2026-09-16"},
	}, got)
}

func TestTimeOptions(t *testing.T) {
	items := NormalizeList(json.RawMessage(`[
		"10:00",
		{"time":"11:30","datetime":"2026-09-15T11:30:00+03:00"},
		{"time":"12:00"},
		{"datetime":"2026-09-15T13:00:00+03:00"}
	]`))

	got := TimeOptions(items)

	assert.Equal(t, []Option{
		{Value: "10:00", Label: "10:00"},
		{Value: "2026-09-15T11:30:00+03:00", Label: "11:30"},
		{Value: "12:00", Label: "12:00"},
	}, got)
}
