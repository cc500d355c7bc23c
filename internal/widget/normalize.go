package widget

import (
	"encoding/json"
	"strconv"
)

// Option is a single selectable entry in a widget dropdown.
type Option struct {
	Value string
	Label string
}

// NormalizeList accepts the two shapes the upstream API responds with, a
// bare JSON array or an object with a "data" array, and returns the items.
// Anything else normalizes to an empty list.
func NormalizeList(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return nil
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var wrapped struct {
		Data []any `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Data
	}
	return nil
}

// ListOptions converts a normalized item list into dropdown options. The id
// is read from id, staff_id or service_id; the label from title, name or
// label. Items without a usable id are skipped.
func ListOptions(items []any) []Option {
	options := make([]Option, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value := firstString(obj, "id", "staff_id", "service_id")
		if value == "" || value == "0" {
			continue
		}
		label := firstString(obj, "title", "name", "label")
		if label == "" {
			label = value
		}
		options = append(options, Option{Value: value, Label: label})
	}
	return options
}

// DateOptions extracts bookable dates. Items are either plain date strings
// or objects with a date field.
func DateOptions(items []any) []Option {
	options := make([]Option, 0, len(items))
	for _, item := range items {
		var date string
		switch v := item.(type) {
		case string:
			date = v
		case map[string]any:
			date = firstString(v, "date")
		}
		if date == "" {
			continue
		}
		options = append(options, Option{Value: date, Label: date})
	}
	return options
}

// TimeOptions extracts time slots: plain strings or objects with a time
// field, optionally a datetime used as the value.
func TimeOptions(items []any) []Option {
	options := make([]Option, 0, len(items))
	for _, item := range items {
		var label, value string
		switch v := item.(type) {
		case string:
			label, value = v, v
		case map[string]any:
			label = firstString(v, "time")
			value = firstString(v, "datetime")
			if value == "" {
				value = label
			}
		}
		if label == "" {
			continue
		}
		options = append(options, Option{Value: value, Label: label})
	}
	return options
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
