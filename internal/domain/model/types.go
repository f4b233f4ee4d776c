// Package model holds the data shapes exchanged with the OptiTrack API and rendered by the UI.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// localLayouts are the timestamp forms the API emits: zone-less local date-times,
// with or without fractional seconds, and RFC 3339 for anything already zoned.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// LocalTime is a date-time without a zone, interpreted in the server's local zone.
type LocalTime struct {
	time.Time
}

// ParseLocalTime parses an API timestamp.
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("parse timestamp %q: unsupported format", s)
}

// UnmarshalJSON accepts a string timestamp or null.
func (t *LocalTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = LocalTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the zone-less form the API expects.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}

// Date is a calendar date ("2006-01-02").
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// UnmarshalJSON accepts "2006-01-02" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes "2006-01-02" or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// Hours is a decimal hour count. The API sends it as a number or a preformatted string.
type Hours float64

// UnmarshalJSON accepts 7.5, "7.50" or null.
func (h *Hours) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*h = 0
		return nil
	}
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" {
		*h = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("hours %q: %w", raw, err)
	}
	*h = Hours(v)
	return nil
}

func (h Hours) String() string { return strconv.FormatFloat(float64(h), 'f', 2, 64) }
