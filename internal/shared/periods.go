package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire form of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date in UTC. It marshals as YYYY-MM-DD and also accepts
// RFC 3339 timestamps, keeping only the date part.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CheckDateRange rejects ranges whose end precedes their start. Zero values
// are treated as unset.
func CheckDateRange(start, end Date) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start.Time) {
		return Invalid("end_date must not be before start_date")
	}
	return nil
}

// Today returns the current UTC calendar date.
func Today(now time.Time) Date {
	return NewDate(now)
}
