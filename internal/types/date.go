package types

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-day format used everywhere in the saved document.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. The zero value means "never"
// and is serialized as JSON null.
type Date string

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

// Time parses the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// AddDays returns the date n days later (or earlier for negative n).
// An unparsable date is returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than o. ISO dates order lexically.
func (d Date) Before(o Date) bool {
	return d < o
}

func (d Date) String() string {
	return string(d)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = Date(s)
	return nil
}
