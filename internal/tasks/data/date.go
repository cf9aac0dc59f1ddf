package data

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day. It marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Backends commonly send full timestamps; only the date part matters.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive range of dates. A zero bound is open.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// ParseDateRange parses "start..end"; either side may be empty.
// A single date is treated as a one-day range.
func ParseDateRange(s string) (DateRange, error) {
	if s == "" {
		return DateRange{}, nil
	}
	var startStr, endStr string
	if i := strings.Index(s, ".."); i >= 0 {
		startStr, endStr = s[:i], s[i+2:]
	} else {
		startStr, endStr = s, s
	}

	var r DateRange
	var err error
	if startStr != "" {
		if r.Start, err = ParseDate(startStr); err != nil {
			return DateRange{}, err
		}
	}
	if endStr != "" {
		if r.End, err = ParseDate(endStr); err != nil {
			return DateRange{}, err
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("invalid range %q: end before start", s)
	}
	return r, nil
}
