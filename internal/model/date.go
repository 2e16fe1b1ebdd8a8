package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISODateLayout is the yyyy-MM-dd form accepted from order forms and used
	// as statistics keys.
	ISODateLayout = "2006-01-02"
	// OrderDateLayout is the dd-MM-yyyy form orders are serialized with.
	OrderDateLayout = "02-01-2006"
)

// Date is a calendar date without time of day, in UTC.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseISODate parses a yyyy-MM-dd string.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, NewValidationError(ErrCodeInvalidDate, fmt.Sprintf("order date %q must be in yyyy-MM-dd format", s))
	}
	return DateOf(t), nil
}

// ISO returns the date in yyyy-MM-dd form.
func (d Date) ISO() string {
	return d.Format(ISODateLayout)
}

// String returns the date in dd-MM-yyyy form.
func (d Date) String() string {
	return d.Format(OrderDateLayout)
}

// MarshalJSON encodes the date as "dd-MM-yyyy".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "dd-MM-yyyy" date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(OrderDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid order date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}
