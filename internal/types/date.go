// Package types implements special types for Budgetnest.
package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date is a calendar day. The time of day is always midnight UTC so that
// date arithmetic is not sensitive to clock times or time zones.
type Date time.Time

// NewDate returns a new Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the Date on which a time instant occurs, in UTC.
func DateOf(t time.Time) Date {
	year, month, day := t.UTC().Date()
	return NewDate(year, month, day)
}

// ParseDate parses a string in "YYYY-MM-DD" or RFC3339 format and returns
// the Date it represents.
func ParseDate(s string) (Date, error) {
	match, err := regexp.MatchString("^[0-9]{4}-[0-9]{2}-[0-9]{2}$", s)
	if err != nil {
		return Date{}, err
	}

	pattern := "2006-01-02T15:04:05Z07:00"
	if match {
		pattern = "2006-01-02"
	}

	t, err := time.Parse(pattern, s)
	if err != nil {
		return Date{}, err
	}

	return DateOf(t), nil
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The date is expected to be a string in a format accepted by ParseDate.
// From the parsed string, the time of day is ignored.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`) // get rid of "
	if value == "" || value == "null" {
		return nil
	}

	date, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = date
	return nil
}

// Scan writes the value from the database.
func (d *Date) Scan(value interface{}) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*d = DateOf(nullTime.Time)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Date) Value() (driver.Value, error) {
	year, month, day := time.Time(d).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Date) GormDataType() string {
	return "date"
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// AddDays adds a number of days, which may be negative.
func (d Date) AddDays(days int) Date {
	return DateOf(time.Time(d).AddDate(0, 0, days))
}

// DaysUntil returns the number of whole calendar days from d to e.
// It is negative when e is before d and zero when both are the same day.
func (d Date) DaysUntil(e Date) int {
	return int(time.Time(e).Sub(time.Time(d)).Hours() / 24)
}

// Before reports whether the date d is before e.
func (d Date) Before(e Date) bool {
	return time.Time(d).Before(time.Time(e))
}

// After reports whether the date d is after e.
func (d Date) After(e Date) bool {
	return time.Time(d).After(time.Time(e))
}

// Equal reports whether d and e represent the same day.
func (d Date) Equal(e Date) bool {
	return time.Time(d).Equal(time.Time(e))
}
