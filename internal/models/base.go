// internal/models/base.go
package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// BaseModel carries the columns every table shares. There is no DeletedAt:
// every delete in the system is a hard delete.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return datatypes.Date(t), nil
}

// ParseOptionalDate is ParseDate for nullable columns.
func ParseOptionalDate(s *string) (*datatypes.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Today is the current UTC date.
func Today() datatypes.Date {
	return DateOf(time.Now())
}

// FormatDate renders a date column as YYYY-MM-DD.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).UTC().Format(DateLayout)
}
