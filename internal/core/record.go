package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time component. The zero value means
	// "unset"; the store substitutes the current local date on create.
	Date struct {
		time.Time
	}

	// Record is one durable expense entry. ID is assigned by the store on
	// create and never changes or gets recycled afterwards. Note is optional:
	// the empty string means absent and is persisted as NULL.
	Record struct {
		ID       int64
		Amount   Money
		Category string
		Note     string
		Date     Date
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidDate        = errors.New("invalid date")
	ErrNotFound           = errors.New("record not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, the persisted representation.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewRecord normalizes raw input into a Record: category and note are
// trimmed, and a note that is blank after trimming becomes absent. The
// result still needs Validate before it may reach storage.
func NewRecord(amount Money, category, note string, date Date) Record {
	return Record{
		Amount:   amount,
		Category: strings.TrimSpace(category),
		Note:     strings.TrimSpace(note),
		Date:     date,
	}
}

// Validate checks the data-model invariants. Stores call this defensively
// before every insert or update so invalid state never persists.
func (r Record) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
