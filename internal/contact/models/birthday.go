package models

import (
	"time"

	dErrors "contactbook/pkg/domain-errors"
)

// DateLayout is the only accepted textual form of a birthday (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Birthday is a calendar date parsed from DateLayout.
// Invariant: always a real date (no 31-04, no 29-02 outside leap years).
type Birthday struct {
	date time.Time
}

// ParseBirthday parses s strictly as DD-MM-YYYY.
//
// Errors: returns CodeInvalidDateFormat stating the expected layout.
func ParseBirthday(s string) (Birthday, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Birthday{}, dErrors.New(dErrors.CodeInvalidDateFormat, "invalid date format. Use DD-MM-YYYY")
	}
	return Birthday{date: t}, nil
}

func (b Birthday) Day() int {
	return b.date.Day()
}

func (b Birthday) Month() time.Month {
	return b.date.Month()
}

func (b Birthday) Year() int {
	return b.date.Year()
}

// String returns the DD-MM-YYYY form.
func (b Birthday) String() string {
	return b.date.Format(DateLayout)
}

// occurrenceIn returns the birthday's date in year at midnight UTC. ok is false
// for 29 February when year is not a leap year.
func (b Birthday) occurrenceIn(year int) (time.Time, bool) {
	t := time.Date(year, b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	if t.Month() != b.Month() {
		return time.Time{}, false
	}
	return t, true
}
