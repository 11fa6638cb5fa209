package models

import (
	"sort"
	"time"

	dErrors "contactbook/pkg/domain-errors"
)

// CelebrationWindowDays is the inclusive lookahead used by UpcomingBirthdays.
const CelebrationWindowDays = 7

// Directory is the uniquely-keyed collection of contact records.
//
// Invariants:
//   - Names are unique; Add never replaces an existing record
//   - Iteration follows insertion order
//
// A Directory is not safe for concurrent use; callers serialize access.
type Directory struct {
	records map[string]*Record
	order   []string
}

// Celebration groups the records congratulated on one (weekend-shifted) date.
type Celebration struct {
	Date    time.Time
	Records []*Record
}

func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// Add inserts record under its name.
//
// Errors: CodeDuplicateName if the name is taken, CodeInvalidInput for a nil record.
func (d *Directory) Add(record *Record) error {
	if record == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "record is required")
	}
	if _, ok := d.records[record.name]; ok {
		return dErrors.New(dErrors.CodeDuplicateName, "record name "+record.name+" already set")
	}
	d.records[record.name] = record
	d.order = append(d.order, record.name)
	return nil
}

func (d *Directory) Find(name string) (*Record, bool) {
	r, ok := d.records[name]
	return r, ok
}

// Delete removes name; unknown names are ignored.
func (d *Directory) Delete(name string) {
	if _, ok := d.records[name]; !ok {
		return
	}
	delete(d.records, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// All returns the records in insertion order.
func (d *Directory) All() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.records[name])
	}
	return out
}

func (d *Directory) Len() int {
	return len(d.order)
}

// UpcomingBirthdays returns the birthdays falling within CelebrationWindowDays
// of today (inclusive on both ends), grouped by the date they are celebrated.
//
// The occurrence is always taken in today's year, so the window never wraps
// into the next year. Saturday occurrences move to Monday (+2) and Sunday
// occurrences to Monday (+1); the shift is applied after the window check.
// A 29 February birthday has no occurrence in a non-leap year.
//
// Groups are sorted by date; records inside a group keep directory order.
func (d *Directory) UpcomingBirthdays(today time.Time) []Celebration {
	y, m, day := today.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)

	groups := make(map[time.Time]*Celebration)
	for _, record := range d.All() {
		if record.birthday == nil {
			continue
		}
		candidate, ok := record.birthday.occurrenceIn(y)
		if !ok {
			continue
		}
		delta := daysBetween(start, candidate)
		if delta < 0 || delta > CelebrationWindowDays {
			continue
		}
		celebrated := shiftWeekend(candidate)
		g, ok := groups[celebrated]
		if !ok {
			g = &Celebration{Date: celebrated}
			groups[celebrated] = g
		}
		g.Records = append(g.Records, record)
	}

	out := make([]Celebration, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func shiftWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}
