package models

import (
	"strings"

	id "contactbook/pkg/domain"
	dErrors "contactbook/pkg/domain-errors"
)

// Record is one contact in the directory.
//
// Invariants:
//   - Name is non-empty and immutable after construction (it is the directory key)
//   - Phones keep insertion order; duplicates are allowed
//   - Birthday, once set, is never overwritten
//   - Every mutation validates before it changes state
type Record struct {
	id       id.ContactID
	name     string
	phones   []PhoneNumber
	birthday *Birthday
}

// NewRecord creates a contact with no phones and no birthday.
func NewRecord(name string) (*Record, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "contact name cannot be empty")
	}
	return &Record{id: id.NewContactID(), name: name}, nil
}

func (r *Record) ID() id.ContactID {
	return r.id
}

func (r *Record) Name() string {
	return r.name
}

// Phones returns a copy of the phone list.
func (r *Record) Phones() []PhoneNumber {
	return append([]PhoneNumber(nil), r.phones...)
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates raw and appends it.
func (r *Record) AddPhone(raw string) error {
	phone, err := ParsePhoneNumber(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, phone)
	return nil
}

// EditPhone replaces the first phone equal to old with replacement.
// Absent old is a no-op. The replacement is validated before anything changes.
func (r *Record) EditPhone(old, replacement string) error {
	i := r.indexOf(old)
	if i < 0 {
		return nil
	}
	phone, err := ParsePhoneNumber(replacement)
	if err != nil {
		return err
	}
	r.phones[i] = phone
	return nil
}

// RemovePhone deletes the first phone equal to value; absent value is a no-op.
func (r *Record) RemovePhone(value string) {
	i := r.indexOf(value)
	if i < 0 {
		return
	}
	r.phones = append(r.phones[:i], r.phones[i+1:]...)
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (PhoneNumber, bool) {
	i := r.indexOf(value)
	if i < 0 {
		return "", false
	}
	return r.phones[i], true
}

// AddBirthday sets the birthday once.
//
// Errors: CodeBirthdayAlreadySet when a birthday exists (checked before parsing),
// CodeInvalidDateFormat when raw is not DD-MM-YYYY.
func (r *Record) AddBirthday(raw string) error {
	if r.birthday != nil {
		return dErrors.New(dErrors.CodeBirthdayAlreadySet, "birthday already set")
	}
	b, err := ParseBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// DescribeBirthday renders the birthday line used in listings.
func (r *Record) DescribeBirthday() string {
	if r.birthday == nil {
		return "Birthday: not set"
	}
	return "Birthday: " + r.birthday.String()
}

func (r *Record) String() string {
	phones := make([]string, len(r.phones))
	for i, p := range r.phones {
		phones[i] = string(p)
	}
	return "Contact name: " + r.name + ", " + r.DescribeBirthday() + ", phones: " + strings.Join(phones, "; ")
}

// Clone returns a deep copy sharing no mutable state with r.
func (r *Record) Clone() *Record {
	c := &Record{id: r.id, name: r.name, phones: r.Phones()}
	if r.birthday != nil {
		b := *r.birthday
		c.birthday = &b
	}
	return c
}

func (r *Record) indexOf(value string) int {
	for i, p := range r.phones {
		if string(p) == value {
			return i
		}
	}
	return -1
}
