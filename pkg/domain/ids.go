// Package domain holds identifier primitives shared across bounded contexts.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "contactbook/pkg/domain-errors"
)

// ContactID identifies a contact record independently of its (user-chosen) name.
// It survives save/load round-trips so external references stay stable.
//
// Usage: construct via NewContactID for fresh records and ParseContactID at
// trust boundaries (snapshots, URLs); direct conversion bypasses validation.
type ContactID uuid.UUID

// NewContactID returns a random, non-nil contact ID.
func NewContactID() ContactID {
	return ContactID(uuid.New())
}

// ParseContactID constructs a ContactID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseContactID(s string) (ContactID, error) {
	u, err := parseUUID(s, "contact ID")
	if err != nil {
		return ContactID{}, err
	}
	return ContactID(u), nil
}

func (id ContactID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id ContactID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText encodes the ID in canonical UUID form.
func (id ContactID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText decodes a UUID. The nil UUID is accepted so zero values round-trip;
// use ParseContactID where a present ID is required.
func (id *ContactID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid contact ID: "+string(data))
	}
	*id = ContactID(u)
	return nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid %s: %s", label, s))
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
