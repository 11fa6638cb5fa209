package models

import (
	"fmt"

	id "contactbook/pkg/domain"
	dErrors "contactbook/pkg/domain-errors"
)

// SnapshotVersion is written into every snapshot; Restore rejects other versions.
const SnapshotVersion = 1

// Snapshot is the complete persisted state of one Directory.
type Snapshot struct {
	Version  int               `json:"version"`
	Contacts []ContactSnapshot `json:"contacts"`
}

// ContactSnapshot is the persisted form of one Record.
type ContactSnapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday,omitempty"`
}

// EmptySnapshot is what gateways return when nothing was ever saved.
func EmptySnapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, Contacts: []ContactSnapshot{}}
}

// Snapshot captures the directory in insertion order.
func (d *Directory) Snapshot() Snapshot {
	s := Snapshot{Version: SnapshotVersion, Contacts: make([]ContactSnapshot, 0, d.Len())}
	for _, r := range d.All() {
		c := ContactSnapshot{
			ID:     r.id.String(),
			Name:   r.name,
			Phones: make([]string, len(r.phones)),
		}
		for i, p := range r.phones {
			c.Phones[i] = string(p)
		}
		if r.birthday != nil {
			c.Birthday = r.birthday.String()
		}
		s.Contacts = append(s.Contacts, c)
	}
	return s
}

// RestoreDirectory rebuilds a Directory from a snapshot, re-validating every
// field and re-applying name uniqueness. A zero Version is read as the current one.
func RestoreDirectory(s Snapshot) (*Directory, error) {
	if s.Version != 0 && s.Version != SnapshotVersion {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported snapshot version %d", s.Version))
	}
	d := NewDirectory()
	for i, c := range s.Contacts {
		r, err := restoreRecord(c)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("snapshot contact %d", i))
		}
		if err := d.Add(r); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("snapshot contact %d", i))
		}
	}
	return d, nil
}

func restoreRecord(c ContactSnapshot) (*Record, error) {
	r, err := NewRecord(c.Name)
	if err != nil {
		return nil, err
	}
	if c.ID != "" {
		contactID, err := id.ParseContactID(c.ID)
		if err != nil {
			return nil, err
		}
		r.id = contactID
	}
	for _, p := range c.Phones {
		if err := r.AddPhone(p); err != nil {
			return nil, err
		}
	}
	if c.Birthday != "" {
		if err := r.AddBirthday(c.Birthday); err != nil {
			return nil, err
		}
	}
	return r, nil
}
