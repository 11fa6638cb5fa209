// Package store holds the persistence gateways for the contact directory.
// Each backend saves and loads a whole models.Snapshot; a backend that has
// never been written to loads as models.EmptySnapshot().
package store

import (
	"encoding/json"
	"fmt"
	"slices"

	"contactbook/internal/contact/models"
	"contactbook/pkg/platform/sentinel"
)

func encodeSnapshot(s models.Snapshot) ([]byte, error) {
	if s.Contacts == nil {
		s.Contacts = []models.ContactSnapshot{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (models.Snapshot, error) {
	if len(data) == 0 {
		return models.EmptySnapshot(), nil
	}
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %w", sentinel.ErrCorrupt, err)
	}
	if s.Contacts == nil {
		s.Contacts = []models.ContactSnapshot{}
	}
	return s, nil
}

func cloneSnapshot(s models.Snapshot) models.Snapshot {
	out := models.Snapshot{Version: s.Version, Contacts: make([]models.ContactSnapshot, len(s.Contacts))}
	for i, c := range s.Contacts {
		c.Phones = slices.Clone(c.Phones)
		out.Contacts[i] = c
	}
	return out
}
