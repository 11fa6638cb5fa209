package audit

import (
	"context"
	"time"

	id "contactbook/pkg/domain"
)

// Event is emitted from the contact service to capture directory changes. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	ContactID id.ContactID `json:"contact_id"`
	// Subject is the contact name the action applied to.
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventContactCreated AuditEvent = "contact_created"
	EventContactDeleted AuditEvent = "contact_deleted"
	EventPhoneAdded     AuditEvent = "phone_added"
	EventPhoneChanged   AuditEvent = "phone_changed"
	EventPhoneRemoved   AuditEvent = "phone_removed"
	EventBirthdaySet    AuditEvent = "birthday_set"
	EventDirectorySaved AuditEvent = "directory_saved"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
