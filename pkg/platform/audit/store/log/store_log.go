// Package log records audit events as structured log lines. It is the default
// sink when no broker is configured.
package log

import (
	"context"
	"log/slog"

	audit "contactbook/pkg/platform/audit"
)

type Store struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	s.logger.InfoContext(ctx, "audit",
		"action", event.Action,
		"subject", event.Subject,
		"contact_id", event.ContactID.String(),
		"detail", event.Detail,
		"request_id", event.RequestID,
	)
	return nil
}
