package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so the contact service can translate them into domain errors.
//
// These represent factual states about persisted data, not validation failures:
// - ErrCorrupt: persisted bytes exist but cannot be decoded into a snapshot
// - ErrUnavailable: backend (database, redis, broker) is not reachable or not configured
//
// For validation errors (bad phone, bad date, duplicate name), use pkg/domain-errors directly.
var (
	ErrCorrupt     = errors.New("corrupt snapshot")
	ErrUnavailable = errors.New("unavailable")
)
