// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reconciler and handlers to distinguish between failure scenarios
// without inspecting driver-specific errors.
package repository

import "errors"

// ErrSeatNotFound is returned when the singleton seat row has not been
// seeded yet. Callers recover by running the cold-start initialization.
var ErrSeatNotFound = errors.New("seat state not found")

// ErrDuplicate is returned when a ledger insert collides with the unique
// index on external_payment_id. It marks a redelivered provider event:
// a benign, idempotent no-op rather than a failure.
var ErrDuplicate = errors.New("duplicate external payment id")
