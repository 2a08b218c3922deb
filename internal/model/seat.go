package model

import "time"

// SeatState is the singleton row describing who currently holds the mic
// and at what price the seat was last sold.  There is exactly one row
// (id = 1); it is mutated only through the seat service's transition
// operations.
//
// Invariant: ExpiresAt is set if and only if HolderID is set.  A vacant
// seat keeps the PriceCents from the last sale (or the configured base
// price when nothing has ever been sold).
//
// Fields:
//  HolderID    – opaque identity of the current holder (nil when vacant).
//  HolderName  – display name shown to viewers (nil when vacant).
//  PriceCents  – current seat price in integer cents; always > 0.
//  HolderCount – number of seat purchases ever confirmed; feeds pricing.
//  StartedAt   – when the current hold began (nil when vacant).
//  ExpiresAt   – when the current hold lapses (nil when vacant).
type SeatState struct {
	HolderID    *string    // seat_state.holder_id (nullable)
	HolderName  *string    // seat_state.holder_name (nullable)
	PriceCents  int64      // seat_state.price_cents
	HolderCount int64      // seat_state.holder_count
	StartedAt   *time.Time // seat_state.started_at (nullable)
	ExpiresAt   *time.Time // seat_state.expires_at (nullable)
}

// Held reports whether the seat currently has a holder.  It does not
// consider expiry; callers that need expiry-aware reads go through the
// seat service, whose read path performs the lazy vacant transition.
func (s SeatState) Held() bool { return s.HolderID != nil }

// ExpiredAt reports whether the hold has lapsed at the given instant.
// A vacant seat is never expired.
func (s SeatState) ExpiredAt(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
