// Package service contains the seat auction core: the seat state
// machine, the reservation issuer and the event reconciler.  Services
// accept store interfaces so the core logic is testable without a
// database.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/repository"
)

// SeatStore is the persistence contract for the singleton seat row.
// *repository.SeatStateRepo satisfies it.
type SeatStore interface {
	// Get reads the row, returning repository.ErrSeatNotFound when it
	// has not been seeded.
	Get(ctx context.Context) (model.SeatState, error)
	// Init idempotently seeds the row, recovering the holder count from
	// the ledger.
	Init(ctx context.Context) (model.SeatState, error)
	// Confirm installs a new holder, increments the holder counter and
	// re-derives the price, all atomically, returning the new state.
	Confirm(ctx context.Context, holderID, holderName string, startedAt, expiresAt time.Time) (model.SeatState, error)
	// ClearExpired vacates the seat only while its expiry is at or
	// before cutoff, reporting whether it did.
	ClearExpired(ctx context.Context, cutoff time.Time) (bool, error)
}

// SeatService is the seat state machine: Vacant -> Held -> Vacant.
// A reservation offer never reserves the seat; only a confirmed payment
// does, and the last confirmed payment always wins.  Expiry is lazy: the
// read path itself performs the Vacant transition, so no timer process is
// required (Sweep exists for freshness of idle periods).
type SeatService struct {
	store   SeatStore
	holdFor time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewSeatService builds the state machine with the configured hold
// duration.
func NewSeatService(store SeatStore, holdFor time.Duration) *SeatService {
	return &SeatService{store: store, holdFor: holdFor, now: time.Now}
}

// Current returns the seat state after applying lazy expiry: when the
// stored hold has lapsed, the seat is vacated before the state is
// returned, so callers never observe an expired holder.
func (s *SeatService) Current(ctx context.Context) (model.SeatState, error) {
	st, err := s.load(ctx)
	if err != nil {
		return model.SeatState{}, err
	}
	if !st.ExpiredAt(s.now()) {
		return st, nil
	}
	if _, err := s.store.ClearExpired(ctx, s.now()); err != nil {
		return model.SeatState{}, err
	}
	return s.load(ctx)
}

// ConfirmPurchase moves the seat to the given holder for the configured
// hold duration.  It always succeeds on a healthy store: last confirmed
// payment wins, overwriting any current holder.
func (s *SeatService) ConfirmPurchase(ctx context.Context, holderID, displayName string) (model.SeatState, error) {
	now := s.now()
	st, err := s.store.Confirm(ctx, holderID, displayName, now, now.Add(s.holdFor))
	if errors.Is(err, repository.ErrSeatNotFound) {
		if _, initErr := s.store.Init(ctx); initErr != nil {
			return model.SeatState{}, initErr
		}
		st, err = s.store.Confirm(ctx, holderID, displayName, now, now.Add(s.holdFor))
	}
	return st, err
}

// Sweep vacates the seat if its hold has lapsed.  It is the optional
// periodic complement to lazy read-path expiry.
func (s *SeatService) Sweep(ctx context.Context) (bool, error) {
	return s.store.ClearExpired(ctx, s.now())
}

func (s *SeatService) load(ctx context.Context) (model.SeatState, error) {
	st, err := s.store.Get(ctx)
	if errors.Is(err, repository.ErrSeatNotFound) {
		return s.store.Init(ctx)
	}
	return st, err
}
