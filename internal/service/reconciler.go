package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/monitoring"
	"github.com/worldmic/seat-service/internal/payment"
	"github.com/worldmic/seat-service/internal/queue"
	"github.com/worldmic/seat-service/internal/repository"
)

// ErrMalformedEvent marks a delivery that authenticated correctly but
// cannot be applied (undecodable payload, non-positive amount, missing
// payment id).  Like a bad signature it is fatal for that event: it is
// rejected without a ledger write and never retried internally.
var ErrMalformedEvent = errors.New("malformed event")

// TransactionStore is the ledger contract the reconciler writes through.
// *repository.TransactionRepo satisfies it.  Append must return
// repository.ErrDuplicate when the external payment id already exists;
// that uniqueness, enforced at the storage layer, is the sole mechanism
// making redelivered events harmless.
type TransactionStore interface {
	Append(ctx context.Context, t *model.Transaction) error
}

// EventPublisher fans out confirmed purchases to the broker.  It is
// optional; a nil publisher disables fan-out.
type EventPublisher interface {
	PublishSeatConfirmed(ctx context.Context, event queue.SeatConfirmedEvent) error
}

// Result reports what a reconciliation did.  A duplicate is a success:
// the delivering provider must see 2xx so it stops retrying.
type Result struct {
	Duplicate        bool
	SeatTransitioned bool
	Transaction      model.Transaction
}

// Reconciler turns signed provider deliveries into ledger entries and
// seat transitions.  Deliveries are at-least-once and may race; the
// ledger's unique index resolves both.
type Reconciler struct {
	ledger    TransactionStore
	seats     *SeatService
	publisher EventPublisher

	secret    string
	tolerance time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewReconciler builds a Reconciler verifying events against the shared
// webhook secret.  publisher may be nil.
func NewReconciler(ledger TransactionStore, seats *SeatService, publisher EventPublisher, secret string, tolerance time.Duration) *Reconciler {
	return &Reconciler{
		ledger:    ledger,
		seats:     seats,
		publisher: publisher,
		secret:    secret,
		tolerance: tolerance,
		now:       time.Now,
	}
}

// Reconcile authenticates, deduplicates and applies one raw delivery.
//
// Error contract: payment.ErrInvalidSignature and ErrMalformedEvent mean
// the event was discarded with no ledger write.  A nil error with
// Result.Duplicate set means the event had already been applied.  Any
// other error is a store problem the caller should surface as a
// non-2xx result so the provider redelivers.
func (r *Reconciler) Reconcile(ctx context.Context, raw []byte, sigHeader string) (Result, error) {
	if err := payment.VerifySignature(raw, sigHeader, r.secret, r.tolerance, r.now()); err != nil {
		monitoring.TrackReconciled("unknown", "rejected")
		return Result{}, err
	}

	ev, err := payment.ParseEvent(raw)
	if err != nil {
		monitoring.TrackReconciled("unknown", "rejected")
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Type != payment.EventCheckoutCompleted {
		// Authenticated but irrelevant; acknowledge so the provider
		// stops redelivering it.
		return Result{}, nil
	}
	sess, err := ev.Session()
	if err != nil {
		monitoring.TrackReconciled("unknown", "rejected")
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	kind := sess.Metadata["kind"]
	if kind == "" {
		kind = model.KindSeatPurchase
	}
	if kind != model.KindSeatPurchase && kind != model.KindTip {
		monitoring.TrackReconciled(kind, "rejected")
		return Result{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedEvent, kind)
	}
	if sess.PaymentID == "" || sess.AmountTotal <= 0 {
		monitoring.TrackReconciled(kind, "rejected")
		return Result{}, fmt.Errorf("%w: missing payment id or non-positive amount", ErrMalformedEvent)
	}

	tx := model.Transaction{
		Kind:              kind,
		AmountCents:       sess.AmountTotal,
		ExternalPaymentID: sess.PaymentID,
	}
	if sess.PayerID != "" {
		payer := sess.PayerID
		tx.PayerID = &payer
	}
	if msg := sess.Metadata["message"]; msg != "" {
		tx.Message = &msg
	}

	if err := r.ledger.Append(ctx, &tx); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			monitoring.TrackReconciled(kind, "duplicate")
			return Result{Duplicate: true}, nil
		}
		monitoring.TrackReconciled(kind, "failed")
		return Result{}, err
	}

	res := Result{Transaction: tx}
	if kind != model.KindSeatPurchase {
		monitoring.TrackReconciled(kind, "applied")
		return res, nil
	}

	name := sess.PayerDisplayName
	if name == "" {
		name = "Anonymous"
	}
	st, err := r.seats.ConfirmPurchase(ctx, sess.PayerID, name)
	if err != nil {
		// The payment is recorded but the seat did not move.  This is an
		// accepted inconsistency window, never silently swallowed: log it
		// for reconciliation and fail the delivery so the provider
		// retries (the retry lands on the duplicate path above).
		log.Printf("reconciler: INCONSISTENCY payment %s recorded but seat transition failed: %v", tx.ExternalPaymentID, err)
		monitoring.TrackReconciled(kind, "failed")
		return res, fmt.Errorf("ledger written but seat transition failed: %w", err)
	}
	res.SeatTransitioned = true
	monitoring.TrackReconciled(kind, "applied")
	monitoring.SetSeatState(st.PriceCents, st.Held())

	if r.publisher != nil {
		pub := queue.SeatConfirmedEvent{
			HolderID:          sess.PayerID,
			HolderName:        name,
			AmountCents:       tx.AmountCents,
			PriceCents:        st.PriceCents,
			HolderCount:       st.HolderCount,
			ExternalPaymentID: tx.ExternalPaymentID,
		}
		if st.StartedAt != nil {
			pub.StartedAt = st.StartedAt.UTC().Format(time.RFC3339)
		}
		if st.ExpiresAt != nil {
			pub.ExpiresAt = st.ExpiresAt.UTC().Format(time.RFC3339)
		}
		if err := r.publisher.PublishSeatConfirmed(ctx, pub); err != nil {
			log.Printf("reconciler: publish seat.confirmed failed: %v", err)
		}
	}
	return res, nil
}
