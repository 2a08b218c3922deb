package model

import "time"

// Transaction kinds.  SeatPurchase entries move the seat to a new holder;
// tips never touch seat state.
const (
	KindSeatPurchase = "seat_purchase"
	KindTip          = "tip"
)

// Transaction is one completed monetary event in the append-only ledger.
// Rows are created only by the event reconciler and are never updated or
// deleted.  ExternalPaymentID carries a unique index; it is the
// idempotency key that makes redelivered provider events harmless.
//
// Fields:
//  ID                – primary key, monotonic.
//  Kind              – seat_purchase or tip.
//  PayerID           – opaque payer identity (nullable; providers may omit it).
//  AmountCents       – amount paid in integer cents; always > 0.
//  ExternalPaymentID – provider-side payment/session id, unique.
//  Message           – optional message attached by the payer (tips).
//  CreatedAt         – insertion timestamp.
type Transaction struct {
	ID                uint64    // transactions.id
	Kind              string    // transactions.kind
	PayerID           *string   // transactions.payer_id (nullable)
	AmountCents       int64     // transactions.amount_cents
	ExternalPaymentID string    // transactions.external_payment_id
	Message           *string   // transactions.message (nullable)
	CreatedAt         time.Time // transactions.created_at
}
