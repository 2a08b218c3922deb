// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// SeatConfirmedEvent is published when a paid seat purchase has been
// reconciled and the seat handed to a new holder.  It carries enough for
// downstream consumers to log, notify, or feed analytics without
// querying the primary database.
type SeatConfirmedEvent struct {
	HolderID          string `json:"holder_id"`
	HolderName        string `json:"holder_name"`
	AmountCents       int64  `json:"amount_cents"`
	PriceCents        int64  `json:"price_cents"`
	HolderCount       int64  `json:"holder_count"`
	ExternalPaymentID string `json:"external_payment_id"`
	StartedAt         string `json:"started_at"`
	ExpiresAt         string `json:"expires_at"`
}

// seatQueueName is the durable queue both the publisher and the consumer
// declare.
const seatQueueName = "seat.confirmed"
