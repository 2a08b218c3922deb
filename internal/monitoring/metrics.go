// Package monitoring exposes Prometheus metrics for the seat auction
// core.  Collectors are registered through promauto at init time and
// served on /metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_reconciled_total",
			Help: "Provider completion events processed, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	offersIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_offers_issued_total",
			Help: "Reservation offers issued, by kind",
		},
		[]string{"kind"},
	)

	seatPriceCents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seat_price_cents",
			Help: "Current seat price in cents",
		},
	)

	seatHeld = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seat_held",
			Help: "1 while the seat has a holder, 0 when vacant",
		},
	)

	chatAdmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_admissions_total",
			Help: "Chat writes checked by the admission limiter, by decision",
		},
		[]string{"decision"},
	)
)

// TrackReconciled records one processed completion event.  Outcome is
// one of applied, duplicate, rejected or failed.
func TrackReconciled(kind, outcome string) {
	paymentsReconciled.WithLabelValues(kind, outcome).Inc()
}

// TrackOfferIssued records one issued reservation offer.
func TrackOfferIssued(kind string) {
	offersIssued.WithLabelValues(kind).Inc()
}

// SetSeatState mirrors the seat projection onto gauges.
func SetSeatState(priceCents int64, held bool) {
	seatPriceCents.Set(float64(priceCents))
	if held {
		seatHeld.Set(1)
	} else {
		seatHeld.Set(0)
	}
}

// TrackChatAdmission records one limiter decision ("allowed"/"denied").
func TrackChatAdmission(decision string) {
	chatAdmissions.WithLabelValues(decision).Inc()
}
