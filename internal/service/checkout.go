package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/payment"
	"github.com/worldmic/seat-service/internal/utils"
)

// ErrInvalidAmount rejects a tip whose requested amount is not positive
// after rounding to cents.  Amounts that are positive but outside the
// configured bounds are clamped, not rejected.
var ErrInvalidAmount = errors.New("invalid amount")

// PaymentClient creates checkout sessions at the external provider.
// *payment.Client satisfies it.
type PaymentClient interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error)
}

// Offer is a price-locked reservation: an unpersisted intent to pay,
// backed by an external checkout session.  Issuing an offer does not
// hold the seat; many offers may be outstanding and only the first one
// whose payment is confirmed wins.  The snapshots exist so the price
// cannot silently drift between issuance and payment; they travel to the
// provider as session metadata, not as any internal lock.
type Offer struct {
	Kind                string `json:"kind"`
	LockedPriceCents    int64  `json:"locked_price_cents"`
	HolderCountSnapshot int64  `json:"holder_count_snapshot"`
	SessionID           string `json:"session_id"`
	SessionURL          string `json:"url"`
}

// CheckoutService is the reservation issuer.  It only reads shared
// state; nothing here mutates the seat or the ledger.
type CheckoutService struct {
	seats   *SeatService
	pay     PaymentClient
	siteURL string

	tipMinCents int64
	tipMaxCents int64
	maxMessage  int
}

// NewCheckoutService builds the issuer.  siteURL is the public origin
// used for the provider's redirect URLs.
func NewCheckoutService(seats *SeatService, pay PaymentClient, siteURL string, tipMinCents, tipMaxCents int64) *CheckoutService {
	return &CheckoutService{
		seats:       seats,
		pay:         pay,
		siteURL:     siteURL,
		tipMinCents: tipMinCents,
		tipMaxCents: tipMaxCents,
		maxMessage:  200,
	}
}

// IssueSeatPurchase snapshots the current price and asks the provider
// for a checkout session at exactly that amount.  The caller never
// chooses the price; it is always re-derived server-side.
func (s *CheckoutService) IssueSeatPurchase(ctx context.Context) (Offer, error) {
	st, err := s.seats.Current(ctx)
	if err != nil {
		return Offer{}, err
	}

	sess, err := s.pay.CreateSession(ctx, payment.SessionRequest{
		AmountCents: st.PriceCents,
		Description: fmt.Sprintf("Mic Seat (%d minutes)", int(s.seats.holdFor.Minutes())),
		SuccessURL:  s.siteURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.siteURL + "/pricing",
		Metadata: map[string]string{
			"kind":               model.KindSeatPurchase,
			"locked_price_cents": strconv.FormatInt(st.PriceCents, 10),
			"holder_count":       strconv.FormatInt(st.HolderCount, 10),
		},
	})
	if err != nil {
		return Offer{}, err
	}
	return Offer{
		Kind:                model.KindSeatPurchase,
		LockedPriceCents:    st.PriceCents,
		HolderCountSnapshot: st.HolderCount,
		SessionID:           sess.ID,
		SessionURL:          sess.URL,
	}, nil
}

// IssueTip creates a checkout session for a tip to the current holder.
// The amount is rounded to integer cents and clamped to the configured
// bounds; a zero or negative amount is rejected with ErrInvalidAmount.
// Tips never affect the seat price, so the snapshot fields carry the
// clamped tip amount itself.
func (s *CheckoutService) IssueTip(ctx context.Context, amount decimal.Decimal, message string) (Offer, error) {
	cents := amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return Offer{}, ErrInvalidAmount
	}
	if cents < s.tipMinCents {
		cents = s.tipMinCents
	}
	if cents > s.tipMaxCents {
		cents = s.tipMaxCents
	}
	message = utils.TruncateRunes(message, s.maxMessage)

	st, err := s.seats.Current(ctx)
	if err != nil {
		return Offer{}, err
	}

	sess, err := s.pay.CreateSession(ctx, payment.SessionRequest{
		AmountCents: cents,
		Description: "Tip for the Mic Holder",
		SuccessURL:  s.siteURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.siteURL + "/pricing",
		Metadata: map[string]string{
			"kind":    model.KindTip,
			"message": message,
		},
	})
	if err != nil {
		return Offer{}, err
	}
	return Offer{
		Kind:                model.KindTip,
		LockedPriceCents:    cents,
		HolderCountSnapshot: st.HolderCount,
		SessionID:           sess.ID,
		SessionURL:          sess.URL,
	}, nil
}
