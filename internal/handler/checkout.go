package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/monitoring"
	"github.com/worldmic/seat-service/internal/service"
)

// CheckoutHandler exposes reservation issuance.  Issuing an offer never
// mutates seat state, so failures here have no side effects to undo.
type CheckoutHandler struct {
	Checkout *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	if checkout == nil {
		panic("nil checkout service passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Checkout: checkout}
}

// Buy handles POST /v1/checkout.  The amount is always the pricing
// engine's current value; the request body is ignored on purpose, since
// a client may never choose the seat price.
func (h *CheckoutHandler) Buy(c echo.Context) error {
	offer, err := h.Checkout.IssueSeatPurchase(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not start checkout"})
	}
	monitoring.TrackOfferIssued(model.KindSeatPurchase)
	return c.JSON(http.StatusOK, offer)
}

// Tip handles POST /v1/tip.  The body carries the requested amount
// either as integer cents or as a decimal string of whole currency
// units; both are validated and rounded to cents at this boundary, and
// client-supplied strings are never trusted further down.
func (h *CheckoutHandler) Tip(c echo.Context) error {
	var body struct {
		AmountCents *int64 `json:"amount_cents"`
		Amount      string `json:"amount"`
		Message     string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var amount decimal.Decimal
	switch {
	case body.AmountCents != nil:
		amount = decimal.NewFromInt(*body.AmountCents).Shift(-2)
	case body.Amount != "":
		var err error
		amount, err = decimal.NewFromString(body.Amount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount is required"})
	}

	offer, err := h.Checkout.IssueTip(c.Request().Context(), amount, body.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not start checkout"})
	}
	monitoring.TrackOfferIssued(model.KindTip)
	return c.JSON(http.StatusOK, offer)
}
