package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/payment"
	"github.com/worldmic/seat-service/internal/service"
)

// SignatureHeader carries the provider's event signature.
const SignatureHeader = "Payment-Signature"

// maxEventBytes bounds how much of a delivery body is read.
const maxEventBytes = 1 << 20

// WebhookHandler receives signed completion events from the payment
// provider.  Deliveries are at-least-once: duplicates must be answered
// with 2xx so the provider stops retrying, while store failures must be
// answered with 5xx so it retries later.
type WebhookHandler struct {
	Reconciler *service.Reconciler
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(rec *service.Reconciler) *WebhookHandler {
	if rec == nil {
		panic("nil reconciler passed to NewWebhookHandler")
	}
	return &WebhookHandler{Reconciler: rec}
}

// Receive handles POST /v1/webhooks/payment.
func (h *WebhookHandler) Receive(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxEventBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	sig := c.Request().Header.Get(SignatureHeader)

	res, err := h.Reconciler.Reconcile(c.Request().Context(), raw, sig)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
		}
		if errors.Is(err, service.ErrMalformedEvent) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "event not applied"})
	}
	return c.JSON(http.StatusOK, echo.Map{"received": true, "duplicate": res.Duplicate})
}
