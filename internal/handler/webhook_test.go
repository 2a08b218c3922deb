package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/payment"
	"github.com/worldmic/seat-service/internal/repository"
	"github.com/worldmic/seat-service/internal/service"
)

const webhookTestSecret = "whsec_handler_test"

type memLedger struct {
	seen map[string]bool
	err  error
}

func (m *memLedger) Append(ctx context.Context, t *model.Transaction) error {
	if m.err != nil {
		return m.err
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[t.ExternalPaymentID] {
		return repository.ErrDuplicate
	}
	m.seen[t.ExternalPaymentID] = true
	return nil
}

func newWebhookTestHandler(ledger *memLedger) *WebhookHandler {
	rec := service.NewReconciler(ledger, nil, nil, webhookTestSecret, 5*time.Minute)
	return NewWebhookHandler(rec)
}

func deliver(t *testing.T, h *WebhookHandler, raw []byte, sig string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", bytes.NewReader(raw))
	req.Header.Set(SignatureHeader, sig)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Receive(e.NewContext(req, rec)))
	return rec
}

func signedTip(t *testing.T, paymentID string) ([]byte, string) {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"type": payment.EventCheckoutCompleted,
		"data": map[string]interface{}{
			"payment_id":   paymentID,
			"amount_total": 250,
			"metadata":     map[string]string{"kind": model.KindTip},
		},
	})
	require.NoError(t, err)
	return raw, payment.Sign(raw, webhookTestSecret, time.Now())
}

func TestWebhookAcceptsSignedEvent(t *testing.T) {
	h := newWebhookTestHandler(&memLedger{})
	raw, sig := signedTip(t, "pay_1")

	rec := deliver(t, h, raw, sig)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true,"duplicate":false}`, rec.Body.String())
}

func TestWebhookAcknowledgesDuplicate(t *testing.T) {
	h := newWebhookTestHandler(&memLedger{})
	raw, sig := signedTip(t, "pay_dup")

	deliver(t, h, raw, sig)
	rec := deliver(t, h, raw, sig)
	require.Equal(t, http.StatusOK, rec.Code, "duplicates must be 2xx so the provider stops retrying")
	assert.JSONEq(t, `{"received":true,"duplicate":true}`, rec.Body.String())
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := newWebhookTestHandler(&memLedger{})
	raw, _ := signedTip(t, "pay_2")

	rec := deliver(t, h, raw, "t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRejectsMalformedEvent(t *testing.T) {
	h := newWebhookTestHandler(&memLedger{})
	raw, err := json.Marshal(map[string]interface{}{
		"type": payment.EventCheckoutCompleted,
		"data": map[string]interface{}{"payment_id": "", "amount_total": 0},
	})
	require.NoError(t, err)
	sig := payment.Sign(raw, webhookTestSecret, time.Now())

	rec := deliver(t, h, raw, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookStoreFailureIs5xx(t *testing.T) {
	h := newWebhookTestHandler(&memLedger{err: errors.New("db down")})
	raw, sig := signedTip(t, "pay_3")

	rec := deliver(t, h, raw, sig)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "store failures must be non-2xx so the provider redelivers")
}
