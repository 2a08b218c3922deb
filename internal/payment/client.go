// Package payment is the boundary to the external payment provider.  The
// provider is a black box that issues a hosted checkout session for a
// given amount and later delivers a signed completion event.  Nothing in
// this package mutates seat or ledger state.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SessionRequest describes the checkout session to create.  Metadata is
// echoed back verbatim inside the completion event; the reservation
// issuer uses it to carry the offer kind and its price/holder-count
// snapshot through the provider.
type SessionRequest struct {
	AmountCents int64
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Session is the provider's handle for a created checkout session.  URL
// is where the client completes payment; ID later reappears as the
// external payment id on the completion event.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to the provider's HTTP API.  Calls carry a bounded
// timeout; failures are returned to the caller rather than retried here.
type Client struct {
	// baseURL is the base url of the provider API.
	baseURL string

	// secretKey authenticates outbound calls.
	secretKey string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a provider client.  The timeout bounds every call.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession asks the provider for a hosted checkout session.  The
// request is form-encoded the way the provider expects; the response is
// reduced to the session id and redirect URL.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Description)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Session{}, fmt.Errorf("create session: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("create session: provider returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, fmt.Errorf("create session: decode: %w", err)
	}
	if s.ID == "" || s.URL == "" {
		return Session{}, fmt.Errorf("create session: incomplete response")
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
