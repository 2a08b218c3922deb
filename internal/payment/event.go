package payment

import "encoding/json"

// EventCheckoutCompleted is the only event type the reconciler acts on.
// Everything else is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is the envelope of an inbound provider delivery.  Deliveries are
// at-least-once; the reconciler deduplicates on the payment id.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CompletedSession carries the fields of a finished checkout session that
// the reconciler cares about.  Metadata round-trips whatever the
// reservation issuer attached when the session was created.
type CompletedSession struct {
	PaymentID        string            `json:"payment_id"`
	AmountTotal      int64             `json:"amount_total"`
	PayerID          string            `json:"payer_id"`
	PayerDisplayName string            `json:"payer_display_name"`
	Metadata         map[string]string `json:"metadata"`
}

// ParseEvent decodes a raw delivery into its envelope.
func ParseEvent(raw []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(raw, &e)
	return e, err
}

// Session decodes the completed-session payload out of the envelope.
func (e Event) Session() (CompletedSession, error) {
	var s CompletedSession
	err := json.Unmarshal(e.Data, &s)
	return s, err
}
