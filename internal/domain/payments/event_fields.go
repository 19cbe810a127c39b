package payments

import (
	"github.com/stripe/stripe-go/v75"
)

// Event types the reconciliation pipeline reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventCheckoutExpired     = "checkout.session.expired"
	EventPaymentIntentOK     = "payment_intent.succeeded"
	EventPaymentIntentFailed = "payment_intent.payment_failed"
)

const (
	kindSession = "session"
	kindIntent  = "intent"
)

// EventFields is the normalized field bag the reconciler works on. It is
// produced either from a typed stripe object or, when typed decoding fails,
// from raw-JSON extraction. Absent fields stay zero-valued.
type EventFields struct {
	EventType string
	Kind      string

	// ID is the checkout session id for session events, the payment intent id
	// for intent events. Empty ID aborts processing of the event.
	ID string

	PaymentIntentID string
	CustomerEmail   string
	PaymentStatus   string
	SessionStatus   string
	Currency        string

	AmountCents int64
	HasAmount   bool

	Created   int64
	ExpiresAt int64

	Metadata map[string]string
}

// AmountEUR is the event amount in euros, or 0 when the event carried none.
func (f EventFields) AmountEUR() float64 {
	if !f.HasAmount {
		return 0
	}
	return CentsToEUR(f.AmountCents)
}

// FieldsFromSession normalizes a typed checkout session event.
func FieldsFromSession(eventType string, s *stripe.CheckoutSession) EventFields {
	f := EventFields{
		EventType:     eventType,
		Kind:          kindSession,
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		SessionStatus: string(s.Status),
		Currency:      string(s.Currency),
		Created:       s.Created,
		ExpiresAt:     s.ExpiresAt,
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		f.PaymentIntentID = s.PaymentIntent.ID
	}
	f.CustomerEmail = s.CustomerEmail
	if f.CustomerEmail == "" && s.CustomerDetails != nil {
		f.CustomerEmail = s.CustomerDetails.Email
	}
	if s.AmountTotal != 0 {
		f.AmountCents = s.AmountTotal
		f.HasAmount = true
	}
	return f
}

// FieldsFromIntent normalizes a typed payment intent event.
func FieldsFromIntent(eventType string, pi *stripe.PaymentIntent) EventFields {
	f := EventFields{
		EventType:       eventType,
		Kind:            kindIntent,
		ID:              pi.ID,
		PaymentIntentID: pi.ID,
		PaymentStatus:   string(pi.Status),
		Currency:        string(pi.Currency),
		Created:         pi.Created,
		CustomerEmail:   pi.ReceiptEmail,
		Metadata:        pi.Metadata,
	}
	if pi.Amount != 0 {
		f.AmountCents = pi.Amount
		f.HasAmount = true
	}
	return f
}

// RefreshEventType maps a freshly retrieved checkout session onto the webhook
// event type the applier would have seen, so a manual refresh runs the exact
// same pipeline. Sessions still open map to "" (nothing to apply).
func RefreshEventType(s *stripe.CheckoutSession) string {
	switch s.Status {
	case stripe.CheckoutSessionStatusComplete:
		return EventCheckoutCompleted
	case stripe.CheckoutSessionStatusExpired:
		return EventCheckoutExpired
	default:
		return ""
	}
}
