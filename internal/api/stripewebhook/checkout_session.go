package stripewebhooks

import (
	"encoding/json"

	"conference-backend/internal/domain/payments"
	"conference-backend/internal/infra/logging"

	"github.com/stripe/stripe-go/v75"
)

// sessionEventFields decodes a checkout.session.* event. Typed decoding of
// event.Data.Raw is preferred; when it fails or yields no session id the
// required fields are extracted from the raw event JSON instead.
func sessionEventFields(event stripe.Event, payload []byte) payments.EventFields {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil || session.ID == "" {
		logging.Log.WithField("event_type", string(event.Type)).
			Info("typed session decode failed, falling back to raw extraction")
		return payments.ExtractEventFields(string(event.Type), payload)
	}
	return payments.FieldsFromSession(string(event.Type), &session)
}
