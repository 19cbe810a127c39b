package stripewebhooks

import (
	"encoding/json"

	"conference-backend/internal/domain/payments"
	"conference-backend/internal/infra/logging"

	"github.com/stripe/stripe-go/v75"
)

// intentEventFields decodes a payment_intent.* event, with the same raw-JSON
// fallback as session events.
func intentEventFields(event stripe.Event, payload []byte) payments.EventFields {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil || intent.ID == "" {
		logging.Log.WithField("event_type", string(event.Type)).
			Info("typed intent decode failed, falling back to raw extraction")
		return payments.ExtractEventFields(string(event.Type), payload)
	}
	return payments.FieldsFromIntent(string(event.Type), &intent)
}
