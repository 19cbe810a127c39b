package payments

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Raw-JSON fallback extraction. Stripe event payloads occasionally fail typed
// decoding (API version drift, partially expanded sub-objects); the required
// fields are then pulled straight out of the serialized event with path
// queries. Extraction is best-effort: a missing field stays zero-valued, and
// only a missing object id makes the caller abort the event.

// ExtractEventFields pulls the reconciler's field bag from a full event
// payload. The event type decides which resource shape is expected under
// data.object.
func ExtractEventFields(eventType string, payload []byte) EventFields {
	obj := gjson.GetBytes(payload, "data.object")
	if !obj.Exists() {
		return EventFields{EventType: eventType, Kind: kindFor(eventType)}
	}
	if kindFor(eventType) == kindIntent {
		return extractIntent(eventType, obj)
	}
	return extractSession(eventType, obj)
}

func kindFor(eventType string) string {
	if strings.HasPrefix(eventType, "payment_intent.") {
		return kindIntent
	}
	return kindSession
}

func extractSession(eventType string, obj gjson.Result) EventFields {
	f := EventFields{
		EventType:     eventType,
		Kind:          kindSession,
		ID:            obj.Get("id").String(),
		CustomerEmail: obj.Get("customer_email").String(),
		PaymentStatus: obj.Get("payment_status").String(),
		SessionStatus: obj.Get("status").String(),
		Currency:      obj.Get("currency").String(),
		Created:       obj.Get("created").Int(),
		ExpiresAt:     obj.Get("expires_at").Int(),
	}
	if f.CustomerEmail == "" {
		f.CustomerEmail = obj.Get("customer_details.email").String()
	}

	// payment_intent arrives either as a bare id or as an expanded object.
	pi := obj.Get("payment_intent")
	switch {
	case pi.IsObject():
		f.PaymentIntentID = pi.Get("id").String()
	case pi.Type == gjson.String:
		f.PaymentIntentID = pi.String()
	}

	if amount := obj.Get("amount_total"); amount.Exists() {
		f.AmountCents = amount.Int()
		f.HasAmount = true
	}
	f.Metadata = extractMetadata(obj)
	return f
}

func extractIntent(eventType string, obj gjson.Result) EventFields {
	f := EventFields{
		EventType:     eventType,
		Kind:          kindIntent,
		ID:            obj.Get("id").String(),
		PaymentStatus: obj.Get("status").String(),
		Currency:      obj.Get("currency").String(),
		Created:       obj.Get("created").Int(),
		CustomerEmail: obj.Get("receipt_email").String(),
	}
	f.PaymentIntentID = f.ID
	if amount := obj.Get("amount"); amount.Exists() {
		f.AmountCents = amount.Int()
		f.HasAmount = true
	}
	f.Metadata = extractMetadata(obj)
	return f
}

func extractMetadata(obj gjson.Result) map[string]string {
	md := obj.Get("metadata")
	if !md.IsObject() {
		return nil
	}
	out := make(map[string]string)
	md.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}
