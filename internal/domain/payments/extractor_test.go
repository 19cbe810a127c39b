package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSessionFields(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				"customer_email": "payer@example.org",
				"payment_intent": "pi_123",
				"payment_status": "paid",
				"status": "complete",
				"currency": "eur",
				"amount_total": 4500,
				"created": 1700000000,
				"expires_at": 1700086400,
				"metadata": {"source": "discount-api", "vertical": "nursing"}
			}
		}
	}`)

	f := ExtractEventFields(EventCheckoutCompleted, payload)
	assert.Equal(t, "cs_test_123", f.ID)
	assert.Equal(t, "payer@example.org", f.CustomerEmail)
	assert.Equal(t, "pi_123", f.PaymentIntentID)
	assert.Equal(t, "paid", f.PaymentStatus)
	assert.Equal(t, "complete", f.SessionStatus)
	assert.Equal(t, "eur", f.Currency)
	assert.True(t, f.HasAmount)
	assert.Equal(t, int64(4500), f.AmountCents)
	assert.Equal(t, int64(1700000000), f.Created)
	assert.Equal(t, "discount-api", f.Metadata["source"])
}

func TestExtractSessionFieldsExpandedIntent(t *testing.T) {
	payload := []byte(`{
		"data": {
			"object": {
				"id": "cs_1",
				"payment_intent": {"id": "pi_exp", "object": "payment_intent"},
				"customer_details": {"email": "nested@example.org"}
			}
		}
	}`)

	f := ExtractEventFields(EventCheckoutCompleted, payload)
	assert.Equal(t, "cs_1", f.ID)
	assert.Equal(t, "pi_exp", f.PaymentIntentID)
	assert.Equal(t, "nested@example.org", f.CustomerEmail)
	assert.False(t, f.HasAmount)
}

func TestExtractIntentFields(t *testing.T) {
	payload := []byte(`{
		"data": {
			"object": {
				"id": "pi_55",
				"object": "payment_intent",
				"status": "succeeded",
				"amount": 1000,
				"currency": "eur"
			}
		}
	}`)

	f := ExtractEventFields(EventPaymentIntentOK, payload)
	assert.Equal(t, "pi_55", f.ID)
	assert.Equal(t, "pi_55", f.PaymentIntentID)
	assert.Equal(t, "succeeded", f.PaymentStatus)
	assert.True(t, f.HasAmount)
	assert.Equal(t, int64(1000), f.AmountCents)
}

func TestExtractToleratesMissingData(t *testing.T) {
	f := ExtractEventFields(EventCheckoutCompleted, []byte(`{"type": "checkout.session.completed"}`))
	assert.Empty(t, f.ID)
	assert.Empty(t, f.CustomerEmail)
	assert.False(t, f.HasAmount)

	f = ExtractEventFields(EventCheckoutCompleted, []byte(`not json at all`))
	assert.Empty(t, f.ID)
}

func TestCentsToEUR(t *testing.T) {
	assert.Equal(t, 45.00, CentsToEUR(4500))
	assert.Equal(t, 30.00, CentsToEUR(3000))
	assert.Equal(t, 10.00, CentsToEUR(1000))
	assert.Equal(t, 0.01, CentsToEUR(1))
}
