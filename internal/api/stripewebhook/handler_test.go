package stripewebhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"conference-backend/config"
	"conference-backend/database"
	"conference-backend/internal/domain/discounts"
	"conference-backend/internal/domain/payments"
	"conference-backend/internal/domain/registrations"
)

const testWebhookSecret = "whsec_test_secret"

func setupWebhookTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&payments.Payment{},
		&discounts.DiscountPayment{},
		&registrations.RegistrationForm{},
	))
	database.DB = db
	config.STRIPE_WEBHOOK_SECRET = testWebhookSecret

	r := gin.New()
	r.POST("/webhook/stripe", StripeWebhook)
	return r, db
}

// signPayload builds a Stripe-Signature header the verifier accepts.
func signPayload(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postEvent(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r, db := setupWebhookTest(t)
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)

	w := postEvent(r, payload, "t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&payments.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count, "failed signature must not mutate state")
}

func TestWebhookProcessesCheckoutCompleted(t *testing.T) {
	r, db := setupWebhookTest(t)
	db.Create(&payments.Payment{
		SessionID: "cs_1", AmountTotal: 30.00, Currency: "EUR",
		Status: payments.StatusPending, PaymentStatus: "unpaid",
		Provider: payments.ProviderStripe,
	})

	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_1",
				"object": "checkout.session",
				"payment_intent": "pi_1",
				"payment_status": "paid",
				"status": "complete",
				"currency": "eur",
				"amount_total": 3000
			}
		}
	}`)

	w := postEvent(r, payload, signPayload(payload))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")

	var p payments.Payment
	require.NoError(t, db.Where("session_id = ?", "cs_1").First(&p).Error)
	assert.Equal(t, payments.StatusCompleted, p.Status)
	assert.Equal(t, "paid", p.PaymentStatus)
	require.NotNil(t, p.PaymentIntentID)
	assert.Equal(t, "pi_1", *p.PaymentIntentID)
}

func TestWebhookIgnoresUnknownEventType(t *testing.T) {
	r, _ := setupWebhookTest(t)
	payload := []byte(`{"id":"evt_2","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)

	w := postEvent(r, payload, signPayload(payload))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}
