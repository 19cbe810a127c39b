package stripewebhooks

import (
	"io"
	"net/http"

	"conference-backend/config"
	"conference-backend/database"
	"conference-backend/internal/domain/payments"
	"conference-backend/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75/webhook"
)

// StripeWebhook is the single webhook endpoint for every vertical. The event
// is verified and parsed once; discount-vs-regular routing happens downstream
// on session metadata, never by trying handlers until one doesn't fail.
func StripeWebhook(c *gin.Context) {
	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logging.Log.WithError(err).Warn("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	var fields payments.EventFields
	switch string(event.Type) {
	case payments.EventCheckoutCompleted, payments.EventCheckoutExpired:
		fields = sessionEventFields(event, payload)
	case payments.EventPaymentIntentOK, payments.EventPaymentIntentFailed:
		fields = intentEventFields(event, payload)
	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	record, err := payments.NewReconciler(database.DB).ProcessEvent(fields)
	switch {
	case err == payments.ErrMissingEventID:
		logging.Log.WithField("event_type", string(event.Type)).
			Error("event carried no object id, dropped")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event payload missing object id"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case record == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
