package paypalapi

import (
	"net/http"

	"conference-backend/config"
	"conference-backend/database"
	"conference-backend/internal/domain/payments"
	"conference-backend/internal/domain/pricing"
	"conference-backend/internal/domain/verticals"
	"conference-backend/internal/infra/paypal"

	"github.com/gin-gonic/gin"
)

type orderRequest struct {
	PricingConfigID uint   `json:"pricing_config_id"`
	Email           string `json:"email"`
	Currency        string `json:"currency"`
	UnitAmountCents int64  `json:"unit_amount_cents"`
	Quantity        int64  `json:"quantity"`
}

func client() *paypal.Client {
	return paypal.NewClient(config.PAYPAL_API_BASE, config.PAYPAL_CLIENT_ID, config.PAYPAL_CLIENT_SECRET)
}

// CreateOrder creates a PayPal order for a priced package and records the
// PENDING payment. Unlike Stripe checkout the requested currency is passed
// through to the provider.
func CreateOrder(c *gin.Context) {
	vertical, err := verticals.Parse(c.Param("vertical"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}
	if config.PAYPAL_CLIENT_ID == "" || config.PAYPAL_CLIENT_SECRET == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PayPal credentials not configured"})
		return
	}

	var body orderRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid request body"})
		return
	}
	currency := body.Currency
	if currency == "" {
		currency = "EUR"
	}

	var pc pricing.PricingConfig
	if err := database.DB.
		Where("id = ? AND vertical = ? AND active = ?", body.PricingConfigID, vertical, true).
		First(&pc).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown pricing_config_id"})
		return
	}

	quantity := body.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if err := pricing.ValidateChargeAmount(pc.TotalPriceEUR, body.UnitAmountCents, quantity); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	order, err := client().CreateOrder(c.Request.Context(), pc.TotalPriceEUR, currency,
		vertical.DisplayName()+" — "+pc.Name)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "PayPal order creation failed", "details": err.Error()})
		return
	}

	email := body.Email
	record := payments.Payment{
		SessionID:       payments.PayPalSessionPrefix + order.ID,
		CustomerEmail:   &email,
		AmountTotal:     pc.TotalPriceEUR,
		Currency:        currency,
		Status:          payments.StatusPending,
		PaymentStatus:   "unpaid",
		Provider:        payments.ProviderPayPal,
		PricingConfigID: &pc.ID,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":    order.ID,
		"approve_url": order.ApproveURL,
	})
}

// CaptureOrder captures an approved PayPal order and pushes the resulting
// provider status through the same lifecycle pipeline as webhook events.
func CaptureOrder(c *gin.Context) {
	if _, err := verticals.Parse(c.Param("vertical")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}
	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order id"})
		return
	}

	order, err := client().CaptureOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "PayPal capture failed", "details": err.Error()})
		return
	}

	status, paymentStatus := paypal.MapOrderStatus(order.Status)
	record, err := payments.NewReconciler(database.DB).ApplyExternalState(
		payments.PayPalSessionPrefix+order.ID,
		status, paymentStatus,
		order.PayerEmail, order.Amount, order.Currency,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record capture result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       order.ID,
		"provider_state": order.Status,
		"status":         record.Status,
		"payment_status": record.PaymentStatus,
	})
}
