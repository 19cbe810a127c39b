package admin

import (
	"net/http"
	"time"

	"conference-backend/config"
	"conference-backend/database"
	"conference-backend/internal/domain/discounts"
	"conference-backend/internal/domain/payments"
	stripeinfra "conference-backend/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

type AdminPayment struct {
	ID              uint    `json:"id"`
	SessionID       string  `json:"session_id"`
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
	Email           *string `json:"email,omitempty"`
	AmountEUR       float64 `json:"amount_eur"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	Provider        string  `json:"provider"`
	PricingConfig   *string `json:"pricing_config,omitempty"`
	LinkedFormID    *uint   `json:"linked_form_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type AdminStats struct {
	TotalPayments   int64   `json:"total_payments"`
	CompletedCount  int64   `json:"completed_count"`
	PendingCount    int64   `json:"pending_count"`
	TotalRevenueEUR float64 `json:"total_revenue_eur"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats
	database.DB.Model(&payments.Payment{}).Count(&stats.TotalPayments)
	database.DB.Model(&payments.Payment{}).Where("status = ?", payments.StatusCompleted).Count(&stats.CompletedCount)
	database.DB.Model(&payments.Payment{}).Where("status = ?", payments.StatusPending).Count(&stats.PendingCount)
	database.DB.Model(&payments.Payment{}).Where("status = ?", payments.StatusCompleted).
		Select("COALESCE(SUM(amount_total), 0)").Scan(&stats.TotalRevenueEUR)
	c.JSON(http.StatusOK, stats)
}

func ListAllPayments(c *gin.Context) {
	var rows []payments.Payment
	if err := database.DB.
		Preload("PricingConfig").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	out := make([]AdminPayment, 0, len(rows))
	for _, p := range rows {
		entry := AdminPayment{
			ID:              p.ID,
			SessionID:       p.SessionID,
			PaymentIntentID: p.PaymentIntentID,
			Email:           p.CustomerEmail,
			AmountEUR:       p.AmountTotal,
			Currency:        p.Currency,
			Status:          p.Status,
			PaymentStatus:   p.PaymentStatus,
			Provider:        p.Provider,
			LinkedFormID:    p.RegistrationFormID,
			CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		}
		if p.PricingConfig != nil {
			name := p.PricingConfig.Name
			entry.PricingConfig = &name
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

func ListDiscountPayments(c *gin.Context) {
	var rows []discounts.DiscountPayment
	if err := database.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load discount payments"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// RefreshPayment re-fetches the checkout session from Stripe and pushes the
// current provider state through the same pipeline the webhook path uses.
// Pull-based equivalent for deliveries that never arrived.
func RefreshPayment(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session id"})
		return
	}
	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	sc := stripeinfra.NewClient(config.STRIPE_SECRET_KEY)
	session, err := sc.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve session from Stripe", "details": err.Error()})
		return
	}

	eventType := payments.RefreshEventType(session)
	if eventType == "" {
		c.JSON(http.StatusOK, gin.H{"status": "unchanged", "provider_state": string(session.Status)})
		return
	}

	record, err := payments.NewReconciler(database.DB).
		ProcessEvent(payments.FieldsFromSession(eventType, session))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         record.Status,
		"payment_status": record.PaymentStatus,
		"session_id":     record.SessionID,
	})
}

// SweepExpiredPayments flips stale PENDING rows past their provider expiry to
// EXPIRED and reports how many changed.
func SweepExpiredPayments(c *gin.Context) {
	count, err := payments.NewReconciler(database.DB).SweepExpired()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": count})
}
