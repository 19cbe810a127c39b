package checkout

import (
	"fmt"
	"net/http"

	"conference-backend/config"
	"conference-backend/database"
	"conference-backend/internal/domain/discounts"
	"conference-backend/internal/domain/payments"
	"conference-backend/internal/domain/pricing"
	"conference-backend/internal/domain/verticals"
	stripeinfra "conference-backend/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

type sessionRequest struct {
	PricingConfigID uint   `json:"pricing_config_id"`
	Email           string `json:"email"`
	UnitAmountCents int64  `json:"unit_amount_cents"`
	Quantity        int64  `json:"quantity"`
}

type discountSessionRequest struct {
	sessionRequest
	FullName  string `json:"full_name"`
	Institute string `json:"institute"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// CreateCheckoutSession validates the requested charge against the vertical's
// pricing config, creates the Stripe session (EUR only) and records the
// PENDING payment before the payer is redirected.
func CreateCheckoutSession(c *gin.Context) {
	vertical, err := verticals.Parse(c.Param("vertical"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}

	var body sessionRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid request body"})
		return
	}

	createSession(c, vertical, body, nil)
}

// CreateDiscountSession is the discounted-offer variant: the session carries
// the discount marker in its metadata and a shadow ledger row is seeded
// immediately with the applicant details.
func CreateDiscountSession(c *gin.Context) {
	vertical, err := verticals.Parse(c.Param("vertical"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}

	var body discountSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid request body"})
		return
	}

	createSession(c, vertical, body.sessionRequest, &body)
}

func createSession(c *gin.Context, vertical verticals.Vertical, body sessionRequest, discount *discountSessionRequest) {
	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
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

	metadata := map[string]string{
		"vertical":          vertical.String(),
		"pricing_config_id": fmt.Sprint(pc.ID),
	}
	if discount != nil {
		metadata["source"] = "discount-api"
	}

	appURL := config.APP_URL
	params := &stripe.CheckoutSessionParams{
		SuccessURL:    stripe.String(appURL + "/" + vertical.String() + "/registration/success"),
		CancelURL:     stripe.String(appURL + "/" + vertical.String() + "/registration?canceled=1"),
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(body.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					// Checkout is EUR only; other currencies go through PayPal.
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(body.UnitAmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(vertical.DisplayName() + " — " + pc.Name),
					},
				},
				Quantity: stripe.Int64(quantity),
			},
		},
		Metadata: metadata,
	}

	sc := stripeinfra.NewClient(config.STRIPE_SECRET_KEY)
	s, err := sc.CheckoutSessions.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	email := body.Email
	record := payments.Payment{
		SessionID:       s.ID,
		CustomerEmail:   &email,
		AmountTotal:     pc.TotalPriceEUR,
		Currency:        "EUR",
		Status:          payments.StatusPending,
		PaymentStatus:   "unpaid",
		Provider:        payments.ProviderStripe,
		StripeCreatedAt: payments.UnixToEventTime(s.Created),
		StripeExpiresAt: payments.UnixToEventTime(s.ExpiresAt),
		PricingConfigID: &pc.ID,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store payment"})
		return
	}

	if discount != nil {
		row := discounts.DiscountPayment{
			SessionID:       s.ID,
			CustomerEmail:   &email,
			AmountTotal:     pc.TotalPriceEUR,
			Currency:        "EUR",
			Status:          payments.StatusPending,
			PaymentStatus:   "unpaid",
			StripeCreatedAt: record.StripeCreatedAt,
			StripeExpiresAt: record.StripeExpiresAt,
			FullName:        discount.FullName,
			Institute:       discount.Institute,
			Country:         discount.Country,
			Phone:           discount.Phone,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store discount record"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL, "session_id": s.ID})
}
