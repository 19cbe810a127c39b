package payments

import (
	"time"

	"conference-backend/internal/domain/pricing"
	"conference-backend/internal/domain/registrations"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusExpired   = "EXPIRED"
)

const (
	ProviderStripe = "STRIPE"
	ProviderPayPal = "PAYPAL"
)

// PayPalSessionPrefix marks PayPal order IDs stored in the Stripe-shaped
// session_id column.
const PayPalSessionPrefix = "PAYPAL_"

// Payment is one checkout attempt. Rows are created PENDING before the payer
// is redirected to the provider and are never hard-deleted; webhooks, manual
// refreshes and the stale sweep advance the status.
type Payment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"uniqueIndex;not null" json:"session_id"`

	PaymentIntentID *string `gorm:"index" json:"payment_intent_id,omitempty"`
	CustomerEmail   *string `json:"customer_email,omitempty"`

	// Euros, never cents. Provider cent amounts are divided by 100 at the
	// boundary.
	AmountTotal float64 `json:"amount_total"`
	Currency    string  `gorm:"type:varchar(8)" json:"currency"`

	Status        string `gorm:"type:varchar(12);index;default:'PENDING'" json:"status"`
	PaymentStatus string `gorm:"type:varchar(32)" json:"payment_status"`
	Provider      string `gorm:"type:varchar(10);default:'STRIPE'" json:"provider"`

	StripeCreatedAt *time.Time `json:"stripe_created_at,omitempty"`
	StripeExpiresAt *time.Time `json:"stripe_expires_at,omitempty"`

	PricingConfigID *uint                  `json:"pricing_config_id,omitempty"`
	PricingConfig   *pricing.PricingConfig `json:"pricing_config,omitempty"`

	RegistrationFormID *uint                           `gorm:"uniqueIndex" json:"registration_form_id,omitempty"`
	RegistrationForm   *registrations.RegistrationForm `json:"registration_form,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the record has left the PENDING state. Terminal
// states are sticky: a late conflicting event is logged, never applied.
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed || p.Status == StatusExpired
}

// eventZone is the fixed reference zone for provider timestamps.
var eventZone = loadEventZone()

func loadEventZone() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.UTC
	}
	return loc
}

// UnixToEventTime converts a provider Unix timestamp to the reference zone.
// Zero timestamps map to nil.
func UnixToEventTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).In(eventZone)
	return &t
}

// CentsToEUR converts a provider minor-unit amount to euros.
func CentsToEUR(cents int64) float64 {
	return float64(cents) / 100
}
