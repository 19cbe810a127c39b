package discounts

import "time"

// DiscountPayment is the shadow ledger row for a payment that originated from
// the discount checkout flow. It shares the Stripe session ID with the primary
// payment row but is deliberately not a foreign key: the payments side pushes
// its state onto this row on every update it classifies as a discount payment.
type DiscountPayment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"uniqueIndex;not null" json:"session_id"`

	CustomerEmail   *string `json:"customer_email,omitempty"`
	AmountTotal     float64 `json:"amount_total"`
	Currency        string  `json:"currency"`
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`

	StripeCreatedAt *time.Time `json:"stripe_created_at,omitempty"`
	StripeExpiresAt *time.Time `json:"stripe_expires_at,omitempty"`

	// Request metadata captured when the discount session was requested.
	FullName  string `json:"full_name"`
	Institute string `json:"institute"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
