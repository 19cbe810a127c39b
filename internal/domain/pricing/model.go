package pricing

import (
	"time"

	"conference-backend/internal/domain/verticals"
)

// PricingConfig is one priced registration package for a vertical. Checkout
// amounts must match TotalPriceEUR exactly before a session is created.
type PricingConfig struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Vertical      verticals.Vertical `gorm:"type:varchar(20);index;not null" json:"vertical"`
	Name          string             `gorm:"not null" json:"name"`
	TotalPriceEUR float64            `gorm:"not null" json:"total_price_eur"`
	Active        bool               `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalCents is the Stripe unit amount for this package. Prices are stored in
// euros; cent conversion happens only at the provider boundary.
func (p *PricingConfig) TotalCents() int64 {
	return int64(p.TotalPriceEUR*100 + 0.5)
}
