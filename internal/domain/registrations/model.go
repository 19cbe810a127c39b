package registrations

import (
	"time"

	"conference-backend/internal/domain/verticals"
)

// RegistrationForm holds one applicant's submission for a vertical. It is
// created synchronously at checkout time; the payment back-reference is filled
// in later by webhook reconciliation.
type RegistrationForm struct {
	ID       uint               `gorm:"primaryKey" json:"id"`
	Vertical verticals.Vertical `gorm:"type:varchar(20);index;not null" json:"vertical"`

	FullName  string `gorm:"not null" json:"full_name"`
	Email     string `gorm:"index;not null" json:"email"`
	Institute string `json:"institute"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`

	AccommodationOptionID *uint `json:"accommodation_option_id,omitempty"`
	SessionOptionID       *uint `json:"session_option_id,omitempty"`

	// At most one payment per form; the payment side holds the mirror key.
	PaymentID *uint `gorm:"uniqueIndex" json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
