package verticals

import "time"

// Named is implemented by every selectable option entity so admin tooling can
// rename options without caring about the concrete type.
type Named interface {
	GetDisplayName() string
	SetDisplayName(name string)
}

// AccommodationOption is a bookable hotel/room package offered by a vertical.
type AccommodationOption struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Vertical    Vertical `gorm:"type:varchar(20);index;not null" json:"vertical"`
	DisplayName string   `gorm:"not null" json:"display_name"`
	NightCount  int      `json:"night_count"`
	PriceEUR    float64  `json:"price_eur"`
	Active      bool     `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *AccommodationOption) GetDisplayName() string     { return o.DisplayName }
func (o *AccommodationOption) SetDisplayName(name string) { o.DisplayName = name }

// SessionOption is a conference track/session a registrant can sign up for.
type SessionOption struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Vertical    Vertical `gorm:"type:varchar(20);index;not null" json:"vertical"`
	DisplayName string   `gorm:"not null" json:"display_name"`
	Track       string   `json:"track"`
	Active      bool     `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *SessionOption) GetDisplayName() string     { return o.DisplayName }
func (o *SessionOption) SetDisplayName(name string) { o.DisplayName = name }
