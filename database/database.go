package database

import (
	"fmt"
	"log"
	"os"

	"conference-backend/internal/domain/discounts"
	"conference-backend/internal/domain/payments"
	"conference-backend/internal/domain/pricing"
	"conference-backend/internal/domain/registrations"
	"conference-backend/internal/domain/users"
	"conference-backend/internal/domain/verticals"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&payments.Payment{},
		&discounts.DiscountPayment{},

		// verticals
		&pricing.PricingConfig{},
		&registrations.RegistrationForm{},
		&verticals.AccommodationOption{},
		&verticals.SessionOption{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
