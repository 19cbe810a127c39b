package registrationsapi

import (
	"net/http"

	"conference-backend/database"
	"conference-backend/internal/domain/registrations"
	"conference-backend/internal/domain/verticals"

	"github.com/gin-gonic/gin"
)

type registrationRequest struct {
	FullName              string `json:"full_name"`
	Email                 string `json:"email"`
	Institute             string `json:"institute"`
	Country               string `json:"country"`
	Phone                 string `json:"phone"`
	AccommodationOptionID *uint  `json:"accommodation_option_id"`
	SessionOptionID       *uint  `json:"session_option_id"`
}

// CreateRegistration stores the applicant's form. This happens before the
// provider redirect, so webhook reconciliation can link the payment back to
// the newest form for the payer's email.
func CreateRegistration(c *gin.Context) {
	vertical, err := verticals.Parse(c.Param("vertical"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}

	var body registrationRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid request body"})
		return
	}

	form := registrations.RegistrationForm{
		Vertical:              vertical,
		FullName:              body.FullName,
		Email:                 body.Email,
		Institute:             body.Institute,
		Country:               body.Country,
		Phone:                 body.Phone,
		AccommodationOptionID: body.AccommodationOptionID,
		SessionOptionID:       body.SessionOptionID,
	}
	if err := database.DB.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store registration"})
		return
	}

	c.JSON(http.StatusCreated, form)
}

// ListAccommodationOptions returns the active accommodation packages for a
// vertical.
func ListAccommodationOptions(c *gin.Context) {
	vertical, err := verticals.Parse(c.Param("vertical"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}

	var options []verticals.AccommodationOption
	if err := database.DB.
		Where("vertical = ? AND active = ?", vertical, true).
		Order("id").
		Find(&options).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load options"})
		return
	}
	c.JSON(http.StatusOK, options)
}

// ListSessionOptions returns the active conference sessions for a vertical.
func ListSessionOptions(c *gin.Context) {
	vertical, err := verticals.Parse(c.Param("vertical"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown vertical"})
		return
	}

	var options []verticals.SessionOption
	if err := database.DB.
		Where("vertical = ? AND active = ?", vertical, true).
		Order("id").
		Find(&options).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load options"})
		return
	}
	c.JSON(http.StatusOK, options)
}
