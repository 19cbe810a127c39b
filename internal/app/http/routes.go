package routes

import (
	adminapi "conference-backend/internal/api/admin"
	authapi "conference-backend/internal/api/auth"
	"conference-backend/internal/api/checkout"
	paypalapi "conference-backend/internal/api/paypal"
	registrationsapi "conference-backend/internal/api/registrations"
	stripewebhooks "conference-backend/internal/api/stripewebhook"
	"conference-backend/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook bodies must reach the signature check untouched: no
	// sanitization on this route.
	r.POST("/webhook/stripe", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/login", authapi.Login)

	public.GET("/:vertical/options/accommodations", registrationsapi.ListAccommodationOptions)
	public.GET("/:vertical/options/sessions", registrationsapi.ListSessionOptions)
	public.POST("/:vertical/registrations", registrationsapi.CreateRegistration)

	public.POST("/:vertical/checkout-session", checkout.CreateCheckoutSession)
	public.POST("/:vertical/discount-session", checkout.CreateDiscountSession)

	public.POST("/:vertical/paypal/orders", paypalapi.CreateOrder)
	public.POST("/:vertical/paypal/orders/:id/capture", paypalapi.CaptureOrder)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.POST("/change-password", authapi.ChangePassword)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/discounts", adminapi.ListDiscountPayments)
	admin.POST("/payments/:sessionId/refresh", adminapi.RefreshPayment)
	admin.POST("/payments/sweep-expired", adminapi.SweepExpiredPayments)
}
