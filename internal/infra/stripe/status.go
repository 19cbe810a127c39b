package stripe

import "strings"

// Stripe-ish normalization used ONLY for the payment_status mirror column
func NormalizePaymentStatus(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "unpaid"
	}
	switch strings.TrimSpace(*s) {
	case "paid", "no_payment_required":
		return "paid"
	case "unpaid":
		return "unpaid"
	case "canceled", "failed":
		return "failed"
	case "expired":
		return "expired"
	default:
		return strings.TrimSpace(*s)
	}
}
