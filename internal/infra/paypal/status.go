package paypal

import "conference-backend/internal/domain/payments"

// MapOrderStatus translates a PayPal order status into the internal lifecycle
// state plus the provider-vocabulary mirror value.
func MapOrderStatus(orderStatus string) (status, paymentStatus string) {
	switch orderStatus {
	case "COMPLETED":
		return payments.StatusCompleted, "paid"
	case "VOIDED":
		return payments.StatusFailed, "failed"
	case "CREATED", "SAVED", "APPROVED", "PAYER_ACTION_REQUIRED":
		return payments.StatusPending, "unpaid"
	default:
		return payments.StatusPending, "unpaid"
	}
}
