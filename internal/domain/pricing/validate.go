package pricing

import "fmt"

// ValidateChargeAmount enforces strict equality between a requested charge and
// the configured package price. Close-enough is not accepted: one cent off
// rejects the checkout.
func ValidateChargeAmount(totalPriceEUR float64, unitAmountCents, quantity int64) error {
	if unitAmountCents <= 0 {
		return fmt.Errorf("unit amount must be positive, got %d", unitAmountCents)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	wantCents := int64(totalPriceEUR*100 + 0.5)
	if unitAmountCents*quantity != wantCents {
		return fmt.Errorf("charge amount %d cents does not match configured price %d cents",
			unitAmountCents*quantity, wantCents)
	}
	return nil
}
