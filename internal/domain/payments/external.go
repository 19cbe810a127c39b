package payments

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ApplyExternalState records a provider-reported state for a payment that did
// not arrive through the Stripe webhook path (PayPal order capture, for one).
// It runs the same guard rails and side effects as webhook events: terminal
// states stay sticky, completion triggers discount sync and registration
// linking.
func (r *Reconciler) ApplyExternalState(sessionID, newStatus, newPaymentStatus, email string, amount float64, currency string) (*Payment, error) {
	var record *Payment
	completed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var p Payment
		err := lockRows(tx).Where("session_id = ?", sessionID).First(&p).Error
		if err == gorm.ErrRecordNotFound {
			p = Payment{
				SessionID: sessionID,
				Status:    StatusPending,
				Provider:  providerForSessionID(sessionID),
			}
		} else if err != nil {
			return err
		}

		if p.IsTerminal() && p.Status != newStatus {
			record = &p
			return nil
		}

		if (p.CustomerEmail == nil || *p.CustomerEmail == "") && email != "" {
			p.CustomerEmail = &email
		}
		if p.AmountTotal == 0 && amount != 0 {
			p.AmountTotal = amount
		}
		if p.Currency == "" && currency != "" {
			p.Currency = strings.ToUpper(currency)
		}
		p.Status = newStatus
		p.PaymentStatus = newPaymentStatus

		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to update payment %s: %w", sessionID, err)
		}
		record = &p
		completed = p.Status == StatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		f := EventFields{CustomerEmail: email}
		r.syncDiscount(record, f)
		r.linkRegistration(record, f)
	}
	return record, nil
}

func providerForSessionID(sessionID string) string {
	if strings.HasPrefix(sessionID, PayPalSessionPrefix) {
		return ProviderPayPal
	}
	return ProviderStripe
}
