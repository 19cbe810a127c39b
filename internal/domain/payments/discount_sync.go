package payments

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"conference-backend/internal/domain/discounts"
	"conference-backend/internal/infra/logging"
)

// discountSourceMarker is set as session metadata by the discount checkout
// endpoint and is the canonical classification signal.
const discountSourceMarker = "discount-api"

// syncDiscount mirrors the payment row onto the discount ledger when the
// payment originated from the discount checkout flow. Failures are logged and
// swallowed: the primary payment update and the webhook response must not
// depend on the shadow ledger.
func (r *Reconciler) syncDiscount(p *Payment, f EventFields) {
	isDiscount, err := r.isDiscountPayment(p, f)
	if err != nil {
		logging.Log.WithError(err).WithField("session_id", p.SessionID).
			Error("discount classification failed, skipping sync")
		return
	}
	if !isDiscount {
		return
	}

	var d discounts.DiscountPayment
	err = r.db.Where("session_id = ?", p.SessionID).First(&d).Error
	if err == gorm.ErrRecordNotFound {
		d = discounts.DiscountPayment{SessionID: p.SessionID}
		err = nil
	}
	if err != nil {
		logging.Log.WithError(err).WithField("session_id", p.SessionID).
			Error("discount lookup failed, skipping sync")
		return
	}

	d.CustomerEmail = p.CustomerEmail
	d.AmountTotal = p.AmountTotal
	d.Currency = p.Currency
	d.PaymentIntentID = p.PaymentIntentID
	d.Status = p.Status
	d.PaymentStatus = p.PaymentStatus
	d.StripeCreatedAt = p.StripeCreatedAt
	d.StripeExpiresAt = p.StripeExpiresAt

	if err := r.db.Save(&d).Error; err != nil {
		logging.Log.WithError(err).WithField("session_id", p.SessionID).
			Error("discount sync failed")
		return
	}
	logging.Log.WithFields(logrus.Fields{
		"session_id": p.SessionID,
		"status":     d.Status,
	}).Info("discount ledger synced")
}

// isDiscountPayment inspects the session metadata for the discount marker;
// when the event carried no metadata, a pre-existing shadow row with the same
// session id is taken as sufficient evidence.
func (r *Reconciler) isDiscountPayment(p *Payment, f EventFields) (bool, error) {
	if f.Metadata != nil {
		return f.Metadata["source"] == discountSourceMarker, nil
	}
	var count int64
	if err := r.db.Model(&discounts.DiscountPayment{}).
		Where("session_id = ?", p.SessionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
