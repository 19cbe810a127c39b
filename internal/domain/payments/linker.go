package payments

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"conference-backend/internal/domain/registrations"
	"conference-backend/internal/infra/logging"
)

// linkRegistration reconciles the one-to-one link between a completed payment
// and the registration form submitted before the provider redirect. The form
// already exists by the time a webhook fires, so this step only connects rows,
// it never creates them. Already-linked payments are left alone.
func (r *Reconciler) linkRegistration(p *Payment, f EventFields) {
	if p.RegistrationFormID != nil {
		return
	}

	email := ""
	if p.CustomerEmail != nil {
		email = *p.CustomerEmail
	}
	if email == "" {
		email = f.CustomerEmail
	}
	if email == "" {
		logging.Log.WithField("session_id", p.SessionID).
			Error("cannot link registration: no customer email on payment or event")
		return
	}

	var form registrations.RegistrationForm
	err := r.db.Where("email = ?", email).Order("created_at DESC").First(&form).Error
	if err == gorm.ErrRecordNotFound {
		logging.Log.WithFields(logrus.Fields{
			"session_id": p.SessionID,
			"email":      email,
		}).Error("cannot link registration: no registration form for email")
		return
	}
	if err != nil {
		logging.Log.WithError(err).WithField("session_id", p.SessionID).
			Error("registration lookup failed")
		return
	}

	relinkFrom := form.PaymentID
	if relinkFrom != nil && *relinkFrom != p.ID {
		// Data-integrity signal; the newer payment wins the link.
		logging.Log.WithFields(logrus.Fields{
			"form_id":     form.ID,
			"old_payment": *relinkFrom,
			"new_payment": p.ID,
		}).Warn("registration form already linked to a different payment, relinking")
	}

	form.PaymentID = &p.ID

	// Both sides move in one transaction. The old payment must release the
	// form first or the unique index on registration_form_id rejects the new
	// payment's side.
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if relinkFrom != nil && *relinkFrom != p.ID {
			if err := tx.Model(&Payment{}).Where("id = ?", *relinkFrom).
				Update("registration_form_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(&form).Error; err != nil {
			return err
		}
		return tx.Model(&Payment{}).Where("id = ?", p.ID).
			Update("registration_form_id", form.ID).Error
	})
	if err != nil {
		logging.Log.WithError(err).WithFields(logrus.Fields{
			"session_id": p.SessionID,
			"form_id":    form.ID,
		}).Error("failed to persist registration link")
		return
	}
	p.RegistrationFormID = &form.ID
	logging.Log.WithFields(logrus.Fields{
		"session_id": p.SessionID,
		"form_id":    form.ID,
	}).Info("payment linked to registration form")
}
