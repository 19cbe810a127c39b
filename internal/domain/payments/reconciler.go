package payments

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conference-backend/internal/infra/logging"
	stripeinfra "conference-backend/internal/infra/stripe"
)

// Reconciler drives the payment lifecycle from provider events. Webhook
// deliveries arrive duplicated and out of order; every entry point here must
// stay safe to re-run.
type Reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// ProcessEvent matches the event to a payment row, applies the state
// transition inside one locked transaction, then runs the discount sync and
// registration linking side effects. Side-effect failures are logged and never
// fail the event. A nil result means the event type is not one this pipeline
// handles.
func (r *Reconciler) ProcessEvent(f EventFields) (*Payment, error) {
	newStatus, newPaymentStatus, handled := transitionFor(f)
	if !handled {
		return nil, nil
	}
	if f.ID == "" {
		return nil, ErrMissingEventID
	}

	var record *Payment
	var completed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		p, err := r.match(tx, f)
		if err != nil {
			return err
		}
		completed, err = r.apply(tx, p, f, newStatus, newPaymentStatus)
		if err != nil {
			return err
		}
		record = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		r.syncDiscount(record, f)
		r.linkRegistration(record, f)
	}
	return record, nil
}

// transitionFor is the event-to-state table. checkout.session.completed only
// counts when the session itself reports complete.
func transitionFor(f EventFields) (status, paymentStatus string, handled bool) {
	switch f.EventType {
	case EventCheckoutCompleted:
		if f.SessionStatus != "" && f.SessionStatus != "complete" {
			return "", "", false
		}
		if f.PaymentStatus == "" {
			return StatusCompleted, "paid", true
		}
		return StatusCompleted, stripeinfra.NormalizePaymentStatus(&f.PaymentStatus), true
	case EventPaymentIntentOK:
		return StatusCompleted, "paid", true
	case EventPaymentIntentFailed:
		return StatusFailed, "failed", true
	case EventCheckoutExpired:
		return StatusExpired, "expired", true
	default:
		return "", "", false
	}
}

// lockRows takes row locks so two deliveries cannot amount-match the same
// PENDING row concurrently. SQLite serializes writers on its own and rejects
// FOR UPDATE syntax.
func lockRows(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// match resolves the event to exactly one payment row: exact key match first,
// then the best amount match among PENDING rows, then the most recent PENDING
// row, and finally a fresh row synthesized from the event alone.
func (r *Reconciler) match(tx *gorm.DB, f EventFields) (*Payment, error) {
	var p Payment

	var err error
	if f.Kind == kindSession {
		err = lockRows(tx).Where("session_id = ?", f.ID).First(&p).Error
	} else {
		err = lockRows(tx).Where("payment_intent_id = ?", f.ID).First(&p).Error
	}
	if err == nil {
		return &p, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var pending []Payment
	if err := lockRows(tx).
		Where("status = ?", StatusPending).
		Order("created_at DESC").
		Find(&pending).Error; err != nil {
		return nil, err
	}

	if len(pending) == 0 {
		return r.createFromEvent(tx, f)
	}

	if f.HasAmount {
		amount := f.AmountEUR()
		var byAmount []*Payment
		for i := range pending {
			if pending[i].AmountTotal == amount {
				byAmount = append(byAmount, &pending[i])
			}
		}
		if len(byAmount) == 1 {
			return byAmount[0], nil
		}
	}

	// Zero or ambiguous amount matches: take the most recent PENDING row.
	logging.Log.WithFields(logrus.Fields{
		"event_type": f.EventType,
		"object_id":  f.ID,
		"pending":    len(pending),
	}).Info("no exact or unique amount match, using most recent pending payment")
	return &pending[0], nil
}

func (r *Reconciler) createFromEvent(tx *gorm.DB, f EventFields) (*Payment, error) {
	p := Payment{
		SessionID:   f.ID,
		AmountTotal: f.AmountEUR(),
		Currency:    strings.ToUpper(f.Currency),
		Status:      StatusPending,
		Provider:    ProviderStripe,
	}
	if f.CustomerEmail != "" {
		email := f.CustomerEmail
		p.CustomerEmail = &email
	}
	if f.PaymentIntentID != "" {
		pi := f.PaymentIntentID
		p.PaymentIntentID = &pi
	}
	p.StripeCreatedAt = UnixToEventTime(f.Created)
	p.StripeExpiresAt = UnixToEventTime(f.ExpiresAt)

	if err := tx.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment from event %s: %w", f.EventType, err)
	}
	logging.Log.WithFields(logrus.Fields{
		"event_type": f.EventType,
		"session_id": p.SessionID,
	}).Info("no matching payment found, created new record from event")
	return &p, nil
}

// apply advances the record per the transition table. Terminal states are
// sticky: a conflicting later event is logged as an anomaly and not applied.
// Re-applying the same transition is harmless since all writes are
// idempotent by construction.
func (r *Reconciler) apply(tx *gorm.DB, p *Payment, f EventFields, newStatus, newPaymentStatus string) (bool, error) {
	if p.IsTerminal() && p.Status != newStatus {
		logging.Log.WithFields(logrus.Fields{
			"session_id": p.SessionID,
			"status":     p.Status,
			"event_type": f.EventType,
		}).Warn("conflicting event for terminal payment, not applied")
		return false, nil
	}

	if (p.CustomerEmail == nil || *p.CustomerEmail == "") && f.CustomerEmail != "" {
		email := f.CustomerEmail
		p.CustomerEmail = &email
	}
	if p.AmountTotal == 0 && f.HasAmount {
		p.AmountTotal = f.AmountEUR()
	}
	if p.Currency == "" && f.Currency != "" {
		p.Currency = strings.ToUpper(f.Currency)
	}
	if f.PaymentIntentID != "" {
		pi := f.PaymentIntentID
		p.PaymentIntentID = &pi
	}
	if p.StripeCreatedAt == nil {
		p.StripeCreatedAt = UnixToEventTime(f.Created)
	}
	if p.StripeExpiresAt == nil {
		p.StripeExpiresAt = UnixToEventTime(f.ExpiresAt)
	}

	p.Status = newStatus
	p.PaymentStatus = newPaymentStatus

	if err := tx.Save(p).Error; err != nil {
		return false, fmt.Errorf("failed to update payment %s: %w", p.SessionID, err)
	}
	return newStatus == StatusCompleted, nil
}
