package payments

import (
	"time"

	"conference-backend/internal/infra/logging"
)

// SweepExpired flips PENDING payments whose provider expiry has passed to
// EXPIRED and returns how many rows changed. No discount sync or registration
// linking happens here; the flip is the only side effect.
func (r *Reconciler) SweepExpired() (int64, error) {
	res := r.db.Model(&Payment{}).
		Where("status = ? AND stripe_expires_at IS NOT NULL AND stripe_expires_at < ?",
			StatusPending, time.Now()).
		Updates(map[string]interface{}{
			"status":         StatusExpired,
			"payment_status": "expired",
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		logging.Log.WithField("count", res.RowsAffected).Info("expired stale pending payments")
	}
	return res.RowsAffected, nil
}
