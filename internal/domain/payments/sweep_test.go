package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepExpiresStalePendingRecords(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)

	past := time.Now().Add(-2 * time.Hour)
	future := time.Now().Add(2 * time.Hour)

	stale := pendingPayment(db, "cs_stale", 30.00, time.Now().Add(-3*time.Hour))
	db.Model(stale).Update("stripe_expires_at", past)
	fresh := pendingPayment(db, "cs_fresh", 30.00, time.Now())
	db.Model(fresh).Update("stripe_expires_at", future)
	noExpiry := pendingPayment(db, "cs_noexp", 30.00, time.Now())

	count, err := r.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var p Payment
	require.NoError(t, db.Where("session_id = ?", "cs_stale").First(&p).Error)
	assert.Equal(t, StatusExpired, p.Status)
	assert.Equal(t, "expired", p.PaymentStatus)

	p = Payment{}
	require.NoError(t, db.Where("session_id = ?", "cs_fresh").First(&p).Error)
	assert.Equal(t, StatusPending, p.Status)

	p = Payment{}
	require.NoError(t, db.Where("session_id = ?", noExpiry.SessionID).First(&p).Error)
	assert.Equal(t, StatusPending, p.Status)

	// a second sweep finds nothing new
	count, err = r.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSweepHasNoSideEffects(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)

	stale := pendingPayment(db, "cs_stale", 30.00, time.Now())
	db.Model(stale).Update("stripe_expires_at", time.Now().Add(-time.Hour))

	_, err := r.SweepExpired()
	require.NoError(t, err)

	var p Payment
	require.NoError(t, db.Where("session_id = ?", "cs_stale").First(&p).Error)
	assert.Nil(t, p.RegistrationFormID)
}
