package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"conference-backend/internal/domain/discounts"
	"conference-backend/internal/domain/registrations"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Payment{},
		&discounts.DiscountPayment{},
		&registrations.RegistrationForm{},
	))
	return db
}

func pendingPayment(db *gorm.DB, sessionID string, amount float64, createdAt time.Time) *Payment {
	p := &Payment{
		SessionID:     sessionID,
		AmountTotal:   amount,
		Currency:      "EUR",
		Status:        StatusPending,
		PaymentStatus: "unpaid",
		Provider:      ProviderStripe,
		CreatedAt:     createdAt,
	}
	db.Create(p)
	return p
}

func TestCheckoutCompletedUpdatesPendingRecord(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_1", 30.00, time.Now())

	f := EventFields{
		EventType:       EventCheckoutCompleted,
		Kind:            "session",
		ID:              "cs_1",
		PaymentIntentID: "pi_1",
		PaymentStatus:   "paid",
		SessionStatus:   "complete",
		Currency:        "eur",
		AmountCents:     3000,
		HasAmount:       true,
	}
	record, err := r.ProcessEvent(f)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, "paid", record.PaymentStatus)
	require.NotNil(t, record.PaymentIntentID)
	assert.Equal(t, "pi_1", *record.PaymentIntentID)
	assert.Equal(t, 30.00, record.AmountTotal)
}

func TestCheckoutCompletedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_1", 30.00, time.Now())

	f := EventFields{
		EventType:       EventCheckoutCompleted,
		Kind:            "session",
		ID:              "cs_1",
		PaymentIntentID: "pi_1",
		PaymentStatus:   "paid",
		SessionStatus:   "complete",
		Currency:        "eur",
		AmountCents:     3000,
		HasAmount:       true,
	}
	first, err := r.ProcessEvent(f)
	require.NoError(t, err)
	second, err := r.ProcessEvent(f)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
	assert.Equal(t, first.AmountTotal, second.AmountTotal)

	var count int64
	db.Model(&Payment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIntentEventMatchesByAmountAmongPending(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	now := time.Now()
	pendingPayment(db, "cs_a", 20.00, now.Add(-2*time.Minute))
	target := pendingPayment(db, "cs_b", 45.00, now.Add(-3*time.Minute))
	pendingPayment(db, "cs_c", 99.00, now.Add(-1*time.Minute))

	f := EventFields{
		EventType:   EventPaymentIntentOK,
		Kind:        "intent",
		ID:          "pi_45",
		Currency:    "eur",
		AmountCents: 4500,
		HasAmount:   true,
	}
	record, err := r.ProcessEvent(f)
	require.NoError(t, err)
	assert.Equal(t, target.ID, record.ID)
	assert.Equal(t, StatusCompleted, record.Status)

	// the other pending rows are untouched
	var others []Payment
	db.Where("id <> ?", target.ID).Find(&others)
	for _, p := range others {
		assert.Equal(t, StatusPending, p.Status)
	}
}

func TestIntentEventFallsBackToMostRecentPending(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	now := time.Now()
	pendingPayment(db, "cs_old", 50.00, now.Add(-10*time.Minute))
	newest := pendingPayment(db, "cs_new", 50.00, now.Add(-1*time.Minute))

	// two pending rows share the amount: ambiguous, newest wins
	f := EventFields{
		EventType:   EventPaymentIntentOK,
		Kind:        "intent",
		ID:          "pi_50",
		AmountCents: 5000,
		HasAmount:   true,
	}
	record, err := r.ProcessEvent(f)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, record.ID)
}

func TestIntentEventCreatesRecordWhenNothingPending(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)

	f := EventFields{
		EventType:   EventPaymentIntentOK,
		Kind:        "intent",
		ID:          "pi_2",
		Currency:    "eur",
		AmountCents: 1000,
		HasAmount:   true,
	}
	record, err := r.ProcessEvent(f)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, "paid", record.PaymentStatus)
	assert.Equal(t, 10.00, record.AmountTotal)
	require.NotNil(t, record.PaymentIntentID)
	assert.Equal(t, "pi_2", *record.PaymentIntentID)
}

func TestTerminalStatusIsSticky(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_1", 30.00, time.Now())

	_, err := r.ProcessEvent(EventFields{
		EventType:       EventCheckoutCompleted,
		Kind:            "session",
		ID:              "cs_1",
		PaymentIntentID: "pi_1",
		PaymentStatus:   "paid",
		SessionStatus:   "complete",
	})
	require.NoError(t, err)

	// a stale failure for the same intent must not downgrade the record
	record, err := r.ProcessEvent(EventFields{
		EventType: EventPaymentIntentFailed,
		Kind:      "intent",
		ID:        "pi_1",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, "paid", record.PaymentStatus)
}

func TestSessionExpiredEvent(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_1", 30.00, time.Now())

	record, err := r.ProcessEvent(EventFields{
		EventType: EventCheckoutExpired,
		Kind:      "session",
		ID:        "cs_1",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, record.Status)
	assert.Equal(t, "expired", record.PaymentStatus)
}

func TestMissingEventIDAbortsProcessing(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)

	_, err := r.ProcessEvent(EventFields{
		EventType: EventCheckoutCompleted,
		Kind:      "session",
	})
	assert.ErrorIs(t, err, ErrMissingEventID)
}

func TestUnhandledEventTypeIsIgnored(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)

	record, err := r.ProcessEvent(EventFields{
		EventType: "charge.refunded",
		Kind:      "intent",
		ID:        "ch_1",
	})
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestDiscountSyncOnlyForDiscountPayments(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_plain", 30.00, time.Now().Add(-2*time.Minute))
	pendingPayment(db, "cs_disc", 60.00, time.Now())

	_, err := r.ProcessEvent(EventFields{
		EventType:     EventCheckoutCompleted,
		Kind:          "session",
		ID:            "cs_plain",
		PaymentStatus: "paid",
		SessionStatus: "complete",
		Metadata:      map[string]string{"vertical": "optics"},
	})
	require.NoError(t, err)

	_, err = r.ProcessEvent(EventFields{
		EventType:     EventCheckoutCompleted,
		Kind:          "session",
		ID:            "cs_disc",
		PaymentStatus: "paid",
		SessionStatus: "complete",
		Metadata:      map[string]string{"source": "discount-api"},
	})
	require.NoError(t, err)

	var plainCount int64
	db.Model(&discounts.DiscountPayment{}).Where("session_id = ?", "cs_plain").Count(&plainCount)
	assert.Equal(t, int64(0), plainCount, "plain payment must not create a phantom discount record")

	var row discounts.DiscountPayment
	require.NoError(t, db.Where("session_id = ?", "cs_disc").First(&row).Error)
	assert.Equal(t, StatusCompleted, row.Status)
	assert.Equal(t, "paid", row.PaymentStatus)
	assert.Equal(t, 60.00, row.AmountTotal)
}

func TestDiscountSyncWithoutMetadataUsesPreexistingRow(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_disc", 60.00, time.Now())
	db.Create(&discounts.DiscountPayment{
		SessionID: "cs_disc",
		Status:    StatusPending,
		FullName:  "Ada Lovelace",
	})

	_, err := r.ProcessEvent(EventFields{
		EventType:       EventCheckoutCompleted,
		Kind:            "session",
		ID:              "cs_disc",
		PaymentIntentID: "pi_d",
		PaymentStatus:   "paid",
		SessionStatus:   "complete",
	})
	require.NoError(t, err)

	var row discounts.DiscountPayment
	require.NoError(t, db.Where("session_id = ?", "cs_disc").First(&row).Error)
	assert.Equal(t, StatusCompleted, row.Status)
	require.NotNil(t, row.PaymentIntentID)
	assert.Equal(t, "pi_d", *row.PaymentIntentID)
	assert.Equal(t, "Ada Lovelace", row.FullName, "request metadata survives the sync")

	var count int64
	db.Model(&discounts.DiscountPayment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLinkerConnectsMostRecentForm(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_1", 30.00, time.Now())

	old := registrations.RegistrationForm{
		Vertical: "nursing", FullName: "A", Email: "payer@example.org",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	db.Create(&old)
	recent := registrations.RegistrationForm{
		Vertical: "nursing", FullName: "A", Email: "payer@example.org",
		CreatedAt: time.Now().Add(-time.Minute),
	}
	db.Create(&recent)

	record, err := r.ProcessEvent(EventFields{
		EventType:     EventCheckoutCompleted,
		Kind:          "session",
		ID:            "cs_1",
		CustomerEmail: "payer@example.org",
		PaymentStatus: "paid",
		SessionStatus: "complete",
	})
	require.NoError(t, err)

	require.NotNil(t, record.RegistrationFormID)
	assert.Equal(t, recent.ID, *record.RegistrationFormID)

	var form registrations.RegistrationForm
	require.NoError(t, db.First(&form, recent.ID).Error)
	require.NotNil(t, form.PaymentID)
	assert.Equal(t, record.ID, *form.PaymentID)
}

func TestLinkerIsIdempotentAndTolerant(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)
	pendingPayment(db, "cs_1", 30.00, time.Now())

	f := EventFields{
		EventType:     EventCheckoutCompleted,
		Kind:          "session",
		ID:            "cs_1",
		CustomerEmail: "nobody@example.org",
		PaymentStatus: "paid",
		SessionStatus: "complete",
	}

	// no form for the email: payment still completes
	record, err := r.ProcessEvent(f)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.Nil(t, record.RegistrationFormID)

	// form appears later, re-delivery links it
	form := registrations.RegistrationForm{
		Vertical: "optics", FullName: "B", Email: "nobody@example.org",
		CreatedAt: time.Now(),
	}
	db.Create(&form)

	record, err = r.ProcessEvent(f)
	require.NoError(t, err)
	require.NotNil(t, record.RegistrationFormID)
	assert.Equal(t, form.ID, *record.RegistrationFormID)

	// a third delivery changes nothing
	record, err = r.ProcessEvent(f)
	require.NoError(t, err)
	assert.Equal(t, form.ID, *record.RegistrationFormID)
}

func TestLinkerRelinksFormToNewerPayment(t *testing.T) {
	db := setupTestDB(t)
	r := NewReconciler(db)

	old := pendingPayment(db, "cs_old", 30.00, time.Now().Add(-time.Hour))
	form := registrations.RegistrationForm{
		Vertical: "renewable", FullName: "C", Email: "payer@example.org",
		PaymentID: &old.ID,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&form).Error)
	require.NoError(t, db.Model(old).Update("registration_form_id", form.ID).Error)

	pendingPayment(db, "cs_new", 30.00, time.Now())

	record, err := r.ProcessEvent(EventFields{
		EventType:     EventCheckoutCompleted,
		Kind:          "session",
		ID:            "cs_new",
		CustomerEmail: "payer@example.org",
		PaymentStatus: "paid",
		SessionStatus: "complete",
	})
	require.NoError(t, err)

	// the newer payment wins the link, on both sides
	require.NotNil(t, record.RegistrationFormID)
	assert.Equal(t, form.ID, *record.RegistrationFormID)

	var got registrations.RegistrationForm
	require.NoError(t, db.First(&got, form.ID).Error)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, record.ID, *got.PaymentID)

	var fresh Payment
	require.NoError(t, db.Where("session_id = ?", "cs_new").First(&fresh).Error)
	require.NotNil(t, fresh.RegistrationFormID)
	assert.Equal(t, form.ID, *fresh.RegistrationFormID)

	// the old payment released the form
	var released Payment
	require.NoError(t, db.First(&released, old.ID).Error)
	assert.Nil(t, released.RegistrationFormID)
}
