package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/stripe"
	"propman-be-svc/pkg/apperrors"
)

type paymentTestEnv struct {
	db       *gorm.DB
	svc      *paymentService
	landlord *models.User
	tenant   *models.User
	stranger *models.User
	rental   *models.Rental
}

func newPaymentEnv(t *testing.T) *paymentTestEnv {
	t.Helper()
	db := testDB(t)

	landlord := &models.User{Name: "Lena", Email: "lena@example.com", Role: models.RoleLandlord}
	tenant := &models.User{Name: "Tom", Email: "tom@example.com", Role: models.RoleTenant}
	stranger := &models.User{Name: "Eve", Email: "eve@example.com", Role: models.RoleTenant}
	for _, u := range []*models.User{landlord, tenant, stranger} {
		require.NoError(t, db.Create(u).Error)
	}

	property := &models.Property{
		LandlordID:  landlord.ID,
		Name:        "Pine Court 3",
		Type:        models.PropertyTypeApartment,
		MonthlyRent: decimal.NewFromInt(900),
		Status:      models.PropertyStatusRented,
	}
	require.NoError(t, db.Create(property).Error)

	rental := &models.Rental{
		PropertyID:       property.ID,
		TenantID:         tenant.ID,
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:       decimal.NewFromInt(900),
		PaymentDueDay:    1,
		PaymentFrequency: models.FrequencyMonthly,
		Status:           models.RentalStatusActive,
	}
	require.NoError(t, db.Create(rental).Error)

	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewRentalRepository(db),
		nil, // no Stripe in tests, card payments are rejected
		nil,
		testLogger(),
	).(*paymentService)

	return &paymentTestEnv{db: db, svc: svc, landlord: landlord, tenant: tenant, stranger: stranger, rental: rental}
}

func TestCreateCashPaymentCompletesImmediately(t *testing.T) {
	env := newPaymentEnv(t)
	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	result, err := env.svc.Create(env.tenant, &CreatePaymentRequest{
		RentalID:      env.rental.ID,
		DueDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, result.Payment.Status)
	require.NotNil(t, result.Payment.PaymentDate)
	assert.True(t, result.Payment.PaymentDate.Equal(now))
	assert.True(t, result.Payment.Amount.Equal(env.rental.RentAmount))
	assert.Empty(t, result.ClientSecret)
}

func TestCreatePaymentDuplicateCycleConflicts(t *testing.T) {
	env := newPaymentEnv(t)
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.svc.Create(env.tenant, &CreatePaymentRequest{
		RentalID:      env.rental.ID,
		DueDate:       due,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = env.svc.Create(env.tenant, &CreatePaymentRequest{
		RentalID:      env.rental.ID,
		DueDate:       due,
		PaymentMethod: models.PaymentMethodBankTransfer,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreatePaymentForbiddenForStranger(t *testing.T) {
	env := newPaymentEnv(t)

	_, err := env.svc.Create(env.stranger, &CreatePaymentRequest{
		RentalID:      env.rental.ID,
		DueDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: models.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestCreatePaymentRejectsInactiveRental(t *testing.T) {
	env := newPaymentEnv(t)
	require.NoError(t, env.db.Model(env.rental).Update("status", models.RentalStatusTerminated).Error)

	_, err := env.svc.Create(env.tenant, &CreatePaymentRequest{
		RentalID:      env.rental.ID,
		DueDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: models.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRentalInactive)
}

func TestWebhookSucceededCompletesPayment(t *testing.T) {
	env := newPaymentEnv(t)
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	intentID := "pi_test_123"
	payment := &models.Payment{
		RentalID:              env.rental.ID,
		Amount:                decimal.NewFromInt(900),
		DueDate:               time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: &intentID,
	}
	require.NoError(t, env.db.Create(payment).Error)

	event := &stripe.Event{ID: "evt_1", Type: stripe.EventPaymentIntentSucceeded}
	event.Data.Object = stripe.PaymentIntent{ID: intentID, LatestCharge: "ch_42"}

	require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), event))

	var updated models.Payment
	require.NoError(t, env.db.First(&updated, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)
	require.NotNil(t, updated.PaymentDate)
	require.NotNil(t, updated.TransactionID)
	assert.Equal(t, "ch_42", *updated.TransactionID)

	// Redelivery of the same event leaves the settled payment alone
	require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), event))
	var again models.Payment
	require.NoError(t, env.db.First(&again, payment.ID).Error)
	assert.Equal(t, "ch_42", *again.TransactionID)
}

func TestWebhookFailedMarksPaymentFailed(t *testing.T) {
	env := newPaymentEnv(t)

	intentID := "pi_test_456"
	payment := &models.Payment{
		RentalID:              env.rental.ID,
		Amount:                decimal.NewFromInt(900),
		DueDate:               time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: &intentID,
	}
	require.NoError(t, env.db.Create(payment).Error)

	event := &stripe.Event{ID: "evt_2", Type: stripe.EventPaymentIntentFailed}
	event.Data.Object = stripe.PaymentIntent{ID: intentID}

	require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), event))

	var updated models.Payment
	require.NoError(t, env.db.First(&updated, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, updated.Status)
	assert.Nil(t, updated.PaymentDate)
}

func TestWebhookUnknownIntentIsAcknowledged(t *testing.T) {
	env := newPaymentEnv(t)

	event := &stripe.Event{ID: "evt_3", Type: stripe.EventPaymentIntentSucceeded}
	event.Data.Object = stripe.PaymentIntent{ID: "pi_nobody_knows"}

	assert.NoError(t, env.svc.HandleWebhookEvent(context.Background(), event))
}

func TestExportForbiddenForTenant(t *testing.T) {
	env := newPaymentEnv(t)

	_, _, err := env.svc.ExportToExcel(env.tenant)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestExportProducesWorkbook(t *testing.T) {
	env := newPaymentEnv(t)

	_, err := env.svc.Create(env.tenant, &CreatePaymentRequest{
		RentalID:      env.rental.ID,
		DueDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	content, filename, err := env.svc.ExportToExcel(env.landlord)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, filename, ".xlsx")
}
