package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"propman-be-svc/internal/database"
	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testLogger() *logger.Logger {
	return logger.NewLogger("error", "text")
}

type rentalTestEnv struct {
	db        *gorm.DB
	svc       *rentalService
	superuser *models.User
	landlord  *models.User
	tenant    *models.User
	stranger  *models.User
	property  *models.Property
}

func newRentalEnv(t *testing.T) *rentalTestEnv {
	t.Helper()
	db := testDB(t)

	superuser := &models.User{Name: "Root", Email: "root@example.com", Role: models.RoleSuperuser}
	landlord := &models.User{Name: "Lena", Email: "lena@example.com", Role: models.RoleLandlord}
	tenant := &models.User{Name: "Tom", Email: "tom@example.com", Role: models.RoleTenant}
	stranger := &models.User{Name: "Sam", Email: "sam@example.com", Role: models.RoleLandlord}
	for _, u := range []*models.User{superuser, landlord, tenant, stranger} {
		require.NoError(t, db.Create(u).Error)
	}

	property := &models.Property{
		LandlordID:  landlord.ID,
		Name:        "Oak Avenue 12",
		Type:        models.PropertyTypeHouse,
		MonthlyRent: decimal.NewFromInt(1500),
		Status:      models.PropertyStatusAvailable,
	}
	require.NoError(t, db.Create(property).Error)

	svc := NewRentalService(
		repository.NewRentalRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewUserRepository(db),
		testLogger(),
	).(*rentalService)

	return &rentalTestEnv{db: db, svc: svc, superuser: superuser, landlord: landlord, tenant: tenant, stranger: stranger, property: property}
}

func TestCreateRentalGeneratesMonthlySchedule(t *testing.T) {
	env := newRentalEnv(t)

	rental, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: 31,
	})
	require.NoError(t, err)

	var payments []models.Payment
	require.NoError(t, env.db.Where("rental_id = ?", rental.ID).Order("due_date").Find(&payments).Error)
	require.Len(t, payments, 3)

	// Due day 31 clamps to the length of each month
	assert.Equal(t, 31, payments[0].DueDate.Day())
	assert.Equal(t, 29, payments[1].DueDate.Day())
	assert.Equal(t, 31, payments[2].DueDate.Day())
	for _, p := range payments {
		assert.Equal(t, models.PaymentStatusPending, p.Status)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(1500)))
	}

	var property models.Property
	require.NoError(t, env.db.First(&property, env.property.ID).Error)
	assert.Equal(t, models.PropertyStatusRented, property.Status)
}

func TestCreateRentalQuarterlySchedule(t *testing.T) {
	env := newRentalEnv(t)

	rental, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:       env.property.ID,
		TenantID:         env.tenant.ID,
		StartDate:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		RentAmount:       decimal.NewFromInt(4500),
		PaymentDueDay:    15,
		PaymentFrequency: models.FrequencyQuarterly,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.Payment{}).Where("rental_id = ?", rental.ID).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestCreateRentalRejectsOccupiedProperty(t *testing.T) {
	env := newRentalEnv(t)
	require.NoError(t, env.db.Model(env.property).Update("status", models.PropertyStatusRented).Error)

	_, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPropertyOccupied)
}

func TestCreateRentalForbiddenForOtherLandlord(t *testing.T) {
	env := newRentalEnv(t)

	_, err := env.svc.Create(env.stranger, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: 1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestUpdateRentalRecalculatesOnlyFuturePending(t *testing.T) {
	env := newRentalEnv(t)
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	rental, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: 10,
	})
	require.NoError(t, err)

	// Mark the January cycle as paid
	var january models.Payment
	require.NoError(t, env.db.Where("rental_id = ?", rental.ID).Order("due_date").First(&january).Error)
	paidAt := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&january).Updates(map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"payment_date": paidAt,
	}).Error)

	newRent := decimal.NewFromInt(1800)
	newDueDay := 20
	_, err = env.svc.Update(env.landlord, rental.ID, &UpdateRentalRequest{
		RentAmount:    &newRent,
		PaymentDueDay: &newDueDay,
	})
	require.NoError(t, err)

	var payments []models.Payment
	require.NoError(t, env.db.Where("rental_id = ?", rental.ID).Order("due_date").Find(&payments).Error)
	require.Len(t, payments, 6)

	// Completed January is untouched
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 10, payments[0].DueDate.Day())

	// February 10 is pending but already past, also untouched
	assert.True(t, payments[1].Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 10, payments[1].DueDate.Day())

	// March onward moved to the new amount and due day
	for _, p := range payments[2:] {
		assert.True(t, p.Amount.Equal(newRent), "due %s", p.DueDate)
		assert.Equal(t, 20, p.DueDate.Day())
	}
}

func TestTerminateRentalReleasesProperty(t *testing.T) {
	env := newRentalEnv(t)

	rental, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: 1,
	})
	require.NoError(t, err)

	// The tenant may end their own lease
	reason := "moving out of town"
	terminated, err := env.svc.Terminate(env.tenant, rental.ID, &TerminateRentalRequest{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusTerminated, terminated.Status)
	require.NotNil(t, terminated.TerminationReason)
	assert.Equal(t, reason, *terminated.TerminationReason)

	var property models.Property
	require.NoError(t, env.db.First(&property, env.property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, property.Status)

	// Pending payments past the end date are gone
	var remaining int64
	require.NoError(t, env.db.Model(&models.Payment{}).
		Where("rental_id = ? AND status = ? AND due_date > ?", rental.ID, models.PaymentStatusPending, terminated.EndDate).
		Count(&remaining).Error)
	assert.Zero(t, remaining)

	// A second terminate is a conflict
	_, err = env.svc.Terminate(env.landlord, rental.ID, nil)
	assert.True(t, apperrors.IsConflict(err))
}

func TestGetRentalStatistics(t *testing.T) {
	env := newRentalEnv(t)

	rental, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1000),
		PaymentDueDay: 1,
	})
	require.NoError(t, err)

	var first models.Payment
	require.NoError(t, env.db.Where("rental_id = ?", rental.ID).Order("due_date").First(&first).Error)
	paidAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&first).Updates(map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"payment_date": paidAt,
	}).Error)

	_, stats, err := env.svc.Get(env.tenant, rental.ID)
	require.NoError(t, err)
	assert.True(t, stats.TotalPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, stats.TotalPending.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 2, stats.PendingCount)
	require.NotNil(t, stats.NextDueDate)
	assert.Equal(t, time.February, stats.NextDueDate.Month())
}

func TestGetRentalForbiddenForStranger(t *testing.T) {
	env := newRentalEnv(t)

	rental, err := env.svc.Create(env.landlord, &CreateRentalRequest{
		PropertyID:    env.property.ID,
		TenantID:      env.tenant.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: 1,
	})
	require.NoError(t, err)

	_, _, err = env.svc.Get(env.stranger, rental.ID)
	assert.True(t, apperrors.IsForbidden(err))

	_, _, err = env.svc.Get(env.superuser, rental.ID)
	assert.NoError(t, err)
}
