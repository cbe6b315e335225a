package jobs

import (
	"context"
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
	"propman-be-svc/pkg/logger"
)

type sentNotification struct {
	UserID uint
	Kind   string
}

// recordingNotifier captures notifications instead of sending them
type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, user *models.User, kind, _, _ string, _ map[string]interface{}) error {
	n.sent = append(n.sent, sentNotification{UserID: user.ID, Kind: kind})
	return nil
}

func (n *recordingNotifier) countFor(userID uint, kind string) int {
	count := 0
	for _, s := range n.sent {
		if s.UserID == userID && s.Kind == kind {
			count++
		}
	}
	return count
}

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

type fixture struct {
	db       *gorm.DB
	landlord *models.User
	tenant   *models.User
	property *models.Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)

	landlord := &models.User{Name: "Lena", Email: "lena@example.com", Role: models.RoleLandlord}
	tenant := &models.User{Name: "Tom", Email: "tom@example.com", Role: models.RoleTenant}
	require.NoError(t, db.Create(landlord).Error)
	require.NoError(t, db.Create(tenant).Error)

	property := &models.Property{
		LandlordID:  landlord.ID,
		Name:        "Elm Street 4",
		Type:        models.PropertyTypeApartment,
		MonthlyRent: decimal.NewFromInt(1200),
		Status:      models.PropertyStatusRented,
	}
	require.NoError(t, db.Create(property).Error)

	return &fixture{db: db, landlord: landlord, tenant: tenant, property: property}
}

func (f *fixture) addRental(t *testing.T, start time.Time, dueDay int, frequency string) *models.Rental {
	t.Helper()
	rental := &models.Rental{
		PropertyID:       f.property.ID,
		TenantID:         f.tenant.ID,
		StartDate:        start,
		EndDate:          start.AddDate(2, 0, 0),
		RentAmount:       decimal.NewFromInt(1200),
		PaymentDueDay:    dueDay,
		PaymentFrequency: frequency,
		Status:           models.RentalStatusActive,
	}
	require.NoError(t, f.db.Create(rental).Error)
	return rental
}

func TestOverdueJobFilesPaymentAndNotifies(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	rental := f.addRental(t, now.AddDate(0, 0, -60), 1, models.FrequencyMonthly)

	notifier := &recordingNotifier{}
	job := NewOverdueJob(
		repository.NewRentalRepository(f.db),
		repository.NewPaymentRepository(f.db),
		notifier, 5, testLogger(),
	)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var payments []models.Payment
	require.NoError(t, f.db.Where("rental_id = ?", rental.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusPending, payments[0].Status)
	assert.Equal(t, 1, notifier.countFor(f.tenant.ID, models.NotificationPaymentOverdue))
	assert.Equal(t, 1, notifier.countFor(f.landlord.ID, models.NotificationPaymentOverdue))
}

func TestOverdueJobIsIdempotent(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	rental := f.addRental(t, now.AddDate(0, 0, -60), 1, models.FrequencyMonthly)

	job := NewOverdueJob(
		repository.NewRentalRepository(f.db),
		repository.NewPaymentRepository(f.db),
		&recordingNotifier{}, 5, testLogger(),
	)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Where("rental_id = ?", rental.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOverdueJobRespectsRecentPayment(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	rental := f.addRental(t, now.AddDate(0, 0, -200), 1, models.FrequencyMonthly)

	paidAt := now.AddDate(0, 0, -10)
	require.NoError(t, f.db.Create(&models.Payment{
		RentalID:    rental.ID,
		Amount:      rental.RentAmount,
		DueDate:     paidAt,
		PaymentDate: &paidAt,
		Status:      models.PaymentStatusCompleted,
	}).Error)

	notifier := &recordingNotifier{}
	job := NewOverdueJob(
		repository.NewRentalRepository(f.db),
		repository.NewPaymentRepository(f.db),
		notifier, 5, testLogger(),
	)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).
		Where("rental_id = ? AND status = ?", rental.ID, models.PaymentStatusPending).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, notifier.sent)
}

func TestOverdueJobQuarterlyWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	// 60 days without payment is fine on a quarterly cadence
	f.addRental(t, now.AddDate(0, 0, -60), 1, models.FrequencyQuarterly)

	notifier := &recordingNotifier{}
	job := NewOverdueJob(
		repository.NewRentalRepository(f.db),
		repository.NewPaymentRepository(f.db),
		notifier, 5, testLogger(),
	)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, notifier.sent)
}

func TestReminderJobFiresOnExactDays(t *testing.T) {
	cases := []struct {
		name     string
		now      time.Time
		dueDay   int
		expected int
	}{
		{"five days before", time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), 20, 1},
		{"one day before", time.Date(2024, 6, 19, 9, 0, 0, 0, time.UTC), 20, 1},
		{"three days before", time.Date(2024, 6, 17, 9, 0, 0, 0, time.UTC), 20, 0},
		{"due day rolled to next month", time.Date(2024, 6, 26, 9, 0, 0, 0, time.UTC), 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.addRental(t, tc.now.AddDate(0, -3, 0), tc.dueDay, models.FrequencyMonthly)

			notifier := &recordingNotifier{}
			job := NewReminderJob(repository.NewRentalRepository(f.db), notifier, testLogger())
			job.now = func() time.Time { return tc.now }

			require.NoError(t, job.Run(context.Background()))
			assert.Equal(t, tc.expected, notifier.countFor(f.tenant.ID, models.NotificationPaymentReminder))
		})
	}
}

func TestMaintenanceFollowUpJob(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	worker := &models.User{Name: "Wes", Email: "wes@example.com", Role: models.RoleLandlord}
	require.NoError(t, f.db.Create(worker).Error)

	stalePending := &models.MaintenanceRequest{
		PropertyID:  f.property.ID,
		TenantID:    f.tenant.ID,
		Title:       "Leaking tap",
		Description: "Kitchen tap drips",
		Priority:    models.PriorityMedium,
		Status:      models.MaintenanceStatusPending,
	}
	require.NoError(t, f.db.Create(stalePending).Error)
	require.NoError(t, f.db.Model(stalePending).UpdateColumn("created_at", now.AddDate(0, 0, -3)).Error)

	staleInProgress := &models.MaintenanceRequest{
		PropertyID:  f.property.ID,
		TenantID:    f.tenant.ID,
		Title:       "Broken boiler",
		Description: "No hot water",
		Priority:    models.PriorityHigh,
		Status:      models.MaintenanceStatusInProgress,
		AssignedTo:  &worker.ID,
	}
	require.NoError(t, f.db.Create(staleInProgress).Error)
	require.NoError(t, f.db.Model(staleInProgress).UpdateColumn("updated_at", now.AddDate(0, 0, -8)).Error)

	fresh := &models.MaintenanceRequest{
		PropertyID:  f.property.ID,
		TenantID:    f.tenant.ID,
		Title:       "Squeaky door",
		Description: "Front door hinge",
		Priority:    models.PriorityLow,
		Status:      models.MaintenanceStatusPending,
	}
	require.NoError(t, f.db.Create(fresh).Error)

	notifier := &recordingNotifier{}
	job := NewMaintenanceFollowUpJob(
		repository.NewMaintenanceRepository(f.db),
		notifier, 2, 7, testLogger(),
	)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	// Stale pending reaches the landlord only
	assert.Equal(t, 2, notifier.countFor(f.landlord.ID, models.NotificationMaintenanceFollowUp))
	// Stalled in-progress reaches assignee and tenant too
	assert.Equal(t, 1, notifier.countFor(worker.ID, models.NotificationMaintenanceFollowUp))
	assert.Equal(t, 1, notifier.countFor(f.tenant.ID, models.NotificationMaintenanceFollowUp))
}
