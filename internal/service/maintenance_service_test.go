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
	"propman-be-svc/pkg/apperrors"
)

type stubNotifier struct {
	kinds []string
}

func (n *stubNotifier) Notify(_ context.Context, _ *models.User, kind, _, _ string, _ map[string]interface{}) error {
	n.kinds = append(n.kinds, kind)
	return nil
}

func (n *stubNotifier) ListForUser(uint, bool) ([]*models.Notification, error) { return nil, nil }
func (n *stubNotifier) MarkRead([]uint, uint) error                            { return nil }

type maintenanceTestEnv struct {
	db       *gorm.DB
	svc      *maintenanceService
	notifier *stubNotifier
	landlord *models.User
	tenant   *models.User
	outsider *models.User
	property *models.Property
}

func newMaintenanceEnv(t *testing.T) *maintenanceTestEnv {
	t.Helper()
	db := testDB(t)

	landlord := &models.User{Name: "Lena", Email: "lena@example.com", Role: models.RoleLandlord}
	tenant := &models.User{Name: "Tom", Email: "tom@example.com", Role: models.RoleTenant}
	outsider := &models.User{Name: "Olive", Email: "olive@example.com", Role: models.RoleTenant}
	for _, u := range []*models.User{landlord, tenant, outsider} {
		require.NoError(t, db.Create(u).Error)
	}

	property := &models.Property{
		LandlordID:  landlord.ID,
		Name:        "Birch Lane 7",
		Type:        models.PropertyTypeHouse,
		MonthlyRent: decimal.NewFromInt(1100),
		Status:      models.PropertyStatusRented,
	}
	require.NoError(t, db.Create(property).Error)

	rental := &models.Rental{
		PropertyID:       property.ID,
		TenantID:         tenant.ID,
		StartDate:        time.Now().AddDate(0, -6, 0),
		EndDate:          time.Now().AddDate(0, 6, 0),
		RentAmount:       decimal.NewFromInt(1100),
		PaymentDueDay:    1,
		PaymentFrequency: models.FrequencyMonthly,
		Status:           models.RentalStatusActive,
	}
	require.NoError(t, db.Create(rental).Error)

	notifier := &stubNotifier{}
	svc := NewMaintenanceService(
		repository.NewMaintenanceRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewUserRepository(db),
		notifier,
		testLogger(),
	).(*maintenanceService)

	return &maintenanceTestEnv{db: db, svc: svc, notifier: notifier, landlord: landlord, tenant: tenant, outsider: outsider, property: property}
}

func TestCreateMaintenanceRequestByTenant(t *testing.T) {
	env := newMaintenanceEnv(t)

	request, err := env.svc.Create(env.tenant, &CreateMaintenanceRequest{
		PropertyID:  env.property.ID,
		Title:       "Broken window",
		Description: "Bedroom window does not close",
		Priority:    models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusPending, request.Status)
	assert.Equal(t, env.tenant.ID, request.TenantID)

	// The landlord hears about the new ticket
	assert.Contains(t, env.notifier.kinds, models.NotificationMaintenanceStatus)
}

func TestCreateMaintenanceRequestRejectsNonResident(t *testing.T) {
	env := newMaintenanceEnv(t)

	_, err := env.svc.Create(env.outsider, &CreateMaintenanceRequest{
		PropertyID:  env.property.ID,
		Title:       "Noise",
		Description: "Loud neighbours",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestCreateMaintenanceRequestRejectsLandlord(t *testing.T) {
	env := newMaintenanceEnv(t)

	_, err := env.svc.Create(env.landlord, &CreateMaintenanceRequest{
		PropertyID:  env.property.ID,
		Title:       "Repaint",
		Description: "Hallway needs paint",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestUpdateMaintenanceCompletedStampsTimestamp(t *testing.T) {
	env := newMaintenanceEnv(t)
	now := time.Date(2024, 5, 20, 14, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	request, err := env.svc.Create(env.tenant, &CreateMaintenanceRequest{
		PropertyID:  env.property.ID,
		Title:       "Dripping faucet",
		Description: "Bathroom sink",
	})
	require.NoError(t, err)

	completed := models.MaintenanceStatusCompleted
	updated, err := env.svc.Update(env.landlord, request.ID, &UpdateMaintenanceRequest{
		Status: &completed,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.Equal(now))

	// Reopening clears the stamp
	inProgress := models.MaintenanceStatusInProgress
	updated, err = env.svc.Update(env.landlord, request.ID, &UpdateMaintenanceRequest{
		Status: &inProgress,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdateMaintenanceAssignmentNotifiesAssignee(t *testing.T) {
	env := newMaintenanceEnv(t)

	request, err := env.svc.Create(env.tenant, &CreateMaintenanceRequest{
		PropertyID:  env.property.ID,
		Title:       "Boiler service",
		Description: "Annual check",
	})
	require.NoError(t, err)

	env.notifier.kinds = nil
	updated, err := env.svc.Update(env.landlord, request.ID, &UpdateMaintenanceRequest{
		AssignedTo: &env.landlord.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, env.landlord.ID, *updated.AssignedTo)
	assert.NotEmpty(t, env.notifier.kinds)
}

func TestTenantCannotAssignMaintenanceRequest(t *testing.T) {
	env := newMaintenanceEnv(t)

	request, err := env.svc.Create(env.tenant, &CreateMaintenanceRequest{
		PropertyID:  env.property.ID,
		Title:       "Door lock",
		Description: "Sticky lock",
	})
	require.NoError(t, err)

	_, err = env.svc.Update(env.tenant, request.ID, &UpdateMaintenanceRequest{
		AssignedTo: &env.landlord.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}
