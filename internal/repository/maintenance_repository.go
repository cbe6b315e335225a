package repository

import (
	"time"

	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// MaintenanceRepository defines the interface for maintenance request data operations
type MaintenanceRepository interface {
	GetByID(id uint) (*models.MaintenanceRequest, error)
	List() ([]*models.MaintenanceRequest, error)
	ListByLandlord(landlordID uint) ([]*models.MaintenanceRequest, error)
	ListByTenant(tenantID uint) ([]*models.MaintenanceRequest, error)
	ListPendingCreatedBefore(cutoff time.Time) ([]*models.MaintenanceRequest, error)
	ListInProgressUpdatedBefore(cutoff time.Time) ([]*models.MaintenanceRequest, error)
	Create(request *models.MaintenanceRequest) error
	Update(request *models.MaintenanceRequest) error
	Delete(id uint) error
}

// maintenanceRepository implements MaintenanceRepository
type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new instance of MaintenanceRepository
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

// GetByID retrieves a request with the relations policy checks need
func (r *maintenanceRepository) GetByID(id uint) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	err := r.db.
		Preload("Property").Preload("Tenant").Preload("Assignee").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *maintenanceRepository) List() ([]*models.MaintenanceRequest, error) {
	var requests []*models.MaintenanceRequest
	err := r.db.
		Preload("Property").Preload("Tenant").Preload("Assignee").
		Order("id").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *maintenanceRepository) ListByLandlord(landlordID uint) ([]*models.MaintenanceRequest, error) {
	var requests []*models.MaintenanceRequest
	err := r.db.
		Joins("JOIN properties ON properties.id = maintenance_requests.property_id").
		Where("properties.landlord_id = ?", landlordID).
		Preload("Property").Preload("Tenant").Preload("Assignee").
		Order("maintenance_requests.id").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *maintenanceRepository) ListByTenant(tenantID uint) ([]*models.MaintenanceRequest, error) {
	var requests []*models.MaintenanceRequest
	err := r.db.Where("tenant_id = ?", tenantID).
		Preload("Property").Preload("Assignee").
		Order("id").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListPendingCreatedBefore retrieves pending requests created at or before
// the cutoff, with the people to notify preloaded.
func (r *maintenanceRepository) ListPendingCreatedBefore(cutoff time.Time) ([]*models.MaintenanceRequest, error) {
	var requests []*models.MaintenanceRequest
	err := r.db.
		Where("status = ? AND created_at <= ?", models.MaintenanceStatusPending, cutoff).
		Preload("Property").Preload("Property.Landlord").Preload("Tenant").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListInProgressUpdatedBefore retrieves in-progress requests whose last
// update is at or before the cutoff.
func (r *maintenanceRepository) ListInProgressUpdatedBefore(cutoff time.Time) ([]*models.MaintenanceRequest, error) {
	var requests []*models.MaintenanceRequest
	err := r.db.
		Where("status = ? AND updated_at <= ?", models.MaintenanceStatusInProgress, cutoff).
		Preload("Property").Preload("Property.Landlord").Preload("Tenant").Preload("Assignee").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *maintenanceRepository) Create(request *models.MaintenanceRequest) error {
	return r.db.Create(request).Error
}

func (r *maintenanceRepository) Update(request *models.MaintenanceRequest) error {
	return r.db.Save(request).Error
}

func (r *maintenanceRepository) Delete(id uint) error {
	return r.db.Delete(&models.MaintenanceRequest{}, id).Error
}
