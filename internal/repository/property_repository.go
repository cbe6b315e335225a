package repository

import (
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// PropertyRepository defines the interface for property data operations
type PropertyRepository interface {
	GetByID(id uint) (*models.Property, error)
	List() ([]*models.Property, error)
	ListByLandlord(landlordID uint) ([]*models.Property, error)
	ListByTenant(tenantID uint) ([]*models.Property, error)
	Create(property *models.Property) error
	Update(property *models.Property) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	CountRentals(propertyID uint) (int64, error)
}

// propertyRepository implements PropertyRepository
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new instance of PropertyRepository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// GetByID retrieves a property with its rentals loaded for policy checks
func (r *propertyRepository) GetByID(id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.Preload("Rentals").Preload("Landlord").First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) List() ([]*models.Property, error) {
	var properties []*models.Property
	if err := r.db.Preload("Landlord").Order("id").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) ListByLandlord(landlordID uint) ([]*models.Property, error) {
	var properties []*models.Property
	err := r.db.Where("landlord_id = ?", landlordID).Order("id").Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// ListByTenant retrieves properties the tenant holds a rental on
func (r *propertyRepository) ListByTenant(tenantID uint) ([]*models.Property, error) {
	var properties []*models.Property
	err := r.db.
		Joins("JOIN rentals ON rentals.property_id = properties.id").
		Where("rentals.tenant_id = ?", tenantID).
		Distinct().
		Order("properties.id").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

func (r *propertyRepository) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

func (r *propertyRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Property{}).Where("id = ?", id).Update("status", status).Error
}

func (r *propertyRepository) Delete(id uint) error {
	return r.db.Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) CountRentals(propertyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Rental{}).Where("property_id = ?", propertyID).Count(&count).Error
	return count, err
}
