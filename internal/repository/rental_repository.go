package repository

import (
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// RentalRepository defines the interface for rental data operations
type RentalRepository interface {
	GetByID(id uint) (*models.Rental, error)
	GetWithPayments(id uint) (*models.Rental, error)
	List() ([]*models.Rental, error)
	ListByLandlord(landlordID uint) ([]*models.Rental, error)
	ListByTenant(tenantID uint) ([]*models.Rental, error)
	ListActive() ([]*models.Rental, error)
	Create(rental *models.Rental) error
	Update(rental *models.Rental) error
	Delete(id uint) error
}

// rentalRepository implements RentalRepository
type rentalRepository struct {
	db *gorm.DB
}

// NewRentalRepository creates a new instance of RentalRepository
func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

// GetByID retrieves a rental with property and tenant loaded for policy checks
func (r *rentalRepository) GetByID(id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.Preload("Property").Preload("Tenant").First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) GetWithPayments(id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.
		Preload("Property").
		Preload("Tenant").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.due_date")
		}).
		First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) List() ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.Preload("Property").Preload("Tenant").Order("id").Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) ListByLandlord(landlordID uint) ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.
		Joins("JOIN properties ON properties.id = rentals.property_id").
		Where("properties.landlord_id = ?", landlordID).
		Preload("Property").Preload("Tenant").
		Order("rentals.id").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) ListByTenant(tenantID uint) ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.Where("tenant_id = ?", tenantID).
		Preload("Property").
		Order("id").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

// ListActive retrieves active rentals with the relations the scheduled jobs
// need: tenant, property and the property's landlord.
func (r *rentalRepository) ListActive() ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.Where("status = ?", models.RentalStatusActive).
		Preload("Tenant").
		Preload("Property").
		Preload("Property.Landlord").
		Order("id").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) Create(rental *models.Rental) error {
	return r.db.Create(rental).Error
}

func (r *rentalRepository) Update(rental *models.Rental) error {
	return r.db.Save(rental).Error
}

func (r *rentalRepository) Delete(id uint) error {
	return r.db.Delete(&models.Rental{}, id).Error
}
