package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propman-be-svc/internal/models"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	GetByID(id uint) (*models.Payment, error)
	GetByStripeIntentID(intentID string) (*models.Payment, error)
	List() ([]*models.Payment, error)
	ListByLandlord(landlordID uint) ([]*models.Payment, error)
	ListByTenant(tenantID uint) ([]*models.Payment, error)
	ListByRental(rentalID uint) ([]*models.Payment, error)
	ListFuturePending(rentalID uint, after time.Time) ([]*models.Payment, error)
	GetLatestCompleted(rentalID uint) (*models.Payment, error)
	Create(payment *models.Payment) error
	CreateBatch(payments []*models.Payment) error
	CreateIfMissing(payment *models.Payment) (bool, error)
	Update(payment *models.Payment) error
	Delete(id uint) error
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByID retrieves a payment with rental and property loaded for policy checks
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Preload("Rental").Preload("Rental.Property").First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetByStripeIntentID(intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List() ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.Preload("Rental").Preload("Rental.Property").
		Order("due_date").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListByLandlord(landlordID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.
		Joins("JOIN rentals ON rentals.id = payments.rental_id").
		Joins("JOIN properties ON properties.id = rentals.property_id").
		Where("properties.landlord_id = ?", landlordID).
		Preload("Rental").Preload("Rental.Property").
		Order("payments.due_date").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListByTenant(tenantID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.
		Joins("JOIN rentals ON rentals.id = payments.rental_id").
		Where("rentals.tenant_id = ?", tenantID).
		Preload("Rental").Preload("Rental.Property").
		Order("payments.due_date").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListByRental(rentalID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.Where("rental_id = ?", rentalID).Order("due_date").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListFuturePending retrieves pending payments with a due date strictly
// after the given instant. Used by schedule recalculation, which must not
// touch past or terminal payments.
func (r *paymentRepository) ListFuturePending(rentalID uint, after time.Time) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.
		Where("rental_id = ? AND status = ? AND due_date > ?", rentalID, models.PaymentStatusPending, after).
		Order("due_date").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// GetLatestCompleted retrieves the most recent completed payment for a
// rental, ordered by payment date. Returns gorm.ErrRecordNotFound when the
// rental has no completed payments yet.
func (r *paymentRepository) GetLatestCompleted(rentalID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.
		Where("rental_id = ? AND status = ?", rentalID, models.PaymentStatusCompleted).
		Order("payment_date DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) CreateBatch(payments []*models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.CreateInBatches(payments, 100).Error
}

// CreateIfMissing inserts the payment unless a record for the same
// (rental_id, due_date) cycle already exists. A conflicting concurrent
// insert is reported as created=false, not as an error.
func (r *paymentRepository) CreateIfMissing(payment *models.Payment) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rental_id"}, {Name: "due_date"}},
		DoNothing: true,
	}).Create(payment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *paymentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Payment{}, id).Error
}
