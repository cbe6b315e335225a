package repository

import (
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// DocumentRepository defines the interface for document data operations
type DocumentRepository interface {
	GetByID(id uint) (*models.Document, error)
	List() ([]*models.Document, error)
	ListByLandlord(landlordID uint) ([]*models.Document, error)
	ListByTenant(tenantID uint) ([]*models.Document, error)
	Create(document *models.Document) error
	Update(document *models.Document) error
	Delete(id uint) error
}

// documentRepository implements DocumentRepository
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// GetByID retrieves a document with the property and its rentals loaded for
// policy checks.
func (r *documentRepository) GetByID(id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.
		Preload("Property").Preload("Property.Rentals").Preload("User").
		First(&document, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) List() ([]*models.Document, error) {
	var documents []*models.Document
	err := r.db.Preload("Property").Preload("User").Order("id").Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *documentRepository) ListByLandlord(landlordID uint) ([]*models.Document, error) {
	var documents []*models.Document
	err := r.db.
		Joins("JOIN properties ON properties.id = documents.property_id").
		Where("properties.landlord_id = ?", landlordID).
		Preload("Property").Preload("User").
		Order("documents.id").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// ListByTenant retrieves documents the tenant uploaded plus documents on
// properties they rent.
func (r *documentRepository) ListByTenant(tenantID uint) ([]*models.Document, error) {
	var documents []*models.Document
	err := r.db.
		Joins("LEFT JOIN rentals ON rentals.property_id = documents.property_id").
		Where("documents.user_id = ? OR rentals.tenant_id = ?", tenantID, tenantID).
		Preload("Property").
		Distinct().
		Order("documents.id").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *documentRepository) Create(document *models.Document) error {
	return r.db.Create(document).Error
}

func (r *documentRepository) Update(document *models.Document) error {
	return r.db.Save(document).Error
}

func (r *documentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Document{}, id).Error
}
