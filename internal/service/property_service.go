package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

// CreatePropertyRequest carries the fields for listing a new property
type CreatePropertyRequest struct {
	Name               string          `json:"name" binding:"required"`
	Type               string          `json:"type" binding:"required,oneof=apartment house condo commercial"`
	Address            string          `json:"address" binding:"required"`
	City               string          `json:"city" binding:"required"`
	State              string          `json:"state"`
	ZipCode            string          `json:"zip_code"`
	Country            string          `json:"country"`
	Description        string          `json:"description"`
	MonthlyRent        decimal.Decimal `json:"monthly_rent" binding:"required"`
	Bedrooms           int             `json:"bedrooms"`
	Bathrooms          int             `json:"bathrooms"`
	SquareFeet         int             `json:"square_feet"`
	AvailableFrom      *time.Time      `json:"available_from"`
	MinimumLeaseMonths int             `json:"minimum_lease_months"`
	LandlordID         *uint           `json:"landlord_id"`
}

// UpdatePropertyRequest carries the mutable property fields
type UpdatePropertyRequest struct {
	Name               *string          `json:"name"`
	Type               *string          `json:"type" binding:"omitempty,oneof=apartment house condo commercial"`
	Address            *string          `json:"address"`
	City               *string          `json:"city"`
	State              *string          `json:"state"`
	ZipCode            *string          `json:"zip_code"`
	Country            *string          `json:"country"`
	Description        *string          `json:"description"`
	MonthlyRent        *decimal.Decimal `json:"monthly_rent"`
	Status             *string          `json:"status" binding:"omitempty,oneof=available rented maintenance inactive"`
	Bedrooms           *int             `json:"bedrooms"`
	Bathrooms          *int             `json:"bathrooms"`
	SquareFeet         *int             `json:"square_feet"`
	AvailableFrom      *time.Time       `json:"available_from"`
	MinimumLeaseMonths *int             `json:"minimum_lease_months"`
}

// PropertyService defines the interface for property business logic
type PropertyService interface {
	List(actor *models.User) ([]*models.Property, error)
	Get(actor *models.User, id uint) (*models.Property, error)
	Create(actor *models.User, req *CreatePropertyRequest) (*models.Property, error)
	Update(actor *models.User, id uint, req *UpdatePropertyRequest) (*models.Property, error)
	Delete(actor *models.User, id uint) error
}

// propertyService implements PropertyService
type propertyService struct {
	propertyRepo repository.PropertyRepository
	logger       *logger.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(propertyRepo repository.PropertyRepository, logger *logger.Logger) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// List returns the properties visible to the actor. Tenants see the
// properties they rent, landlords their own, superusers everything.
func (s *propertyService) List(actor *models.User) ([]*models.Property, error) {
	switch {
	case actor.IsSuperuser():
		return s.propertyRepo.List()
	case actor.IsLandlord():
		return s.propertyRepo.ListByLandlord(actor.ID)
	default:
		return s.propertyRepo.ListByTenant(actor.ID)
	}
}

// Get returns one property
func (s *propertyService) Get(actor *models.User, id uint) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("property", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanViewProperty(actor, property) {
		return nil, apperrors.WrapForbidden("view", "property")
	}
	return property, nil
}

// Create lists a new property. Landlords own what they create; superusers
// may create on behalf of another landlord via landlord_id.
func (s *propertyService) Create(actor *models.User, req *CreatePropertyRequest) (*models.Property, error) {
	if !policy.CanCreateProperty(actor) {
		return nil, apperrors.WrapForbidden("create", "property")
	}
	if req.MonthlyRent.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WrapValidation("monthly_rent must be positive")
	}

	landlordID := actor.ID
	if req.LandlordID != nil {
		if !actor.IsSuperuser() {
			return nil, apperrors.WrapForbidden("assign landlord on", "property")
		}
		landlordID = *req.LandlordID
	}

	property := &models.Property{
		LandlordID:         landlordID,
		Name:               req.Name,
		Type:               req.Type,
		Address:            req.Address,
		City:               req.City,
		State:              req.State,
		ZipCode:            req.ZipCode,
		Country:            req.Country,
		Description:        req.Description,
		MonthlyRent:        req.MonthlyRent,
		Status:             models.PropertyStatusAvailable,
		Bedrooms:           req.Bedrooms,
		Bathrooms:          req.Bathrooms,
		SquareFeet:         req.SquareFeet,
		AvailableFrom:      req.AvailableFrom,
		MinimumLeaseMonths: req.MinimumLeaseMonths,
	}

	if err := s.propertyRepo.Create(property); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"property_id": property.ID,
		"landlord_id": property.LandlordID,
	}).Info("Property created")
	return property, nil
}

// Update applies changes to a property
func (s *propertyService) Update(actor *models.User, id uint, req *UpdatePropertyRequest) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("property", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanUpdateProperty(actor, property) {
		return nil, apperrors.WrapForbidden("update", "property")
	}

	if req.MonthlyRent != nil {
		if req.MonthlyRent.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.WrapValidation("monthly_rent must be positive")
		}
		property.MonthlyRent = *req.MonthlyRent
	}
	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Type != nil {
		property.Type = *req.Type
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.ZipCode != nil {
		property.ZipCode = *req.ZipCode
	}
	if req.Country != nil {
		property.Country = *req.Country
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Status != nil {
		property.Status = *req.Status
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.SquareFeet != nil {
		property.SquareFeet = *req.SquareFeet
	}
	if req.AvailableFrom != nil {
		property.AvailableFrom = req.AvailableFrom
	}
	if req.MinimumLeaseMonths != nil {
		property.MinimumLeaseMonths = *req.MinimumLeaseMonths
	}

	if err := s.propertyRepo.Update(property); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return property, nil
}

// Delete removes a property. Properties with rentals on record cannot be
// deleted.
func (s *propertyService) Delete(actor *models.User, id uint) error {
	property, err := s.propertyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapNotFound("property", id)
		}
		return apperrors.WrapDatabaseError(err)
	}

	if !policy.CanDeleteProperty(actor, property) {
		return apperrors.WrapForbidden("delete", "property")
	}

	count, err := s.propertyRepo.CountRentals(id)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if count > 0 {
		return apperrors.WrapConflict("property has rentals on record")
	}

	if err := s.propertyRepo.Delete(id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	s.logger.WithField("property_id", id).Info("Property deleted")
	return nil
}
