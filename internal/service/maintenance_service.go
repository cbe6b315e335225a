package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

// CreateMaintenanceRequest opens a maintenance ticket on a rented property
type CreateMaintenanceRequest struct {
	PropertyID  uint   `json:"property_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
}

// UpdateMaintenanceRequest carries the mutable ticket fields
type UpdateMaintenanceRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Priority      *string          `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	Status        *string          `json:"status" binding:"omitempty,oneof=pending approved in_progress completed rejected"`
	AssignedTo    *uint            `json:"assigned_to"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
}

// MaintenanceService defines the interface for maintenance request logic
type MaintenanceService interface {
	List(actor *models.User) ([]*models.MaintenanceRequest, error)
	Get(actor *models.User, id uint) (*models.MaintenanceRequest, error)
	Create(actor *models.User, req *CreateMaintenanceRequest) (*models.MaintenanceRequest, error)
	Update(actor *models.User, id uint, req *UpdateMaintenanceRequest) (*models.MaintenanceRequest, error)
	Delete(actor *models.User, id uint) error
}

// maintenanceService implements MaintenanceService
type maintenanceService struct {
	maintenanceRepo repository.MaintenanceRepository
	propertyRepo    repository.PropertyRepository
	userRepo        repository.UserRepository
	notifier        NotificationService
	logger          *logger.Logger
	now             func() time.Time
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	maintenanceRepo repository.MaintenanceRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	logger *logger.Logger,
) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		propertyRepo:    propertyRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
		now:             time.Now,
	}
}

// List returns the maintenance requests visible to the actor
func (s *maintenanceService) List(actor *models.User) ([]*models.MaintenanceRequest, error) {
	switch {
	case actor.IsSuperuser():
		return s.maintenanceRepo.List()
	case actor.IsLandlord():
		return s.maintenanceRepo.ListByLandlord(actor.ID)
	default:
		return s.maintenanceRepo.ListByTenant(actor.ID)
	}
}

// Get returns one maintenance request
func (s *maintenanceService) Get(actor *models.User, id uint) (*models.MaintenanceRequest, error) {
	request, err := s.maintenanceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("maintenance request", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanViewMaintenanceRequest(actor, request) {
		return nil, apperrors.WrapForbidden("view", "maintenance request")
	}
	return request, nil
}

// Create opens a ticket. Only tenants holding an active rental on the
// property may report issues for it. The landlord is notified.
func (s *maintenanceService) Create(actor *models.User, req *CreateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	if !policy.CanCreateMaintenanceRequest(actor) {
		return nil, apperrors.WrapForbidden("create", "maintenance request")
	}

	property, err := s.propertyRepo.GetByID(req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("property", req.PropertyID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !s.hasActiveRental(actor, property) {
		return nil, apperrors.WrapForbidden("report issues on", "property")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	request := &models.MaintenanceRequest{
		PropertyID:  req.PropertyID,
		TenantID:    actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      models.MaintenanceStatusPending,
	}

	if err := s.maintenanceRepo.Create(request); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if property.Landlord != nil {
		s.notify(property.Landlord, models.NotificationMaintenanceStatus,
			"New maintenance request",
			fmt.Sprintf("%q was reported for %s (priority %s).", req.Title, property.Name, priority),
			request.ID)
	}

	s.logger.WithFields(map[string]interface{}{
		"request_id":  request.ID,
		"property_id": request.PropertyID,
		"priority":    priority,
	}).Info("Maintenance request created")
	return request, nil
}

// Update applies ticket changes. A move to completed stamps completed_at;
// status changes notify the reporting tenant; assignment requires landlord
// or superuser rights and notifies the assignee.
func (s *maintenanceService) Update(actor *models.User, id uint, req *UpdateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	request, err := s.maintenanceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("maintenance request", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanUpdateMaintenanceRequest(actor, request) {
		return nil, apperrors.WrapForbidden("update", "maintenance request")
	}

	if req.Title != nil {
		request.Title = *req.Title
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.Priority != nil {
		request.Priority = *req.Priority
	}
	if req.EstimatedCost != nil {
		request.EstimatedCost = req.EstimatedCost
	}
	if req.ActualCost != nil {
		request.ActualCost = req.ActualCost
	}

	var assignee *models.User
	if req.AssignedTo != nil {
		if !policy.CanAssignMaintenanceRequest(actor, request) {
			return nil, apperrors.WrapForbidden("assign", "maintenance request")
		}
		assignee, err = s.userRepo.GetByID(*req.AssignedTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapNotFound("user", *req.AssignedTo)
			}
			return nil, apperrors.WrapDatabaseError(err)
		}
		request.AssignedTo = req.AssignedTo
	}

	statusChanged := false
	if req.Status != nil && *req.Status != request.Status {
		request.Status = *req.Status
		statusChanged = true
		if *req.Status == models.MaintenanceStatusCompleted {
			completedAt := s.now()
			request.CompletedAt = &completedAt
		} else {
			request.CompletedAt = nil
		}
	}

	if err := s.maintenanceRepo.Update(request); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if statusChanged && request.Tenant != nil {
		s.notify(request.Tenant, models.NotificationMaintenanceStatus,
			"Maintenance request updated",
			fmt.Sprintf("%q is now %s.", request.Title, request.Status),
			request.ID)
	}
	if assignee != nil {
		s.notify(assignee, models.NotificationMaintenanceStatus,
			"Maintenance request assigned to you",
			fmt.Sprintf("%q has been assigned to you.", request.Title),
			request.ID)
	}

	return request, nil
}

// Delete removes a ticket
func (s *maintenanceService) Delete(actor *models.User, id uint) error {
	request, err := s.maintenanceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapNotFound("maintenance request", id)
		}
		return apperrors.WrapDatabaseError(err)
	}

	if !policy.CanDeleteMaintenanceRequest(actor, request) {
		return apperrors.WrapForbidden("delete", "maintenance request")
	}
	return s.maintenanceRepo.Delete(id)
}

func (s *maintenanceService) hasActiveRental(actor *models.User, property *models.Property) bool {
	if actor.IsSuperuser() {
		return true
	}
	for i := range property.Rentals {
		r := &property.Rentals[i]
		if r.TenantID == actor.ID && r.IsActive() {
			return true
		}
	}
	return false
}

func (s *maintenanceService) notify(user *models.User, kind, subject, body string, requestID uint) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(context.Background(), user, kind, subject, body, map[string]interface{}{
		"maintenance_request_id": requestID,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to send maintenance notification")
	}
}
