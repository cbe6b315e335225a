package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"propman-be-svc/internal/config"
	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

const maxDocumentSize = 20 << 20 // 20 MiB

// UploadDocumentRequest carries the metadata accompanying a file upload
type UploadDocumentRequest struct {
	PropertyID  uint    `form:"property_id" binding:"required"`
	Title       string  `form:"title" binding:"required"`
	Type        string  `form:"type" binding:"required,oneof=lease contract invoice receipt maintenance other"`
	Description *string `form:"description"`
}

// UpdateDocumentRequest carries the mutable document metadata
type UpdateDocumentRequest struct {
	Title       *string `json:"title"`
	Type        *string `json:"type" binding:"omitempty,oneof=lease contract invoice receipt maintenance other"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
	Description *string `json:"description"`
}

// DocumentService defines the interface for document business logic
type DocumentService interface {
	List(actor *models.User) ([]*models.Document, error)
	Get(actor *models.User, id uint) (*models.Document, error)
	Upload(actor *models.User, req *UploadDocumentRequest, file *multipart.FileHeader) (*models.Document, error)
	Update(actor *models.User, id uint, req *UpdateDocumentRequest) (*models.Document, error)
	Delete(actor *models.User, id uint) error
	FilePath(actor *models.User, id uint) (string, string, error)
}

// documentService implements DocumentService
type documentService struct {
	documentRepo repository.DocumentRepository
	propertyRepo repository.PropertyRepository
	storage      config.StorageConfig
	logger       *logger.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documentRepo repository.DocumentRepository,
	propertyRepo repository.PropertyRepository,
	storage config.StorageConfig,
	logger *logger.Logger,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		propertyRepo: propertyRepo,
		storage:      storage,
		logger:       logger,
	}
}

// List returns the documents visible to the actor. Tenants see documents
// they uploaded plus documents on properties they rent.
func (s *documentService) List(actor *models.User) ([]*models.Document, error) {
	switch {
	case actor.IsSuperuser():
		return s.documentRepo.List()
	case actor.IsLandlord():
		return s.documentRepo.ListByLandlord(actor.ID)
	default:
		return s.documentRepo.ListByTenant(actor.ID)
	}
}

// Get returns one document record
func (s *documentService) Get(actor *models.User, id uint) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("document", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanViewDocument(actor, document) {
		return nil, apperrors.WrapForbidden("view", "document")
	}
	return document, nil
}

// Upload stores the file on disk under a generated name and records its
// metadata. The uploader must be able to see the property.
func (s *documentService) Upload(actor *models.User, req *UploadDocumentRequest, file *multipart.FileHeader) (*models.Document, error) {
	if file == nil {
		return nil, apperrors.WrapValidation("file is required")
	}
	if file.Size > maxDocumentSize {
		return nil, apperrors.WrapValidation("file exceeds the 20 MB limit")
	}

	property, err := s.propertyRepo.GetByID(req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("property", req.PropertyID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	if !policy.CanViewProperty(actor, property) {
		return nil, apperrors.WrapForbidden("upload documents for", "property")
	}

	storedName := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	destination := filepath.Join(s.storage.DocumentDir, storedName)

	if err := os.MkdirAll(s.storage.DocumentDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare document storage: %w", err)
	}
	if err := saveUploadedFile(file, destination); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	document := &models.Document{
		PropertyID:  req.PropertyID,
		UserID:      actor.ID,
		Title:       req.Title,
		Type:        req.Type,
		FilePath:    destination,
		FileSize:    file.Size,
		MimeType:    mimeType,
		Status:      models.DocumentStatusPending,
		Description: req.Description,
	}

	if err := s.documentRepo.Create(document); err != nil {
		// Keep disk and database consistent
		_ = os.Remove(destination)
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"document_id": document.ID,
		"property_id": document.PropertyID,
		"size":        document.FileSize,
	}).Info("Document uploaded")
	return document, nil
}

// Update applies metadata changes; approval status changes are restricted
// to the landlord and superusers by policy
func (s *documentService) Update(actor *models.User, id uint, req *UpdateDocumentRequest) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("document", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanUpdateDocument(actor, document) {
		return nil, apperrors.WrapForbidden("update", "document")
	}

	if req.Title != nil {
		document.Title = *req.Title
	}
	if req.Type != nil {
		document.Type = *req.Type
	}
	if req.Status != nil {
		document.Status = *req.Status
	}
	if req.Description != nil {
		document.Description = req.Description
	}

	if err := s.documentRepo.Update(document); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return document, nil
}

// Delete removes the record and its file
func (s *documentService) Delete(actor *models.User, id uint) error {
	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapNotFound("document", id)
		}
		return apperrors.WrapDatabaseError(err)
	}

	if !policy.CanDeleteDocument(actor, document) {
		return apperrors.WrapForbidden("delete", "document")
	}

	if err := s.documentRepo.Delete(id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if err := os.Remove(document.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("path", document.FilePath).Warn("Failed to remove document file")
	}
	return nil
}

// FilePath returns the on-disk path and mime type for download
func (s *documentService) FilePath(actor *models.User, id uint) (string, string, error) {
	document, err := s.Get(actor, id)
	if err != nil {
		return "", "", err
	}
	return document.FilePath, document.MimeType, nil
}

func saveUploadedFile(file *multipart.FileHeader, destination string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
