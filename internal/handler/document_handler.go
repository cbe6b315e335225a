package handler

import (
	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// DocumentHandler handles document HTTP endpoints
type DocumentHandler struct {
	documentService service.DocumentService
	logger          *logger.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService service.DocumentService, logger *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.Document} "Documents retrieved"
// @Router /api/v1/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	documents, err := h.documentService.List(actor)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list documents")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Documents retrieved successfully", documents)
}

// Get handles GET /api/v1/documents/:id
// @Summary Get a document record
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} utils.APIResponse{data=models.Document} "Document retrieved"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	document, err := h.documentService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Document retrieved successfully", document)
}

// Upload handles POST /api/v1/documents
// @Summary Upload a document
// @Description Multipart upload with metadata fields alongside the file
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param property_id formData int true "Property ID"
// @Param title formData string true "Title"
// @Param type formData string true "Document type"
// @Param file formData file true "File"
// @Success 201 {object} utils.APIResponse{data=models.Document} "Document uploaded"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req service.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid document payload", err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err)
		return
	}

	document, err := h.documentService.Upload(actor, &req, file)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upload document")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Document uploaded successfully", document)
}

// Update handles PUT /api/v1/documents/:id
// @Summary Update document metadata
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param request body service.UpdateDocumentRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=models.Document} "Document updated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/documents/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid document payload", err)
		return
	}

	document, err := h.documentService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Document updated successfully", document)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 204 "Document deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.documentService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Download handles GET /api/v1/documents/:id/download
// @Summary Download a document file
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {file} binary "File"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	path, mimeType, err := h.documentService.FilePath(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", mimeType)
	c.File(path)
}
