package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// PropertyHandler handles property-related HTTP requests
type PropertyHandler struct {
	propertyService service.PropertyService
	logger          *logger.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService service.PropertyService, logger *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// List handles GET /api/v1/properties
// @Summary List properties
// @Description List the properties visible to the caller
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.Property} "Properties retrieved"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	properties, err := h.propertyService.List(actor)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list properties")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Properties retrieved successfully", properties)
}

// Get handles GET /api/v1/properties/:id
// @Summary Get a property
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 200 {object} utils.APIResponse{data=models.Property} "Property retrieved"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	property, err := h.propertyService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Property retrieved successfully", property)
}

// Create handles POST /api/v1/properties
// @Summary Create a property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePropertyRequest true "Property payload"
// @Success 201 {object} utils.APIResponse{data=models.Property} "Property created"
// @Failure 400 {object} utils.APIResponse "Invalid payload"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req service.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid property payload", err)
		return
	}

	property, err := h.propertyService.Create(actor, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create property")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Property created successfully", property)
}

// Update handles PUT /api/v1/properties/:id
// @Summary Update a property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param request body service.UpdatePropertyRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=models.Property} "Property updated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid property payload", err)
		return
	}

	property, err := h.propertyService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Property updated successfully", property)
}

// Delete handles DELETE /api/v1/properties/:id
// @Summary Delete a property
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 204 "Property deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 409 {object} utils.APIResponse "Property has rentals"
// @Router /api/v1/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.propertyService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// parseID reads the :id path parameter, writing the 400 itself on failure
func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID parameter", err)
		return 0, err
	}
	return uint(id), nil
}
