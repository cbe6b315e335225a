package handler

import (
	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// MaintenanceHandler handles maintenance request HTTP endpoints
type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	logger             *logger.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService service.MaintenanceService, logger *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// List handles GET /api/v1/maintenance-requests
// @Summary List maintenance requests
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.MaintenanceRequest} "Requests retrieved"
// @Router /api/v1/maintenance-requests [get]
func (h *MaintenanceHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	requests, err := h.maintenanceService.List(actor)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list maintenance requests")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Maintenance requests retrieved successfully", requests)
}

// Get handles GET /api/v1/maintenance-requests/:id
// @Summary Get a maintenance request
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} utils.APIResponse{data=models.MaintenanceRequest} "Request retrieved"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/maintenance-requests/{id} [get]
func (h *MaintenanceHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	request, err := h.maintenanceService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Maintenance request retrieved successfully", request)
}

// Create handles POST /api/v1/maintenance-requests
// @Summary Report a maintenance issue
// @Description Tenants with an active rental on the property may open tickets
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateMaintenanceRequest true "Ticket payload"
// @Success 201 {object} utils.APIResponse{data=models.MaintenanceRequest} "Request created"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/maintenance-requests [post]
func (h *MaintenanceHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req service.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid maintenance payload", err)
		return
	}

	request, err := h.maintenanceService.Create(actor, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create maintenance request")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Maintenance request created successfully", request)
}

// Update handles PUT /api/v1/maintenance-requests/:id
// @Summary Update a maintenance request
// @Description Status moves notify the tenant; assignment notifies the assignee
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body service.UpdateMaintenanceRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=models.MaintenanceRequest} "Request updated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/maintenance-requests/{id} [put]
func (h *MaintenanceHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid maintenance payload", err)
		return
	}

	request, err := h.maintenanceService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Maintenance request updated successfully", request)
}

// Delete handles DELETE /api/v1/maintenance-requests/:id
// @Summary Delete a maintenance request
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 204 "Request deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/maintenance-requests/{id} [delete]
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.maintenanceService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
