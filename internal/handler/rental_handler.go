package handler

import (
	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/models"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// RentalHandler handles rental-related HTTP requests
type RentalHandler struct {
	rentalService service.RentalService
	logger        *logger.Logger
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(rentalService service.RentalService, logger *logger.Logger) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		logger:        logger,
	}
}

// RentalDetailResponse is a rental with its payment statistics
type RentalDetailResponse struct {
	Rental     *models.Rental             `json:"rental"`
	Statistics *service.PaymentStatistics `json:"statistics"`
}

// List handles GET /api/v1/rentals
// @Summary List rentals
// @Description List the rentals visible to the caller
// @Tags rentals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.Rental} "Rentals retrieved"
// @Router /api/v1/rentals [get]
func (h *RentalHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	rentals, err := h.rentalService.List(actor)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list rentals")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rentals retrieved successfully", rentals)
}

// Get handles GET /api/v1/rentals/:id
// @Summary Get a rental with its payments and statistics
// @Tags rentals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rental ID"
// @Success 200 {object} utils.APIResponse{data=RentalDetailResponse} "Rental retrieved"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/rentals/{id} [get]
func (h *RentalHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	rental, stats, err := h.rentalService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rental retrieved successfully", RentalDetailResponse{
		Rental:     rental,
		Statistics: stats,
	})
}

// Create handles POST /api/v1/rentals
// @Summary Create a rental
// @Description Open a lease on an available property and generate its payment schedule
// @Tags rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateRentalRequest true "Rental payload"
// @Success 201 {object} utils.APIResponse{data=models.Rental} "Rental created"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 422 {object} utils.APIResponse "Property not available"
// @Router /api/v1/rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req service.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid rental payload", err)
		return
	}

	rental, err := h.rentalService.Create(actor, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create rental")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Rental created successfully", rental)
}

// Update handles PUT /api/v1/rentals/:id
// @Summary Update a rental
// @Description Change lease terms; rent or due day changes rewrite future pending payments
// @Tags rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rental ID"
// @Param request body service.UpdateRentalRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=models.Rental} "Rental updated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/rentals/{id} [put]
func (h *RentalHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.UpdateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid rental payload", err)
		return
	}

	rental, err := h.rentalService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rental updated successfully", rental)
}

// Terminate handles POST /api/v1/rentals/:id/terminate
// @Summary Terminate a rental
// @Description End the lease and release the property
// @Tags rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rental ID"
// @Param request body service.TerminateRentalRequest false "Termination details"
// @Success 200 {object} utils.APIResponse{data=models.Rental} "Rental terminated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 409 {object} utils.APIResponse "Already terminated"
// @Router /api/v1/rentals/{id}/terminate [post]
func (h *RentalHandler) Terminate(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.TerminateRentalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request body", err)
			return
		}
	}

	rental, err := h.rentalService.Terminate(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rental terminated successfully", rental)
}

// Delete handles DELETE /api/v1/rentals/:id
// @Summary Delete a rental
// @Tags rentals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rental ID"
// @Success 204 "Rental deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/rentals/{id} [delete]
func (h *RentalHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.rentalService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
