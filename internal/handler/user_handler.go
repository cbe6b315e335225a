package handler

import (
	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// UserHandler handles account HTTP endpoints
type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Me handles GET /api/v1/users/me
// @Summary Get the authenticated account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=models.User} "Account retrieved"
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	utils.SuccessResponse(c, "Account retrieved successfully", middleware.CurrentUser(c))
}

// List handles GET /api/v1/users
// @Summary List accounts
// @Description Superusers only
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.User} "Accounts retrieved"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	users, err := h.userService.List(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Accounts retrieved successfully", users)
}

// Get handles GET /api/v1/users/:id
// @Summary Get an account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.APIResponse{data=models.User} "Account retrieved"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	user, err := h.userService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account retrieved successfully", user)
}

// Update handles PUT /api/v1/users/:id
// @Summary Update an account
// @Description Users edit their own profile; role and status changes need a superuser
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body service.UpdateUserRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=models.User} "Account updated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid user payload", err)
		return
	}

	user, err := h.userService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account updated successfully", user)
}

// Delete handles DELETE /api/v1/users/:id
// @Summary Delete an account
// @Description Superusers only; self-deletion is rejected
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "Account deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.userService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
