package handler

import (
	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService service.UserService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles POST /api/v1/auth/register
// @Summary Register a new account
// @Description Create a landlord or tenant account and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse{data=service.AuthResult} "Account created"
// @Failure 400 {object} utils.APIResponse "Invalid payload"
// @Failure 409 {object} utils.APIResponse "Email already registered"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid registration payload", err)
		return
	}

	result, err := h.userService.Register(&req)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Error("Registration failed")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Account created successfully", result)
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Verify credentials and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=service.AuthResult} "Logged in"
// @Failure 400 {object} utils.APIResponse "Invalid payload"
// @Failure 403 {object} utils.APIResponse "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid login payload", err)
		return
	}

	result, err := h.userService.Login(&req)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Warn("Login failed")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", result)
}
