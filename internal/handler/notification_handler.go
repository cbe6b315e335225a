package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// NotificationHandler handles the in-app notification inbox
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService service.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// MarkNotificationsReadRequest lists notification IDs to stamp as read
type MarkNotificationsReadRequest struct {
	NotificationIDs []uint `json:"notification_ids" binding:"required,min=1"`
}

// List handles GET /api/v1/notifications
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Success 200 {object} utils.APIResponse{data=[]models.Notification} "Notifications retrieved"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	notifications, err := h.notificationService.ListForUser(actor.ID, unreadOnly)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list notifications")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notifications retrieved successfully", notifications)
}

// MarkRead handles POST /api/v1/notifications/read
// @Summary Mark notifications as read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MarkNotificationsReadRequest true "Notification IDs"
// @Success 200 {object} utils.APIResponse "Notifications marked read"
// @Router /api/v1/notifications/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid payload", err)
		return
	}

	if err := h.notificationService.MarkRead(req.NotificationIDs, actor.ID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notifications marked as read", nil)
}
