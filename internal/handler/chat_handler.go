package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// ChatHandler handles property chat HTTP endpoints
type ChatHandler struct {
	chatService service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// MarkReadRequest lists message IDs to stamp as read
type MarkReadRequest struct {
	MessageIDs []uint `json:"message_ids" binding:"required,min=1"`
}

// ListMessages handles GET /api/v1/properties/:id/messages
// @Summary List chat messages on a property
// @Description Paged thread, newest first
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.PaginatedResponse "Messages retrieved"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/properties/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	propertyID, err := parseID(c)
	if err != nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	messages, total, err := h.chatService.ListMessages(actor, propertyID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Messages retrieved successfully", messages, page, limit, total)
}

// SendMessage handles POST /api/v1/properties/:id/messages
// @Summary Send a chat message
// @Description Both sender and recipient must be connected to the property
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param request body service.SendMessageRequest true "Message payload"
// @Success 201 {object} utils.APIResponse{data=models.ChatMessage} "Message sent"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/properties/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	propertyID, err := parseID(c)
	if err != nil {
		return
	}

	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid message payload", err)
		return
	}

	message, err := h.chatService.Send(actor, propertyID, &req)
	if err != nil {
		h.logger.WithError(err).WithField("property_id", propertyID).Error("Failed to send message")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Message sent successfully", message)
}

// MarkRead handles POST /api/v1/messages/read
// @Summary Mark messages as read
// @Description Only messages addressed to the caller are stamped
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MarkReadRequest true "Message IDs"
// @Success 200 {object} utils.APIResponse "Messages marked read"
// @Router /api/v1/messages/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid payload", err)
		return
	}

	if err := h.chatService.MarkRead(actor, req.MessageIDs); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Messages marked as read", nil)
}

// DeleteMessage handles DELETE /api/v1/messages/:id
// @Summary Delete a chat message
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 204 "Message deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/messages/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.chatService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
