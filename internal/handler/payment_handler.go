package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/internal/stripe"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

const maxWebhookBody = 64 << 10 // Stripe events are small

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
	stripeClient   *stripe.Client
	logger         *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService service.PaymentService, stripeClient *stripe.Client, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		stripeClient:   stripeClient,
		logger:         logger,
	}
}

// List handles GET /api/v1/payments
// @Summary List payments
// @Description List the payments visible to the caller
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.Payment} "Payments retrieved"
// @Router /api/v1/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	payments, err := h.paymentService.List(actor)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list payments")
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payments retrieved successfully", payments)
}

// Get handles GET /api/v1/payments/:id
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} utils.APIResponse{data=models.Payment} "Payment retrieved"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	payment, err := h.paymentService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment retrieved successfully", payment)
}

// Create handles POST /api/v1/payments
// @Summary Record a payment
// @Description Cash and check settle immediately; card payments return a Stripe client secret
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} utils.APIResponse{data=service.PaymentResult} "Payment recorded"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 409 {object} utils.APIResponse "Cycle already paid"
// @Router /api/v1/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid payment payload", err)
		return
	}

	result, err := h.paymentService.Create(actor, &req)
	if err != nil {
		h.logger.WithError(err).WithField("rental_id", req.RentalID).Error("Failed to record payment")
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Payment recorded successfully", result)
}

// Update handles PUT /api/v1/payments/:id
// @Summary Update a payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param request body service.UpdatePaymentRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=models.Payment} "Payment updated"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req service.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid payment payload", err)
		return
	}

	payment, err := h.paymentService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment updated successfully", payment)
}

// Delete handles DELETE /api/v1/payments/:id
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 204 "Payment deleted"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.paymentService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Export handles GET /api/v1/payments/export
// @Summary Export payments to Excel
// @Description Download the caller's visible payments as an xlsx workbook
// @Tags payments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary "Workbook"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	content, filename, err := h.paymentService.ExportToExcel(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// StripeWebhook handles POST /api/v1/webhooks/stripe
// @Summary Stripe webhook
// @Description Verify the event signature and apply payment intent outcomes
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Event signature"
// @Success 200 {object} utils.APIResponse "Event processed"
// @Failure 400 {object} utils.APIResponse "Invalid signature"
// @Router /api/v1/webhooks/stripe [post]
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	if h.stripeClient == nil {
		utils.BadRequestResponse(c, "Stripe is not configured", nil)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read webhook body", err)
		return
	}

	event, err := h.stripeClient.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.WithError(err).Warn("Rejected Stripe webhook")
		utils.BadRequestResponse(c, "Invalid webhook signature", nil)
		return
	}

	if err := h.paymentService.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		h.logger.WithError(err).WithField("event_id", event.ID).Error("Failed to process Stripe event")
		utils.InternalServerErrorResponse(c, "Failed to process event", err)
		return
	}

	utils.SuccessResponse(c, "Event processed", nil)
}
