package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/service"
	"propman-be-svc/internal/stripe"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

// SetupRoutes wires all API routes
func SetupRoutes(
	router *gin.Engine,
	userService service.UserService,
	propertyService service.PropertyService,
	rentalService service.RentalService,
	paymentService service.PaymentService,
	maintenanceService service.MaintenanceService,
	documentService service.DocumentService,
	chatService service.ChatService,
	notificationService service.NotificationService,
	stripeClient *stripe.Client,
	jwtSecret string,
	logger *logger.Logger,
) {
	// Initialize handlers
	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	propertyHandler := NewPropertyHandler(propertyService, logger)
	rentalHandler := NewRentalHandler(rentalService, logger)
	paymentHandler := NewPaymentHandler(paymentService, stripeClient, logger)
	maintenanceHandler := NewMaintenanceHandler(maintenanceService, logger)
	documentHandler := NewDocumentHandler(documentService, logger)
	chatHandler := NewChatHandler(chatService, logger)
	notificationHandler := NewNotificationHandler(notificationService, logger)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		// Public auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Stripe webhook, authenticated by signature instead of a token
		v1.POST("/webhooks/stripe", paymentHandler.StripeWebhook)

		// Everything below requires a bearer token
		authed := v1.Group("")
		authed.Use(middleware.Auth(userService, jwtSecret))

		users := authed.Group("/users")
		{
			users.GET("/me", userHandler.Me)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		properties := authed.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.POST("", propertyHandler.Create)
			properties.GET("/:id", propertyHandler.Get)
			properties.PUT("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)

			// Property chat thread
			properties.GET("/:id/messages", chatHandler.ListMessages)
			properties.POST("/:id/messages", chatHandler.SendMessage)
		}

		rentals := authed.Group("/rentals")
		{
			rentals.GET("", rentalHandler.List)
			rentals.POST("", rentalHandler.Create)
			rentals.GET("/:id", rentalHandler.Get)
			rentals.PUT("/:id", rentalHandler.Update)
			rentals.POST("/:id/terminate", rentalHandler.Terminate)
			rentals.DELETE("/:id", rentalHandler.Delete)
		}

		payments := authed.Group("/payments")
		{
			payments.GET("", paymentHandler.List)
			payments.POST("", paymentHandler.Create)
			payments.GET("/export", paymentHandler.Export)
			payments.GET("/:id", paymentHandler.Get)
			payments.PUT("/:id", paymentHandler.Update)
			payments.DELETE("/:id", paymentHandler.Delete)
		}

		maintenance := authed.Group("/maintenance-requests")
		{
			maintenance.GET("", maintenanceHandler.List)
			maintenance.POST("", maintenanceHandler.Create)
			maintenance.GET("/:id", maintenanceHandler.Get)
			maintenance.PUT("/:id", maintenanceHandler.Update)
			maintenance.DELETE("/:id", maintenanceHandler.Delete)
		}

		documents := authed.Group("/documents")
		{
			documents.GET("", documentHandler.List)
			documents.POST("", documentHandler.Upload)
			documents.GET("/:id", documentHandler.Get)
			documents.GET("/:id/download", documentHandler.Download)
			documents.PUT("/:id", documentHandler.Update)
			documents.DELETE("/:id", documentHandler.Delete)
		}

		messages := authed.Group("/messages")
		{
			messages.POST("/read", chatHandler.MarkRead)
			messages.DELETE("/:id", chatHandler.DeleteMessage)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/read", notificationHandler.MarkRead)
		}
	}
}

// HealthCheck handles GET /api/v1/health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} utils.APIResponse "Service is healthy"
// @Router /api/v1/health [get]
func HealthCheck(c *gin.Context) {
	utils.SuccessResponse(c, "Service is healthy", gin.H{
		"status": http.StatusText(http.StatusOK),
	})
}
