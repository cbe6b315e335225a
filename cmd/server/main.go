package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"propman-be-svc/docs"
	"propman-be-svc/internal/config"
	"propman-be-svc/internal/database"
	"propman-be-svc/internal/handler"
	"propman-be-svc/internal/jobs"
	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/scheduler"
	"propman-be-svc/internal/service"
	"propman-be-svc/internal/stripe"
	"propman-be-svc/pkg/logger"
)

// @title Property Management API
// @version 1.0
// @description RESTful API for multi-tenant property management

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Swagger documentation
	docs.SwaggerInfo.Title = "Property Management API"
	docs.SwaggerInfo.Description = "RESTful API for multi-tenant property management"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Server.Port)
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting Property Management Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Initialize redis. Optional: notification dedupe and job locks degrade
	// gracefully without it.
	var redisClient *redis.Client
	if client, err := database.NewRedisClient(&cfg.Redis); err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, dedupe and job locks disabled")
	} else {
		redisClient = client
		appLogger.Info("Redis connected successfully")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	propertyRepo := repository.NewPropertyRepository(db.DB)
	rentalRepo := repository.NewRentalRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	maintenanceRepo := repository.NewMaintenanceRepository(db.DB)
	documentRepo := repository.NewDocumentRepository(db.DB)
	chatRepo := repository.NewChatRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	schedulerLogRepo := repository.NewSchedulerLogRepository(db.DB)

	// Initialize Stripe client
	var stripeClient *stripe.Client
	if cfg.Stripe.SecretKey != "" {
		stripeClient = stripe.NewClient(&cfg.Stripe, appLogger)
		appLogger.Info("Stripe client configured")
	} else {
		appLogger.Warn("Stripe secret key missing, card payments disabled")
	}

	// Initialize services
	mailer := &service.LogMailer{Logger: appLogger}
	notificationService := service.NewNotificationService(notificationRepo, mailer, redisClient, appLogger)
	userService := service.NewUserService(userRepo, cfg.JWT, appLogger)
	propertyService := service.NewPropertyService(propertyRepo, appLogger)
	rentalService := service.NewRentalService(rentalRepo, propertyRepo, paymentRepo, userRepo, appLogger)
	paymentService := service.NewPaymentService(paymentRepo, rentalRepo, stripeClient, notificationService, appLogger)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, propertyRepo, userRepo, notificationService, appLogger)
	documentService := service.NewDocumentService(documentRepo, propertyRepo, cfg.Storage, appLogger)
	chatService := service.NewChatService(chatRepo, propertyRepo, userRepo, notificationService, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, userService, propertyService, rentalService, paymentService,
		maintenanceService, documentService, chatService, notificationService,
		stripeClient, cfg.JWT.Secret, appLogger)

	// Start the daily jobs
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		overdueJob := jobs.NewOverdueJob(rentalRepo, paymentRepo, notificationService, cfg.Scheduler.OverdueGraceDays, appLogger)
		reminderJob := jobs.NewReminderJob(rentalRepo, notificationService, appLogger)
		maintenanceJob := jobs.NewMaintenanceFollowUpJob(maintenanceRepo, notificationService,
			cfg.Scheduler.PendingFollowUpDays, cfg.Scheduler.InProgressFollowUpDays, appLogger)

		cronScheduler = scheduler.New(cfg.Scheduler, schedulerLogRepo, redisClient, appLogger)
		if err := cronScheduler.Register(overdueJob, reminderJob, maintenanceJob); err != nil {
			appLogger.WithError(err).Fatal("Failed to register scheduled jobs")
		}
		cronScheduler.Start()
	} else {
		appLogger.Info("Scheduler disabled by configuration")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		appLogger.WithField("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)).Info("Swagger documentation available")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	if cronScheduler != nil {
		cronScheduler.Stop()
	}

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithError(err).Error("Failed to close database connection")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.WithError(err).Error("Failed to close redis connection")
		}
	}

	appLogger.Info("Server exited successfully")
}
