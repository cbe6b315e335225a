package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"propman-be-svc/internal/config"
	"propman-be-svc/internal/database"
	"propman-be-svc/internal/middleware"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/logger"
	"propman-be-svc/pkg/utils"
)

func setupTestRouter(t *testing.T) (*gin.Engine, service.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := logger.NewLogger("error", "text")

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	jwtCfg := config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}
	mailer := &service.LogMailer{Logger: log}
	notificationService := service.NewNotificationService(notificationRepo, mailer, nil, log)
	userService := service.NewUserService(userRepo, jwtCfg, log)
	propertyService := service.NewPropertyService(propertyRepo, log)
	rentalService := service.NewRentalService(rentalRepo, propertyRepo, paymentRepo, userRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, rentalRepo, nil, notificationService, log)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, propertyRepo, userRepo, notificationService, log)
	documentService := service.NewDocumentService(documentRepo, propertyRepo, config.StorageConfig{DocumentDir: t.TempDir()}, log)
	chatService := service.NewChatService(chatRepo, propertyRepo, userRepo, notificationService, log)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NoRouteHandler())

	SetupRoutes(router, userService, propertyService, rentalService, paymentService,
		maintenanceService, documentService, chatService, notificationService,
		nil, jwtCfg.Secret, log)

	return router, userService
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/properties", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/properties", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRegisterLoginAndCreateProperty(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Lena",
		"email":    "lena@example.com",
		"password": "password123",
		"role":     "landlord",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var registered struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Data.Token)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/properties", registered.Data.Token, gin.H{
		"name":         "Oak Avenue 12",
		"type":         "house",
		"address":      "Oak Avenue 12",
		"city":         "Springfield",
		"monthly_rent": "1500",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	// The new landlord sees their property
	recorder = doJSON(t, router, http.MethodGet, "/api/v1/properties", registered.Data.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Oak Avenue 12")
}

func TestTenantCannotCreateProperty(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Tom",
		"email":    "tom@example.com",
		"password": "password123",
		"role":     "tenant",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var registered struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &registered))

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/properties", registered.Data.Token, gin.H{
		"name":         "Sly Flat",
		"type":         "apartment",
		"address":      "Side Street 1",
		"city":         "Springfield",
		"monthly_rent": "900",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
