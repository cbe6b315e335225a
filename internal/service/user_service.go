package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"propman-be-svc/internal/config"
	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

// RegisterRequest creates a new account
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     string  `json:"role" binding:"omitempty,oneof=landlord tenant"`
	Phone    *string `json:"phone"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries the mutable profile fields
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" binding:"omitempty,oneof=superuser landlord tenant"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// AuthResult is a signed token with its account
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Claims is the JWT payload issued on login
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserService defines the interface for account logic
type UserService interface {
	Register(req *RegisterRequest) (*AuthResult, error)
	Login(req *LoginRequest) (*AuthResult, error)
	GetByID(id uint) (*models.User, error)
	List(actor *models.User) ([]*models.User, error)
	Get(actor *models.User, id uint) (*models.User, error)
	Update(actor *models.User, id uint, req *UpdateUserRequest) (*models.User, error)
	Delete(actor *models.User, id uint) error
}

// userService implements UserService
type userService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an account and returns a signed token. Superuser
// accounts cannot be self-registered.
func (s *userService) Register(req *RegisterRequest) (*AuthResult, error) {
	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		return nil, apperrors.WrapConflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapDatabaseError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleTenant
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
		Phone:    req.Phone,
		Status:   models.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered")
	return s.issueToken(user)
}

// Login verifies credentials and returns a signed token
func (s *userService) Login(req *LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeForbidden, "invalid credentials", apperrors.ErrForbidden)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.New(apperrors.CodeForbidden, "account is inactive", apperrors.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.CodeForbidden, "invalid credentials", apperrors.ErrForbidden)
	}

	return s.issueToken(user)
}

// GetByID loads a user without authorization checks. The auth middleware
// uses it to resolve the token subject.
func (s *userService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("user", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	return user, nil
}

// List returns all accounts. Superusers only.
func (s *userService) List(actor *models.User) ([]*models.User, error) {
	if !actor.IsSuperuser() {
		return nil, apperrors.WrapForbidden("list", "users")
	}
	return s.userRepo.List()
}

// Get returns one account
func (s *userService) Get(actor *models.User, id uint) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewUser(actor, user) {
		return nil, apperrors.WrapForbidden("view", "user")
	}
	return user, nil
}

// Update applies profile changes. Role and status changes are superuser
// operations.
func (s *userService) Update(actor *models.User, id uint, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateUser(actor, user) {
		return nil, apperrors.WrapForbidden("update", "user")
	}

	if req.Role != nil || req.Status != nil {
		if !actor.IsSuperuser() {
			return nil, apperrors.WrapForbidden("change role or status of", "user")
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.Status != nil {
			user.Status = *req.Status
		}
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return user, nil
}

// Delete removes an account. Self-deletion is rejected.
func (s *userService) Delete(actor *models.User, id uint) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteUser(actor, user) {
		return apperrors.WrapForbidden("delete", "user")
	}
	return s.userRepo.Delete(id)
}

func (s *userService) issueToken(user *models.User) (*AuthResult, error) {
	expiresAt := s.now().Add(time.Duration(s.jwtCfg.ExpiryHours) * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
