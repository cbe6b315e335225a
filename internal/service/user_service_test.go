package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propman-be-svc/internal/config"
	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := testDB(t)
	return NewUserService(repository.NewUserRepository(db), config.JWTConfig{
		Secret:      "test-secret",
		ExpiryHours: 1,
	}, testLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)

	registered, err := svc.Register(&RegisterRequest{
		Name:     "Tom",
		Email:    "tom@example.com",
		Password: "correct horse",
		Role:     models.RoleTenant,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.RoleTenant, registered.User.Role)
	// The password hash never equals the plaintext
	assert.NotEqual(t, "correct horse", registered.User.Password)

	loggedIn, err := svc.Login(&LoginRequest{Email: "tom@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.Token)

	_, err = svc.Login(&LoginRequest{Email: "tom@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register(&RegisterRequest{Name: "A", Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Name: "B", Email: "dup@example.com", Password: "password456"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserSelfDeletionRejected(t *testing.T) {
	svc := newUserService(t)

	result, err := svc.Register(&RegisterRequest{Name: "Root", Email: "root@example.com", Password: "password123"})
	require.NoError(t, err)

	// Even a superuser cannot delete their own account
	result.User.Role = models.RoleSuperuser
	err = svc.Delete(result.User, result.User.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestRoleChangeRequiresSuperuser(t *testing.T) {
	svc := newUserService(t)

	result, err := svc.Register(&RegisterRequest{Name: "Tom", Email: "tom@example.com", Password: "password123"})
	require.NoError(t, err)

	landlord := models.RoleLandlord
	_, err = svc.Update(result.User, result.User.ID, &UpdateUserRequest{Role: &landlord})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}
