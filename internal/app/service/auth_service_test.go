package service

import (
	"testing"
	"time"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	service := NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	return testDB, service
}

func TestAuthService_Register(t *testing.T) {
	testDB, service := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	t.Run("registers a new customer", func(t *testing.T) {
		user, tokens, err := service.Register("new@example.com", "password123", "New User", "9876543210")
		require.NoError(t, err)

		assert.Equal(t, model.RoleCustomer, user.Role)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.NotEqual(t, "password123", user.PasswordHash)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, err := service.Register("new@example.com", "password123", "Someone Else", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	testDB, service := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := service.Register("login@example.com", "password123", "Login User", "")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, tokens, err := service.Login("login@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "login@example.com", user.Email)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := service.Login("login@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := service.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	testDB, service := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, _, err := service.Register("change@example.com", "oldpassword", "Change User", "")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := service.ChangePassword(user.ID, "not-it", "newpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("changes and old password stops working", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(user.ID, "oldpassword", "newpassword"))

		_, _, err := service.Login("change@example.com", "oldpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = service.Login("change@example.com", "newpassword")
		assert.NoError(t, err)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	testDB, service := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, _, err := service.Register("profile@example.com", "password123", "Old Name", "111")
	require.NoError(t, err)

	updated, err := service.UpdateProfile(user.ID, "New Name", "222")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "222", updated.Phone)
}
