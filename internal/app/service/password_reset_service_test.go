package service

import (
	"testing"
	"time"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/jattu8602/ek-sub000/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPasswordResetTest(t *testing.T) (*gorm.DB, PasswordResetService, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	service := NewPasswordResetService(
		repository.NewUserRepository(testDB),
		repository.NewPasswordResetRepository(testDB),
	)

	hashed, err := util.HashPassword("oldpassword")
	require.NoError(t, err)
	user := &model.User{
		Email:        "forgetful@example.com",
		PasswordHash: hashed,
		Name:         "Forgetful",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	return testDB, service, user
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	testDB, service, user := setupPasswordResetTest(t)
	defer db.CleanupTestDB(testDB)

	t.Run("creates a token for a known account", func(t *testing.T) {
		token, err := service.RequestReset(user.Email)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		var reset model.PasswordReset
		require.NoError(t, testDB.Where("token = ?", token).First(&reset).Error)
		assert.Equal(t, user.ID, reset.UserID)
		assert.True(t, reset.ExpiresAt.After(time.Now()))
	})

	t.Run("unknown email returns no token and no error", func(t *testing.T) {
		token, err := service.RequestReset("nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	testDB, service, user := setupPasswordResetTest(t)
	defer db.CleanupTestDB(testDB)

	t.Run("replaces the password and consumes the token", func(t *testing.T) {
		token, err := service.RequestReset(user.Email)
		require.NoError(t, err)

		require.NoError(t, service.ResetPassword(token, "newpassword"))

		var refreshed model.User
		require.NoError(t, testDB.First(&refreshed, user.ID).Error)
		assert.True(t, util.VerifyPassword(refreshed.PasswordHash, "newpassword"))
		assert.False(t, util.VerifyPassword(refreshed.PasswordHash, "oldpassword"))

		// Second use of the same token is rejected.
		assert.ErrorIs(t, service.ResetPassword(token, "anotherpassword"), ErrResetTokenInvalid)
	})

	t.Run("unknown token", func(t *testing.T) {
		assert.ErrorIs(t, service.ResetPassword("does-not-exist", "pw"), ErrResetTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := service.RequestReset(user.Email)
		require.NoError(t, err)

		require.NoError(t, testDB.Model(&model.PasswordReset{}).
			Where("token = ?", token).
			Update("expires_at", time.Now().Add(-time.Minute)).Error)

		assert.ErrorIs(t, service.ResetPassword(token, "pw"), ErrResetTokenExpired)
	})
}
