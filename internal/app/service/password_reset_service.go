package service

import (
	"errors"
	"time"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/jattu8602/ek-sub000/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrResetTokenInvalid = errors.New("reset token is invalid")
	ErrResetTokenExpired = errors.New("reset token has expired")
)

const resetTokenTTL = 1 * time.Hour

type PasswordResetService interface {
	// RequestReset creates a reset token for the account. The token is
	// returned so the caller can deliver it; the response to the client
	// never reveals whether the email exists.
	RequestReset(email string) (string, error)
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
	}
}

func (s *passwordResetService) RequestReset(email string) (string, error) {
	logger.Info("Password reset requested", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not leak account existence
			logger.Debug("Password reset for unknown email, ignoring", map[string]interface{}{
				"email": email,
			})
			return "", nil
		}
		logger.Error("Failed to look up user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	token, err := util.GenerateToken(32)
	if err != nil {
		logger.Error("Failed to generate reset token", err, nil)
		return "", err
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		return "", err
	}

	logger.Info("Password reset token created", map[string]interface{}{
		"user_id": user.ID,
	})
	return token, nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Resetting password with token", nil)

	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		logger.Error("Failed to look up reset token", err, nil)
		return err
	}

	if reset.Used() {
		logger.Warn("Reset token already used", map[string]interface{}{
			"reset_id": reset.ID,
		})
		return ErrResetTokenInvalid
	}
	if reset.Expired() {
		logger.Warn("Reset token expired", map[string]interface{}{
			"reset_id": reset.ID,
		})
		return ErrResetTokenExpired
	}

	user, err := s.userRepo.FindByID(reset.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to store new password after reset", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Error("Failed to mark reset token as used", err, map[string]interface{}{
			"reset_id": reset.ID,
		})
		return err
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}
