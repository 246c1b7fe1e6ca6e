package service

import (
	"errors"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("invalid role value")
	ErrCannotChangeSelf = errors.New("cannot change own role")
)

// UserService is the admin-side user directory.
type UserService interface {
	ListUsers(role string, page, perPage int) ([]model.User, int64, error)
	UpdateRole(adminID, userID uint, role model.UserRole) (*model.User, error)
	DeleteUser(adminID, userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(role string, page, perPage int) ([]model.User, int64, error) {
	offset, limit := normalizePage(page, perPage)
	return s.userRepo.FindAll(role, offset, limit)
}

func (s *userService) UpdateRole(adminID, userID uint, role model.UserRole) (*model.User, error) {
	if role != model.RoleCustomer && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}
	// An admin locking themselves out is never what was meant.
	if adminID == userID {
		return nil, ErrCannotChangeSelf
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User role updated", map[string]interface{}{
		"user_id":    userID,
		"role":       role,
		"updated_by": adminID,
	})
	return user, nil
}

func (s *userService) DeleteUser(adminID, userID uint) error {
	if adminID == userID {
		return ErrCannotChangeSelf
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id":    userID,
		"deleted_by": adminID,
	})
	return nil
}
