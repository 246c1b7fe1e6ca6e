package service

import (
	"errors"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAddressNotFound     = errors.New("address not found")
	ErrAddressAccessDenied = errors.New("address belongs to another user")
)

type AddressInput struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	Landmark  string `json:"landmark"`
	IsDefault bool   `json:"is_default"`
}

type AddressService interface {
	CreateAddress(userID uint, input AddressInput) (*model.UserAddress, error)
	GetAddresses(userID uint) ([]model.UserAddress, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.UserAddress, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.UserAddress, error) {
	// The user's first address becomes the default regardless of input.
	existing, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	address := &model.UserAddress{
		UserID:    userID,
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		Pincode:   input.Pincode,
		Landmark:  input.Landmark,
		IsDefault: input.IsDefault || len(existing) == 0,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}

	if address.IsDefault && len(existing) > 0 {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
	}

	logger.Info("Address created", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
		"is_default": address.IsDefault,
	})
	return address, nil
}

func (s *addressService) GetAddresses(userID uint) ([]model.UserAddress, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.UserAddress, error) {
	address, err := s.findOwned(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Name = input.Name
	address.Phone = input.Phone
	address.Address = input.Address
	address.City = input.City
	address.State = input.State
	address.Pincode = input.Pincode
	address.Landmark = input.Landmark
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	logger.Info("Address updated", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	address, err := s.findOwned(userID, addressID)
	if err != nil {
		return err
	}

	if err := s.addressRepo.Delete(addressID); err != nil {
		return err
	}

	// Promote another address when the default was removed so checkout
	// always has a fallback.
	if address.IsDefault {
		remaining, err := s.addressRepo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			if err := s.addressRepo.SetDefault(userID, remaining[0].ID); err != nil {
				return err
			}
		}
	}

	logger.Info("Address deleted", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	if _, err := s.findOwned(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.SetDefault(userID, addressID)
}

func (s *addressService) findOwned(userID, addressID uint) (*model.UserAddress, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Address access denied", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return nil, ErrAddressAccessDenied
	}
	return address, nil
}
