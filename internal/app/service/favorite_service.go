package service

import (
	"errors"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

// FavoriteService manages per-user product favorites. Toggle is the
// only write: favoriting an already-favorited product removes it.
type FavoriteService interface {
	Toggle(userID, productID uint) (favorited bool, err error)
	GetFavorites(userID uint) ([]model.Favorite, error)
	IsFavorited(userID, productID uint) (bool, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *favoriteService) Toggle(userID, productID uint) (bool, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	existing, err := s.favoriteRepo.FindByUserAndProduct(userID, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		favorite := &model.Favorite{
			UserID:    userID,
			ProductID: productID,
		}
		if err := s.favoriteRepo.Create(favorite); err != nil {
			return false, err
		}
		logger.Info("Product favorited", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return true, nil
	}

	if err := s.favoriteRepo.Delete(existing.ID); err != nil {
		return false, err
	}
	logger.Info("Product unfavorited", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return false, nil
}

func (s *favoriteService) GetFavorites(userID uint) ([]model.Favorite, error) {
	return s.favoriteRepo.FindByUserID(userID)
}

func (s *favoriteService) IsFavorited(userID, productID uint) (bool, error) {
	_, err := s.favoriteRepo.FindByUserAndProduct(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
