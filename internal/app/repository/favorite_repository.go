package repository

import (
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	FindByUserID(userID uint) ([]model.Favorite, error)
	FindByUserAndProduct(userID, productID uint) (*model.Favorite, error)
	Delete(id uint) error
	CountByProductID(productID uint) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id":    favorite.UserID,
		"product_id": favorite.ProductID,
	})

	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":    favorite.UserID,
			"product_id": favorite.ProductID,
		})
		return err
	}

	logger.Debug("Favorite created in database", map[string]interface{}{
		"favorite_id": favorite.ID,
	})
	return nil
}

func (r *favoriteRepository) FindByUserID(userID uint) ([]model.Favorite, error) {
	logger.Debug("Finding favorites by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var favorites []model.Favorite
	err := r.db.Where("user_id = ?", userID).
		Preload("Product", func(db *gorm.DB) *gorm.DB {
			return db.Preload("Units")
		}).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		logger.Error("Failed to find favorites by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Favorites found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
	})
	return favorites, nil
}

func (r *favoriteRepository) FindByUserAndProduct(userID, productID uint) (*model.Favorite, error) {
	logger.Debug("Finding favorite by user and product in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	var favorite model.Favorite
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&favorite).Error
	if err != nil {
		return nil, err
	}

	logger.Debug("Favorite found by user and product in database", map[string]interface{}{
		"favorite_id": favorite.ID,
	})
	return &favorite, nil
}

func (r *favoriteRepository) Delete(id uint) error {
	logger.Debug("Deleting favorite from database", map[string]interface{}{
		"favorite_id": id,
	})

	if err := r.db.Delete(&model.Favorite{}, id).Error; err != nil {
		logger.Error("Failed to delete favorite from database", err, map[string]interface{}{
			"favorite_id": id,
		})
		return err
	}

	logger.Debug("Favorite deleted from database", map[string]interface{}{
		"favorite_id": id,
	})
	return nil
}

func (r *favoriteRepository) CountByProductID(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Favorite{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count favorites by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return count, nil
}
