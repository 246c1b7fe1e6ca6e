package repository

import (
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByID(id uint) (*model.CartItem, error)
	FindByUserProductUnit(userID, productID, unitID uint) (*model.CartItem, error)
	Update(cartItem *model.CartItem) error
	Delete(id uint) error
	DeleteByUserProductUnit(userID, productID, unitID uint) error
	DeleteByUserID(userID uint) error
	DeleteByUserIDTx(tx *gorm.DB, userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cartItem.UserID,
		"product_id": cartItem.ProductID,
		"unit_id":    cartItem.UnitID,
		"quantity":   cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"product_id": cartItem.ProductID,
			"unit_id":    cartItem.UnitID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
		"product_id":   cartItem.ProductID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	logger.Debug("Finding cart items by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cartItems []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Unit").
		Order("created_at ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByID(id uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by ID in database", map[string]interface{}{
		"cart_item_id": id,
	})

	var cartItem model.CartItem
	err := r.db.Preload("Product").Preload("Unit").First(&cartItem, id).Error
	if err != nil {
		logger.Error("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}

	logger.Debug("Cart item found by ID in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
	})
	return &cartItem, nil
}

func (r *cartRepository) FindByUserProductUnit(userID, productID, unitID uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by user, product and unit in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
	})

	var cartItem model.CartItem
	err := r.db.Where("user_id = ? AND product_id = ? AND unit_id = ?", userID, productID, unitID).
		First(&cartItem).Error
	if err != nil {
		logger.Error("Failed to find cart item by user, product and unit in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"unit_id":    unitID,
		})
		return nil, err
	}

	logger.Debug("Cart item found by user, product and unit in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return &cartItem, nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"quantity":     cartItem.Quantity,
	})

	if err := r.db.Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}

	logger.Debug("Cart item updated in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	logger.Debug("Cart item deleted from database", map[string]interface{}{
		"cart_item_id": id,
	})
	return nil
}

func (r *cartRepository) DeleteByUserProductUnit(userID, productID, unitID uint) error {
	logger.Debug("Deleting cart item by user, product and unit from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
	})

	if err := r.db.Where("user_id = ? AND product_id = ? AND unit_id = ?", userID, productID, unitID).
		Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart item by user, product and unit from database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"unit_id":    unitID,
		})
		return err
	}

	logger.Debug("Cart item deleted by user, product and unit from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
	})
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	return r.DeleteByUserIDTx(r.db, userID)
}

func (r *cartRepository) DeleteByUserIDTx(tx *gorm.DB, userID uint) error {
	logger.Debug("Deleting cart items by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Cart items deleted by user ID from database", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
