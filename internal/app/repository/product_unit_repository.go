package repository

import (
	"errors"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a stock decrement would go below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductUnitRepository interface {
	Create(unit *model.ProductUnit) error
	FindByID(id uint) (*model.ProductUnit, error)
	FindByProductID(productID uint) ([]model.ProductUnit, error)
	Update(unit *model.ProductUnit) error
	Delete(id uint) error
	DecrementStock(tx *gorm.DB, id uint, quantity int) error
}

type productUnitRepository struct {
	db *gorm.DB
}

func NewProductUnitRepository(db *gorm.DB) ProductUnitRepository {
	return &productUnitRepository{db: db}
}

func (r *productUnitRepository) Create(unit *model.ProductUnit) error {
	logger.Debug("Creating product unit in database", map[string]interface{}{
		"product_id": unit.ProductID,
		"number":     unit.Number,
		"unit_type":  unit.UnitType,
	})

	if err := r.db.Create(unit).Error; err != nil {
		logger.Error("Failed to create product unit in database", err, map[string]interface{}{
			"product_id": unit.ProductID,
		})
		return err
	}

	logger.Debug("Product unit created in database", map[string]interface{}{
		"unit_id":    unit.ID,
		"product_id": unit.ProductID,
	})
	return nil
}

func (r *productUnitRepository) FindByID(id uint) (*model.ProductUnit, error) {
	logger.Debug("Finding product unit by ID in database", map[string]interface{}{
		"unit_id": id,
	})

	var unit model.ProductUnit
	if err := r.db.First(&unit, id).Error; err != nil {
		logger.Error("Failed to find product unit by ID in database", err, map[string]interface{}{
			"unit_id": id,
		})
		return nil, err
	}

	logger.Debug("Product unit found by ID in database", map[string]interface{}{
		"unit_id":    unit.ID,
		"product_id": unit.ProductID,
	})
	return &unit, nil
}

func (r *productUnitRepository) FindByProductID(productID uint) ([]model.ProductUnit, error) {
	logger.Debug("Finding product units by product ID in database", map[string]interface{}{
		"product_id": productID,
	})

	var units []model.ProductUnit
	if err := r.db.Where("product_id = ?", productID).
		Order("discounted_price ASC").
		Find(&units).Error; err != nil {
		logger.Error("Failed to find product units by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Product units found by product ID in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(units),
	})
	return units, nil
}

func (r *productUnitRepository) Update(unit *model.ProductUnit) error {
	logger.Debug("Updating product unit in database", map[string]interface{}{
		"unit_id":    unit.ID,
		"product_id": unit.ProductID,
	})

	if err := r.db.Save(unit).Error; err != nil {
		logger.Error("Failed to update product unit in database", err, map[string]interface{}{
			"unit_id": unit.ID,
		})
		return err
	}

	logger.Debug("Product unit updated in database", map[string]interface{}{
		"unit_id": unit.ID,
	})
	return nil
}

func (r *productUnitRepository) Delete(id uint) error {
	logger.Debug("Deleting product unit from database", map[string]interface{}{
		"unit_id": id,
	})

	if err := r.db.Delete(&model.ProductUnit{}, id).Error; err != nil {
		logger.Error("Failed to delete product unit from database", err, map[string]interface{}{
			"unit_id": id,
		})
		return err
	}

	logger.Debug("Product unit deleted from database", map[string]interface{}{
		"unit_id": id,
	})
	return nil
}

// DecrementStock atomically reduces a unit's stock inside the caller's
// transaction. Units with NULL stock are treated as unlimited and left
// untouched. Returns ErrInsufficientStock when the remaining stock is
// not enough to cover the quantity.
func (r *productUnitRepository) DecrementStock(tx *gorm.DB, id uint, quantity int) error {
	logger.Debug("Decrementing product unit stock in database", map[string]interface{}{
		"unit_id":  id,
		"quantity": quantity,
	})

	result := tx.Model(&model.ProductUnit{}).
		Where("id = ? AND (stock IS NULL OR stock >= ?)", id, quantity).
		Update("stock", gorm.Expr("CASE WHEN stock IS NULL THEN NULL ELSE stock - ? END", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product unit stock in database", result.Error, map[string]interface{}{
			"unit_id":  id,
			"quantity": quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Stock decrement rejected, insufficient stock", map[string]interface{}{
			"unit_id":  id,
			"quantity": quantity,
		})
		return ErrInsufficientStock
	}

	logger.Debug("Product unit stock decremented in database", map[string]interface{}{
		"unit_id":  id,
		"quantity": quantity,
	})
	return nil
}
