package service

import (
	"context"
	"errors"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// GuestCartItem is a guest cart line resolved against the catalog.
type GuestCartItem struct {
	ProductID    uint              `json:"product_id"`
	UnitID       uint              `json:"unit_id"`
	Quantity     int               `json:"quantity"`
	SelectedUnit string            `json:"selected_unit"`
	Product      model.Product     `json:"product"`
	Unit         model.ProductUnit `json:"unit"`
}

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID, unitID uint, quantity int) error
	UpdateQuantity(userID, productID, unitID uint, quantity int) error
	RemoveFromCart(userID, productID, unitID uint) error
	ClearCart(userID uint) error

	GetGuestCart(ctx context.Context, token string) ([]GuestCartItem, error)
	AddToGuestCart(ctx context.Context, token string, productID, unitID uint, quantity int) error
	UpdateGuestQuantity(ctx context.Context, token string, productID, unitID uint, quantity int) error
	RemoveFromGuestCart(ctx context.Context, token string, productID, unitID uint) error
	MigrateGuestCart(ctx context.Context, token string, userID uint) error
}

type cartService struct {
	cartRepo   repository.CartRepository
	guestStore repository.GuestCartStore
	unitRepo   repository.ProductUnitRepository
	prodRepo   repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	guestStore repository.GuestCartStore,
	unitRepo repository.ProductUnitRepository,
	prodRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:   cartRepo,
		guestStore: guestStore,
		unitRepo:   unitRepo,
		prodRepo:   prodRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// resolveUnit loads a unit and checks it belongs to the product.
func (s *cartService) resolveUnit(productID, unitID uint) (*model.ProductUnit, error) {
	unit, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductUnitNotFound
		}
		return nil, err
	}
	if unit.ProductID != productID {
		logger.Warn("Unit does not belong to product", map[string]interface{}{
			"product_id": productID,
			"unit_id":    unitID,
		})
		return nil, ErrProductUnitNotFound
	}
	return unit, nil
}

func (s *cartService) checkStock(unit *model.ProductUnit, requested int) error {
	if unit.Stock != nil && *unit.Stock < requested {
		logger.Warn("Insufficient unit stock", map[string]interface{}{
			"unit_id":   unit.ID,
			"requested": requested,
			"available": *unit.Stock,
		})
		return ErrInsufficientStock
	}
	return nil
}

func (s *cartService) AddToCart(userID, productID, unitID uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if _, err := s.prodRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	unit, err := s.resolveUnit(productID, unitID)
	if err != nil {
		return err
	}

	existingItem, err := s.cartRepo.FindByUserProductUnit(userID, productID, unitID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	requestedQuantity := quantity
	if existingItem != nil {
		requestedQuantity = existingItem.Quantity + quantity
	}

	if err := s.checkStock(unit, requestedQuantity); err != nil {
		return err
	}

	if existingItem != nil {
		logger.Debug("Merging into existing cart item", map[string]interface{}{
			"cart_item_id": existingItem.ID,
			"old_qty":      existingItem.Quantity,
			"new_qty":      requestedQuantity,
		})
		existingItem.Quantity = requestedQuantity
		if err := s.cartRepo.Update(existingItem); err != nil {
			logger.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_item_id": existingItem.ID,
			})
			return err
		}
		return nil
	}

	cartItem := &model.CartItem{
		UserID:       userID,
		ProductID:    productID,
		UnitID:       unitID,
		Quantity:     quantity,
		SelectedUnit: unit.Label(),
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return nil
}

// UpdateQuantity sets the quantity of one cart line. A quantity of zero
// or less removes the line instead of storing a non-positive value.
func (s *cartService) UpdateQuantity(userID, productID, unitID uint, quantity int) error {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return s.RemoveFromCart(userID, productID, unitID)
	}

	cartItem, err := s.cartRepo.FindByUserProductUnit(userID, productID, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"unit_id":    unitID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	unit, err := s.resolveUnit(productID, unitID)
	if err != nil {
		return err
	}
	if err := s.checkStock(unit, quantity); err != nil {
		return err
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"quantity":     quantity,
	})
	return nil
}

func (s *cartService) RemoveFromCart(userID, productID, unitID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
	})

	if _, err := s.cartRepo.FindByUserProductUnit(userID, productID, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if err := s.cartRepo.DeleteByUserProductUnit(userID, productID, unitID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"unit_id":    unitID,
		})
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"unit_id":    unitID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// GetGuestCart resolves the stored lines against the catalog. Lines
// whose product or unit has disappeared are dropped from the view.
func (s *cartService) GetGuestCart(ctx context.Context, token string) ([]GuestCartItem, error) {
	logger.Debug("Fetching guest cart", map[string]interface{}{
		"token": token,
	})

	lines, err := s.guestStore.Get(ctx, token)
	if err != nil {
		logger.Error("Failed to fetch guest cart", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}

	items := make([]GuestCartItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.prodRepo.FindByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		unit, err := s.unitRepo.FindByID(line.UnitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		items = append(items, GuestCartItem{
			ProductID:    line.ProductID,
			UnitID:       line.UnitID,
			Quantity:     line.Quantity,
			SelectedUnit: line.SelectedUnit,
			Product:      *product,
			Unit:         *unit,
		})
	}

	logger.Info("Guest cart fetched successfully", map[string]interface{}{
		"token": token,
		"count": len(items),
	})
	return items, nil
}

func (s *cartService) AddToGuestCart(ctx context.Context, token string, productID, unitID uint, quantity int) error {
	logger.Info("Adding item to guest cart", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"unit_id":    unitID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if _, err := s.prodRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	unit, err := s.resolveUnit(productID, unitID)
	if err != nil {
		return err
	}

	lines, err := s.guestStore.Get(ctx, token)
	if err != nil {
		return err
	}
	existing := 0
	for _, l := range lines {
		if l.ProductID == productID && l.UnitID == unitID {
			existing = l.Quantity
		}
	}
	if err := s.checkStock(unit, existing+quantity); err != nil {
		return err
	}

	if _, err := s.guestStore.Upsert(ctx, token, model.GuestCartLine{
		ProductID:    productID,
		UnitID:       unitID,
		Quantity:     quantity,
		SelectedUnit: unit.Label(),
	}); err != nil {
		logger.Error("Failed to upsert guest cart line", err, map[string]interface{}{
			"token": token,
		})
		return err
	}

	logger.Info("Guest cart item added successfully", map[string]interface{}{
		"token":      token,
		"product_id": productID,
	})
	return nil
}

func (s *cartService) UpdateGuestQuantity(ctx context.Context, token string, productID, unitID uint, quantity int) error {
	logger.Info("Updating guest cart quantity", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"unit_id":    unitID,
		"quantity":   quantity,
	})

	if quantity > 0 {
		unit, err := s.resolveUnit(productID, unitID)
		if err != nil {
			return err
		}
		if err := s.checkStock(unit, quantity); err != nil {
			return err
		}
	}

	if _, err := s.guestStore.SetQuantity(ctx, token, productID, unitID, quantity); err != nil {
		logger.Error("Failed to set guest cart quantity", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	return nil
}

func (s *cartService) RemoveFromGuestCart(ctx context.Context, token string, productID, unitID uint) error {
	logger.Info("Removing guest cart item", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"unit_id":    unitID,
	})

	if _, err := s.guestStore.Remove(ctx, token, productID, unitID); err != nil {
		logger.Error("Failed to remove guest cart line", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	return nil
}

// MigrateGuestCart folds a guest cart into the signed-in user's cart.
// The migration marker makes the operation one-shot per token, so a
// double submit (or two tabs racing) merges the lines exactly once.
// Quantities are clamped to the available stock rather than rejected;
// lines whose product or unit no longer exists are skipped.
func (s *cartService) MigrateGuestCart(ctx context.Context, token string, userID uint) error {
	logger.Info("Migrating guest cart", map[string]interface{}{
		"token":   token,
		"user_id": userID,
	})

	acquired, err := s.guestStore.AcquireMigration(ctx, token)
	if err != nil {
		logger.Error("Failed to acquire migration marker", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	if !acquired {
		logger.Info("Guest cart already migrated, skipping", map[string]interface{}{
			"token": token,
		})
		return nil
	}

	lines, err := s.guestStore.Get(ctx, token)
	if err != nil {
		return err
	}

	migrated := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		unit, err := s.resolveUnit(line.ProductID, line.UnitID)
		if err != nil {
			if errors.Is(err, ErrProductUnitNotFound) {
				logger.Warn("Skipping guest cart line, unit gone", map[string]interface{}{
					"product_id": line.ProductID,
					"unit_id":    line.UnitID,
				})
				continue
			}
			return err
		}

		existingItem, err := s.cartRepo.FindByUserProductUnit(userID, line.ProductID, line.UnitID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		quantity := line.Quantity
		if existingItem != nil {
			quantity += existingItem.Quantity
		}
		if unit.Stock != nil && quantity > *unit.Stock {
			quantity = *unit.Stock
		}
		if quantity <= 0 {
			continue
		}

		if existingItem != nil {
			existingItem.Quantity = quantity
			if err := s.cartRepo.Update(existingItem); err != nil {
				return err
			}
		} else {
			if err := s.cartRepo.Create(&model.CartItem{
				UserID:       userID,
				ProductID:    line.ProductID,
				UnitID:       line.UnitID,
				Quantity:     quantity,
				SelectedUnit: unit.Label(),
			}); err != nil {
				return err
			}
		}
		migrated++
	}

	if err := s.guestStore.Clear(ctx, token); err != nil {
		logger.Error("Failed to clear guest cart after migration", err, map[string]interface{}{
			"token": token,
		})
		return err
	}

	logger.Info("Guest cart migrated successfully", map[string]interface{}{
		"token":    token,
		"user_id":  userID,
		"migrated": migrated,
	})
	return nil
}
