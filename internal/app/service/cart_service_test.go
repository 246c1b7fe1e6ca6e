package service

import (
	"context"
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cartTestEnv struct {
	db      *gorm.DB
	service CartService
	user    *model.User
	product *model.Product
	unit    *model.ProductUnit
}

func setupCartServiceTest(t *testing.T) *cartTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	guestStore := repository.NewMemoryGuestCartStore()
	unitRepo := repository.NewProductUnitRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	service := NewCartService(cartRepo, guestStore, unitRepo, productRepo)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:     "Alphonso Mango",
		URLSlug:  "alphonso-mango",
		Category: "fruits",
		Status:   model.ProductStatusActive,
	}
	testDB.Create(product)

	stock := 10
	unit := &model.ProductUnit{
		ProductID:       product.ID,
		Number:          1,
		UnitType:        "kg",
		ActualPrice:     400,
		DiscountedPrice: 350,
		Stock:           &stock,
	}
	testDB.Create(unit)

	return &cartTestEnv{
		db:      testDB,
		service: service,
		user:    user,
		product: product,
		unit:    unit,
	}
}

func TestCartService_AddToCart(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	t.Run("adds new item", func(t *testing.T) {
		err := env.service.AddToCart(env.user.ID, env.product.ID, env.unit.ID, 2)
		assert.NoError(t, err)

		items, err := env.service.GetUserCart(env.user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, "1 kg", items[0].SelectedUnit)
	})

	t.Run("merges quantity for same unit", func(t *testing.T) {
		err := env.service.AddToCart(env.user.ID, env.product.ID, env.unit.ID, 3)
		assert.NoError(t, err)

		items, err := env.service.GetUserCart(env.user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("rejects quantity beyond stock", func(t *testing.T) {
		err := env.service.AddToCart(env.user.ID, env.product.ID, env.unit.ID, 6)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		err := env.service.AddToCart(env.user.ID, env.product.ID, env.unit.ID, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("duplicate cart row is rejected by the schema", func(t *testing.T) {
		err := env.db.Create(&model.CartItem{
			UserID:    env.user.ID,
			ProductID: env.product.ID,
			UnitID:    env.unit.ID,
			Quantity:  1,
		}).Error
		assert.Error(t, err)
	})

	t.Run("rejects unit from another product", func(t *testing.T) {
		other := &model.Product{
			Name:     "Red Onion",
			URLSlug:  "red-onion",
			Category: "vegetables",
			Status:   model.ProductStatusActive,
		}
		env.db.Create(other)

		err := env.service.AddToCart(env.user.ID, other.ID, env.unit.ID, 1)
		assert.ErrorIs(t, err, ErrProductUnitNotFound)
	})
}

func TestCartService_UpdateQuantity(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	require.NoError(t, env.service.AddToCart(env.user.ID, env.product.ID, env.unit.ID, 2))

	t.Run("sets new quantity", func(t *testing.T) {
		err := env.service.UpdateQuantity(env.user.ID, env.product.ID, env.unit.ID, 7)
		assert.NoError(t, err)

		items, _ := env.service.GetUserCart(env.user.ID)
		require.Len(t, items, 1)
		assert.Equal(t, 7, items[0].Quantity)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		err := env.service.UpdateQuantity(env.user.ID, env.product.ID, env.unit.ID, 0)
		assert.NoError(t, err)

		items, _ := env.service.GetUserCart(env.user.ID)
		assert.Empty(t, items)
	})

	t.Run("missing line returns not found", func(t *testing.T) {
		err := env.service.UpdateQuantity(env.user.ID, env.product.ID, env.unit.ID, 2)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestCartService_GuestCart(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	ctx := context.Background()
	token := "guest-token-1"

	t.Run("add and read back", func(t *testing.T) {
		err := env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 2)
		assert.NoError(t, err)

		items, err := env.service.GetGuestCart(ctx, token)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, env.product.Name, items[0].Product.Name)
	})

	t.Run("same unit merges", func(t *testing.T) {
		err := env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 1)
		assert.NoError(t, err)

		items, _ := env.service.GetGuestCart(ctx, token)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("stock checked against live unit", func(t *testing.T) {
		err := env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 20)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("tokens are isolated", func(t *testing.T) {
		items, err := env.service.GetGuestCart(ctx, "other-token")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("zero quantity removes line", func(t *testing.T) {
		err := env.service.UpdateGuestQuantity(ctx, token, env.product.ID, env.unit.ID, 0)
		assert.NoError(t, err)

		items, _ := env.service.GetGuestCart(ctx, token)
		assert.Empty(t, items)
	})
}

func TestCartService_MigrateGuestCart(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	ctx := context.Background()

	t.Run("moves lines into empty server cart", func(t *testing.T) {
		token := "migrate-empty"
		require.NoError(t, env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 2))

		err := env.service.MigrateGuestCart(ctx, token, env.user.ID)
		assert.NoError(t, err)

		items, err := env.service.GetUserCart(env.user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)

		guestItems, _ := env.service.GetGuestCart(ctx, token)
		assert.Empty(t, guestItems)
	})

	t.Run("merges with existing line and clamps to stock", func(t *testing.T) {
		token := "migrate-merge"
		require.NoError(t, env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 9))

		err := env.service.MigrateGuestCart(ctx, token, env.user.ID)
		assert.NoError(t, err)

		items, err := env.service.GetUserCart(env.user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		// 2 already in the cart + 9 migrated, clamped to the 10 in stock.
		assert.Equal(t, 10, items[0].Quantity)
	})

	t.Run("second migration of same token is a no-op", func(t *testing.T) {
		token := "migrate-once"
		require.NoError(t, env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 1))

		require.NoError(t, env.service.MigrateGuestCart(ctx, token, env.user.ID))
		before, _ := env.service.GetUserCart(env.user.ID)

		require.NoError(t, env.service.MigrateGuestCart(ctx, token, env.user.ID))
		after, _ := env.service.GetUserCart(env.user.ID)
		assert.Equal(t, len(before), len(after))
		if len(before) > 0 {
			assert.Equal(t, before[0].Quantity, after[0].Quantity)
		}
	})

	t.Run("dead units are skipped", func(t *testing.T) {
		token := "migrate-dead-unit"
		require.NoError(t, env.service.AddToGuestCart(ctx, token, env.product.ID, env.unit.ID, 1))

		// Retire the unit after it entered the guest cart.
		require.NoError(t, env.db.Delete(&model.ProductUnit{}, env.unit.ID).Error)

		err := env.service.MigrateGuestCart(ctx, token, env.user.ID)
		assert.NoError(t, err)
	})
}
