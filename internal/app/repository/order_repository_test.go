package repository

import (
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.User, *model.Product, *model.ProductUnit) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:     "Basmati Rice",
		URLSlug:  "basmati-rice",
		Category: "grains",
		Status:   model.ProductStatusActive,
	}
	testDB.Create(product)

	stock := 10
	unit := &model.ProductUnit{
		ProductID:       product.ID,
		Number:          5,
		UnitType:        "kg",
		ActualPrice:     600,
		DiscountedPrice: 550,
		Stock:           &stock,
	}
	testDB.Create(unit)

	return testDB, repo, user, product, unit
}

func newTestOrder(user *model.User, product *model.Product, unit *model.ProductUnit, paymentID string) *model.Order {
	return &model.Order{
		UserID:        user.ID,
		Status:        model.OrderStatusPending,
		TotalAmount:   1100,
		PhoneNumber:   "9876543210",
		PaymentID:     paymentID,
		PaymentStatus: model.PaymentStatusCompleted,
		OrderItems: []model.OrderItem{
			{
				ProductID:    product.ID,
				UnitID:       unit.ID,
				SelectedUnit: "5 kg",
				Quantity:     2,
				UnitPrice:    550,
				TotalPrice:   1100,
			},
		},
	}
}

func TestOrderRepository_CreateTx(t *testing.T) {
	testDB, repo, user, product, unit := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, unit, "pay_abc123")

	err := testDB.Transaction(func(tx *gorm.DB) error {
		return repo.CreateTx(tx, order)
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	require.Len(t, order.OrderItems, 1)
	assert.NotZero(t, order.OrderItems[0].ID)

	t.Run("Rolled back transaction leaves nothing behind", func(t *testing.T) {
		rollback := newTestOrder(user, product, unit, "pay_rollback")
		_ = testDB.Transaction(func(tx *gorm.DB) error {
			if err := repo.CreateTx(tx, rollback); err != nil {
				return err
			}
			return gorm.ErrInvalidTransaction
		})

		_, err := repo.FindByPaymentID("pay_rollback")
		assert.Error(t, err)
	})
}

func TestOrderRepository_FindByPaymentID(t *testing.T) {
	testDB, repo, user, product, unit := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, unit, "pay_xyz789")
	require.NoError(t, testDB.Create(order).Error)

	found, err := repo.FindByPaymentID("pay_xyz789")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, "5 kg", found.OrderItems[0].SelectedUnit)

	_, err = repo.FindByPaymentID("pay_missing")
	assert.Error(t, err)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product, unit := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, testDB.Create(newTestOrder(user, product, unit, "pay_1")).Error)
	require.NoError(t, testDB.Create(newTestOrder(user, product, unit, "pay_2")).Error)

	orders, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.FindByUserID(user.ID + 100)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_FindWithFilter(t *testing.T) {
	testDB, repo, user, product, unit := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	pending := newTestOrder(user, product, unit, "pay_pending")
	require.NoError(t, testDB.Create(pending).Error)

	shipped := newTestOrder(user, product, unit, "pay_shipped")
	shipped.Status = model.OrderStatusShipped
	require.NoError(t, testDB.Create(shipped).Error)

	t.Run("Filter by status", func(t *testing.T) {
		orders, total, err := repo.FindWithFilter(OrderFilter{Status: string(model.OrderStatusShipped)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, model.OrderStatusShipped, orders[0].Status)
	})

	t.Run("No filter", func(t *testing.T) {
		orders, total, err := repo.FindWithFilter(OrderFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, orders, 2)
	})
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB, repo, user, product, unit := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, unit, "pay_status")
	require.NoError(t, testDB.Create(order).Error)

	err := repo.UpdateStatus(order.ID, model.OrderStatusApproved)
	require.NoError(t, err)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, found.Status)
}

func TestOrderRepository_GetStats(t *testing.T) {
	testDB, repo, user, product, unit := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, testDB.Create(newTestOrder(user, product, unit, "pay_a")).Error)
	delivered := newTestOrder(user, product, unit, "pay_b")
	delivered.Status = model.OrderStatusDelivered
	require.NoError(t, testDB.Create(delivered).Error)

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total_orders"])
	assert.Equal(t, 2200.0, stats["total_revenue"])

	byStatus := stats["by_status"].(map[string]int64)
	assert.Equal(t, int64(1), byStatus[string(model.OrderStatusPending)])
	assert.Equal(t, int64(1), byStatus[string(model.OrderStatusDelivered)])
}
