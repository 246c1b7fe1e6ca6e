package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/jattu8602/ek-sub000/pkg/payment/razorpay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testGatewaySecret = "test_secret"

type checkoutTestEnv struct {
	db            *gorm.DB
	gateway       *httptest.Server
	service       CheckoutService
	cartRepo      repository.CartRepository
	unitRepo      repository.ProductUnitRepository
	user          *model.User
	product       *model.Product
	unit          *model.ProductUnit
	address       *model.UserAddress
	paymentStatus *string
}

// newGatewayStub fakes the order-creation and payment-fetch endpoints.
// Every order call mints a fresh gateway order id; fetched payments
// report *paymentStatus so tests can simulate gateway-side failures.
func newGatewayStub(t *testing.T, paymentStatus *string) *httptest.Server {
	var counter int
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/payments/") {
			json.NewEncoder(w).Encode(razorpay.PaymentResponse{
				ID:     strings.TrimPrefix(r.URL.Path, "/payments/"),
				Entity: "payment",
				Status: *paymentStatus,
			})
			return
		}

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var req razorpay.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		counter++
		json.NewEncoder(w).Encode(razorpay.OrderResponse{
			ID:       fmt.Sprintf("order_test_%d", counter),
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
}

func setupCheckoutTest(t *testing.T) *checkoutTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	paymentStatus := "captured"
	gateway := newGatewayStub(t, &paymentStatus)
	t.Cleanup(gateway.Close)

	client, err := razorpay.NewClient(razorpay.Config{
		KeyID:     "rzp_test_key",
		KeySecret: testGatewaySecret,
		BaseURL:   gateway.URL,
		Currency:  "INR",
	})
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	unitRepo := repository.NewProductUnitRepository(testDB)
	paymentRepo := repository.NewPaymentRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	productService := NewProductService(productRepo, unitRepo, reviewRepo, 5)
	service := NewCheckoutService(testDB, cartRepo, unitRepo, paymentRepo, orderRepo, addressRepo, client, nil, productService)

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

	address := &model.UserAddress{
		UserID:    user.ID,
		Name:      "Buyer",
		Phone:     "9876543210",
		Address:   "12 Green Lane",
		City:      "Pune",
		State:     "Maharashtra",
		Pincode:   "411001",
		IsDefault: true,
	}
	testDB.Create(address)

	return &checkoutTestEnv{
		db:            testDB,
		gateway:       gateway,
		service:       service,
		cartRepo:      cartRepo,
		unitRepo:      unitRepo,
		user:          user,
		product:       product,
		unit:          unit,
		address:       address,
		paymentStatus: &paymentStatus,
	}
}

func (env *checkoutTestEnv) fillCart(t *testing.T, quantity int) {
	require.NoError(t, env.cartRepo.Create(&model.CartItem{
		UserID:       env.user.ID,
		ProductID:    env.product.ID,
		UnitID:       env.unit.ID,
		Quantity:     quantity,
		SelectedUnit: "5 kg",
	}))
}

func TestCheckoutService_CreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates intent from cart", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 2)

		resp, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{
			PhoneNumber: "9876543210",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(110000), resp.Amount) // 2 * 550 rupees in paise
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, "rzp_test_key", resp.KeyID)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "5 kg", resp.Items[0].SelectedUnit)
		assert.Equal(t, 550.0, resp.Items[0].UnitPrice)

		var txn model.PaymentTransaction
		require.NoError(t, env.db.Where("gateway_order_id = ?", resp.GatewayOrderID).First(&txn).Error)
		assert.Equal(t, model.TransactionStatusCreated, txn.Status)
		assert.NotEmpty(t, txn.ItemsSnapshot)
		assert.NotEmpty(t, txn.AddressSnapshot)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)

		_, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("requires an address unless shop pickup", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 1)
		require.NoError(t, env.db.Unscoped().Delete(env.address).Error)

		_, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		assert.ErrorIs(t, err, ErrAddressRequired)

		resp, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{
			IsShopPickup: true,
			PhoneNumber:  "9876543210",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.GatewayOrderID)
	})

	t.Run("insufficient stock blocks the intent", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 11)

		_, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestCheckoutService_VerifyAndConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("valid signature materializes the order", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 2)

		intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)

		paymentID := "pay_test_1"
		order, err := env.service.VerifyAndConfirm(ctx, env.user.ID, VerifyRequest{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      paymentID,
			Signature:      razorpay.SignPayment(intent.GatewayOrderID, paymentID, testGatewaySecret),
		})
		require.NoError(t, err)

		assert.Equal(t, model.OrderStatusPending, order.Status)
		assert.Equal(t, model.PaymentStatusCompleted, order.PaymentStatus)
		assert.Equal(t, 1100.0, order.TotalAmount)
		require.Len(t, order.OrderItems, 1)
		assert.Equal(t, 2, order.OrderItems[0].Quantity)
		assert.Equal(t, 550.0, order.OrderItems[0].UnitPrice)

		// Stock decremented.
		unit, err := env.unitRepo.FindByID(env.unit.ID)
		require.NoError(t, err)
		require.NotNil(t, unit.Stock)
		assert.Equal(t, 8, *unit.Stock)

		// Cart cleared.
		items, err := env.cartRepo.FindByUserID(env.user.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		// Transaction closed out.
		var txn model.PaymentTransaction
		require.NoError(t, env.db.Where("gateway_order_id = ?", intent.GatewayOrderID).First(&txn).Error)
		assert.Equal(t, model.TransactionStatusVerified, txn.Status)
		require.NotNil(t, txn.OrderID)
		assert.Equal(t, order.ID, *txn.OrderID)
	})

	t.Run("replayed verification returns the same order", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 2)

		intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)

		paymentID := "pay_test_2"
		req := VerifyRequest{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      paymentID,
			Signature:      razorpay.SignPayment(intent.GatewayOrderID, paymentID, testGatewaySecret),
		}

		first, err := env.service.VerifyAndConfirm(ctx, env.user.ID, req)
		require.NoError(t, err)
		second, err := env.service.VerifyAndConfirm(ctx, env.user.ID, req)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)

		// Stock decremented exactly once.
		unit, err := env.unitRepo.FindByID(env.unit.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, *unit.Stock)

		var count int64
		env.db.Model(&model.Order{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("draining the stock flips the product status", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 10)

		intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)

		paymentID := "pay_test_drain"
		_, err = env.service.VerifyAndConfirm(ctx, env.user.ID, VerifyRequest{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      paymentID,
			Signature:      razorpay.SignPayment(intent.GatewayOrderID, paymentID, testGatewaySecret),
		})
		require.NoError(t, err)

		unit, err := env.unitRepo.FindByID(env.unit.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, *unit.Stock)

		var product model.Product
		require.NoError(t, env.db.First(&product, env.product.ID).Error)
		assert.Equal(t, model.ProductStatusOutOfStock, product.Status)
	})

	t.Run("gateway-side failed payment is rejected", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 1)

		intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)
		*env.paymentStatus = "failed"

		paymentID := "pay_test_failed"
		_, err = env.service.VerifyAndConfirm(ctx, env.user.ID, VerifyRequest{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      paymentID,
			Signature:      razorpay.SignPayment(intent.GatewayOrderID, paymentID, testGatewaySecret),
		})
		assert.ErrorIs(t, err, ErrPaymentNotCaptured)

		var txn model.PaymentTransaction
		require.NoError(t, env.db.Where("gateway_order_id = ?", intent.GatewayOrderID).First(&txn).Error)
		assert.Equal(t, model.TransactionStatusFailed, txn.Status)

		var count int64
		env.db.Model(&model.Order{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("bad signature fails the transaction", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 1)

		intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)

		_, err = env.service.VerifyAndConfirm(ctx, env.user.ID, VerifyRequest{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      "pay_test_3",
			Signature:      "forged",
		})
		assert.ErrorIs(t, err, ErrInvalidSignature)

		var txn model.PaymentTransaction
		require.NoError(t, env.db.Where("gateway_order_id = ?", intent.GatewayOrderID).First(&txn).Error)
		assert.Equal(t, model.TransactionStatusFailed, txn.Status)

		// No order, no stock movement.
		var count int64
		env.db.Model(&model.Order{}).Count(&count)
		assert.Equal(t, int64(0), count)
		unit, _ := env.unitRepo.FindByID(env.unit.ID)
		assert.Equal(t, 10, *unit.Stock)
	})

	t.Run("another user's payment is rejected", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)
		env.fillCart(t, 1)

		intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)

		paymentID := "pay_test_4"
		_, err = env.service.VerifyAndConfirm(ctx, env.user.ID+1, VerifyRequest{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      paymentID,
			Signature:      razorpay.SignPayment(intent.GatewayOrderID, paymentID, testGatewaySecret),
		})
		assert.ErrorIs(t, err, ErrPaymentAccessDenied)
	})

	t.Run("unknown gateway order id", func(t *testing.T) {
		env := setupCheckoutTest(t)
		defer db.CleanupTestDB(env.db)

		_, err := env.service.VerifyAndConfirm(ctx, env.user.ID, VerifyRequest{
			GatewayOrderID: "order_missing",
			PaymentID:      "pay_x",
			Signature:      "sig",
		})
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestCheckoutService_MarkFailed(t *testing.T) {
	ctx := context.Background()

	env := setupCheckoutTest(t)
	defer db.CleanupTestDB(env.db)
	env.fillCart(t, 2)

	intent, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
	require.NoError(t, err)

	t.Run("marks a pending transaction failed", func(t *testing.T) {
		err := env.service.MarkFailed(env.user.ID, intent.GatewayOrderID)
		assert.NoError(t, err)

		var txn model.PaymentTransaction
		require.NoError(t, env.db.Where("gateway_order_id = ?", intent.GatewayOrderID).First(&txn).Error)
		assert.Equal(t, model.TransactionStatusFailed, txn.Status)
	})

	t.Run("never downgrades a verified transaction", func(t *testing.T) {
		second, err := env.service.CreateIntent(ctx, env.user.ID, CheckoutRequest{PhoneNumber: "9876543210"})
		require.NoError(t, err)

		paymentID := "pay_test_5"
		_, err = env.service.VerifyAndConfirm(ctx, env.user.ID, VerifyRequest{
			GatewayOrderID: second.GatewayOrderID,
			PaymentID:      paymentID,
			Signature:      razorpay.SignPayment(second.GatewayOrderID, paymentID, testGatewaySecret),
		})
		require.NoError(t, err)

		err = env.service.MarkFailed(env.user.ID, second.GatewayOrderID)
		assert.ErrorIs(t, err, ErrPaymentAlreadyProcessed)
	})
}
