package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/config"
	"github.com/jattu8602/ek-sub000/internal/app/controller"
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/jattu8602/ek-sub000/internal/middleware"
	"github.com/jattu8602/ek-sub000/pkg/payment/razorpay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const gatewaySecret = "test_secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func newGatewayStub(t *testing.T) *httptest.Server {
	var counter int
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/payments/") {
			json.NewEncoder(w).Encode(razorpay.PaymentResponse{
				ID:     strings.TrimPrefix(r.URL.Path, "/payments/"),
				Entity: "payment",
				Status: "captured",
			})
			return
		}

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var req razorpay.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		counter++
		json.NewEncoder(w).Encode(razorpay.OrderResponse{
			ID:       fmt.Sprintf("order_it_%d", counter),
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	gateway := newGatewayStub(t)
	t.Cleanup(gateway.Close)

	client, err := razorpay.NewClient(razorpay.Config{
		KeyID:     "rzp_test_key",
		KeySecret: gatewaySecret,
		BaseURL:   gateway.URL,
		Currency:  "INR",
	})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	unitRepo := repository.NewProductUnitRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	paymentRepo := repository.NewPaymentRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	passwordResetService := service.NewPasswordResetService(userRepo, resetRepo)
	productService := service.NewProductService(productRepo, unitRepo, reviewRepo, 5)
	cartService := service.NewCartService(cartRepo, repository.NewMemoryGuestCartStore(), unitRepo, productRepo)
	checkoutService := service.NewCheckoutService(testDB, cartRepo, unitRepo, paymentRepo, orderRepo, addressRepo, client, nil, productService)
	orderService := service.NewOrderService(orderRepo, nil)
	addressService := service.NewAddressService(addressRepo)

	authController := controller.NewAuthController(authService, passwordResetService, "test-secret")
	productController := controller.NewProductController(productService, service.NewAIService(&config.Config{}))
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	addressController := controller.NewAddressController(addressService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	products := router.Group("/api/v1/products")
	{
		products.GET("", productController.GetProducts)
		products.GET("/:productId", productController.GetProduct)
	}

	cart := router.Group("/api/v1/cart")
	cart.Use(authMiddleware.OptionalAuthenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("", cartController.AddToCart)
		cart.POST("/migrate", authMiddleware.Authenticate(), cartController.MigrateCart)
	}

	checkout := router.Group("/api/v1/checkout")
	checkout.Use(authMiddleware.Authenticate())
	{
		checkout.POST("/intent", checkoutController.CreateIntent)
		checkout.POST("/verify", checkoutController.VerifyPayment)
	}

	orders := router.Group("/api/v1/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.GET("", orderController.GetOrders)
		orders.GET("/:id", orderController.GetOrderByID)
	}

	addresses := router.Group("/api/v1/addresses")
	addresses.Use(authMiddleware.Authenticate())
	{
		addresses.POST("", addressController.CreateAddress)
	}

	return &TestServer{
		Router: router,
		DB:     testDB,
	}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) seedProduct(t *testing.T, stock int) (*model.Product, *model.ProductUnit) {
	t.Helper()

	product := &model.Product{
		Name:     "Fresh Tomato",
		URLSlug:  "fresh-tomato",
		Category: "vegetables",
		Status:   model.ProductStatusActive,
	}
	require.NoError(t, ts.DB.Create(product).Error)

	unit := &model.ProductUnit{
		ProductID:       product.ID,
		Number:          1,
		UnitType:        "kg",
		ActualPrice:     40,
		DiscountedPrice: 35,
		Stock:           &stock,
		Status:          model.ProductStatusActive,
	}
	require.NoError(t, ts.DB.Create(unit).Error)
	return product, unit
}

func TestCompletePurchaseJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	product, unit := ts.seedProduct(t, 10)

	t.Log("Step 1: Register user")
	w := ts.request(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "buyer@example.com",
		"password": "password123",
		"name":     "Test Buyer",
		"phone":    "9876543210",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	accessToken := registerResp["access_token"].(string)
	require.NotEmpty(t, accessToken)

	t.Log("Step 2: Browse products")
	w = ts.request(t, "GET", "/api/v1/products", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var productsResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &productsResp)
	assert.NotNil(t, productsResp["products"])

	t.Log("Step 3: Add to cart")
	w = ts.request(t, "POST", "/api/v1/cart", accessToken, map[string]interface{}{
		"product_id": product.ID,
		"unit_id":    unit.ID,
		"quantity":   2,
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	t.Log("Step 4: View cart")
	w = ts.request(t, "GET", "/api/v1/cart", accessToken, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var cartResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Len(t, cartResp["cart_items"], 1)
	assert.InDelta(t, 70.0, cartResp["total"].(float64), 0.001)

	t.Log("Step 5: Save a delivery address")
	w = ts.request(t, "POST", "/api/v1/addresses", accessToken, map[string]interface{}{
		"name":    "Test Buyer",
		"phone":   "9876543210",
		"address": "12 Market Road",
		"city":    "Nashik",
		"state":   "Maharashtra",
		"pincode": "422001",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Log("Step 6: Create checkout intent")
	w = ts.request(t, "POST", "/api/v1/checkout/intent", accessToken, map[string]interface{}{
		"phone_number": "9876543210",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var intentResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intentResp))
	intent := intentResp["intent"].(map[string]interface{})
	gatewayOrderID := intent["gateway_order_id"].(string)
	assert.InDelta(t, 7000, intent["amount"].(float64), 0.001) // 70 rupees in paise

	t.Log("Step 7: Verify payment")
	paymentID := "pay_integration_1"
	w = ts.request(t, "POST", "/api/v1/checkout/verify", accessToken, map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
		"payment_id":       paymentID,
		"signature":        razorpay.SignPayment(gatewayOrderID, paymentID, gatewaySecret),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var verifyResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verifyResp))
	order := verifyResp["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "completed", order["payment_status"])

	t.Log("Step 8: View order history")
	w = ts.request(t, "GET", "/api/v1/orders", accessToken, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var ordersResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &ordersResp)
	assert.Len(t, ordersResp["orders"], 1)

	t.Log("Step 9: Cart is empty after checkout")
	w = ts.request(t, "GET", "/api/v1/cart", accessToken, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Len(t, cartResp["cart_items"], 0)

	t.Log("Step 10: Stock decreased")
	var updatedUnit model.ProductUnit
	require.NoError(t, ts.DB.First(&updatedUnit, unit.ID).Error)
	require.NotNil(t, updatedUnit.Stock)
	assert.Equal(t, 8, *updatedUnit.Stock)
}

func TestGuestCartMigrationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	product, unit := ts.seedProduct(t, 10)
	guestHeaders := map[string]string{"X-Guest-Token": "guest-journey-1"}

	t.Log("Step 1: Guest fills a cart without logging in")
	w := ts.request(t, "POST", "/api/v1/cart", "", map[string]interface{}{
		"product_id": product.ID,
		"unit_id":    unit.ID,
		"quantity":   3,
	}, guestHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, "GET", "/api/v1/cart", "", nil, guestHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	var cartResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Len(t, cartResp["cart_items"], 1)

	t.Log("Step 2: Guest registers")
	w = ts.request(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "converted@example.com",
		"password": "password123",
		"name":     "Converted Guest",
		"phone":    "9000000000",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	accessToken := registerResp["access_token"].(string)

	t.Log("Step 3: Migrate the guest cart into the account")
	w = ts.request(t, "POST", "/api/v1/cart/migrate", accessToken, nil, guestHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, "GET", "/api/v1/cart", accessToken, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Len(t, cartResp["cart_items"], 1)
	assert.InDelta(t, 105.0, cartResp["total"].(float64), 0.001)

	t.Log("Step 4: Migration is one-shot")
	w = ts.request(t, "POST", "/api/v1/cart/migrate", accessToken, nil, guestHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, "GET", "/api/v1/cart", accessToken, nil, nil)
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Len(t, cartResp["cart_items"], 1)
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	w := ts.request(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
		"name":     "Test User",
		"phone":    "9123456789",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	accessToken := registerResp["access_token"].(string)

	w = ts.request(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, "GET", "/api/v1/auth/me", accessToken, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var meResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &meResp)
	user := meResp["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "Test User", user["name"])
}

// A concurrent sale can drain stock between intent and verification.
// The buyer has already been charged at that point, so the failure
// response must carry the payment id they need to reach support.
func TestVerifyFailureAfterChargeReturnsPaymentID(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	product, unit := ts.seedProduct(t, 2)

	w := ts.request(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "unlucky@example.com",
		"password": "password123",
		"name":     "Unlucky Buyer",
		"phone":    "9876543210",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	accessToken := registerResp["access_token"].(string)

	w = ts.request(t, "POST", "/api/v1/cart", accessToken, map[string]interface{}{
		"product_id": product.ID,
		"unit_id":    unit.ID,
		"quantity":   2,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, "POST", "/api/v1/checkout/intent", accessToken, map[string]interface{}{
		"phone_number":   "9876543210",
		"is_shop_pickup": true,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var intentResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intentResp))
	gatewayOrderID := intentResp["intent"].(map[string]interface{})["gateway_order_id"].(string)

	// Someone else buys the last units while our buyer is paying.
	require.NoError(t, ts.DB.Model(&model.ProductUnit{}).
		Where("id = ?", unit.ID).
		Update("stock", 1).Error)

	paymentID := "pay_integration_unlucky"
	w = ts.request(t, "POST", "/api/v1/checkout/verify", accessToken, map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
		"payment_id":       paymentID,
		"signature":        razorpay.SignPayment(gatewayOrderID, paymentID, gatewaySecret),
	}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var verifyResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verifyResp))
	assert.Equal(t, paymentID, verifyResp["payment_id"])
	assert.Contains(t, verifyResp["error"], "contact support")
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	protectedRoutes := []string{
		"/api/v1/auth/me",
		"/api/v1/orders",
	}

	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			w := ts.request(t, "GET", route, "", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
