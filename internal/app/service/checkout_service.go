package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/jattu8602/ek-sub000/pkg/payment/razorpay"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty               = errors.New("cart is empty")
	ErrAddressRequired         = errors.New("shipping address is required")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrInvalidSignature        = errors.New("payment signature is invalid")
	ErrPaymentNotCaptured      = errors.New("payment is not captured at the gateway")
	ErrPaymentAccessDenied     = errors.New("payment belongs to another user")
)

// CheckoutRequest carries the buyer's delivery choice for an intent.
// The items themselves always come from the server-side cart.
type CheckoutRequest struct {
	AddressID    *uint  `json:"address_id"`
	IsShopPickup bool   `json:"is_shop_pickup"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
}

// CheckoutIntentResponse is what the frontend needs to open the
// gateway's payment widget.
type CheckoutIntentResponse struct {
	GatewayOrderID string               `json:"gateway_order_id"`
	Amount         int64                `json:"amount"`
	Currency       string               `json:"currency"`
	KeyID          string               `json:"key_id"`
	Items          []model.CheckoutItem `json:"items"`
}

// VerifyRequest is the gateway's handoff after the buyer pays.
type VerifyRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// OrderEventPublisher receives order lifecycle events. The websocket
// hub implements it; a nil publisher disables broadcasting.
type OrderEventPublisher interface {
	PublishOrderPaid(order *model.Order)
}

// ProductStatusRecomputer refreshes a product's denormalized status
// after its stock changed. The product service implements it; a nil
// recomputer leaves the refresh to the scheduler sweep.
type ProductStatusRecomputer interface {
	RecomputeStatus(productID uint) error
}

type CheckoutService interface {
	CreateIntent(ctx context.Context, userID uint, req CheckoutRequest) (*CheckoutIntentResponse, error)
	VerifyAndConfirm(ctx context.Context, userID uint, req VerifyRequest) (*model.Order, error)
	MarkFailed(userID uint, gatewayOrderID string) error
}

type checkoutService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	unitRepo    repository.ProductUnitRepository
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
	gateway     *razorpay.Client
	publisher   OrderEventPublisher
	recomputer  ProductStatusRecomputer
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	unitRepo repository.ProductUnitRepository,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	gateway *razorpay.Client,
	publisher OrderEventPublisher,
	recomputer ProductStatusRecomputer,
) CheckoutService {
	return &checkoutService{
		db:          db,
		cartRepo:    cartRepo,
		unitRepo:    unitRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		gateway:     gateway,
		publisher:   publisher,
		recomputer:  recomputer,
	}
}

// CreateIntent snapshots the user's cart at current catalog prices,
// opens a gateway order for the computed total and stores both under a
// payment transaction. The client never supplies prices; whatever is
// quoted here is exactly what verification will charge against.
func (s *checkoutService) CreateIntent(ctx context.Context, userID uint, req CheckoutRequest) (*CheckoutIntentResponse, error) {
	logger.Info("Creating checkout intent", map[string]interface{}{
		"user_id":        userID,
		"is_shop_pickup": req.IsShopPickup,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCartEmpty
	}

	var addressJSON string
	if !req.IsShopPickup {
		address, err := s.resolveAddress(userID, req.AddressID)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(address)
		if err != nil {
			return nil, err
		}
		addressJSON = string(raw)
	}

	// Re-resolve every line against the live catalog. The cart row's
	// cached price display is never trusted here.
	items := make([]model.CheckoutItem, 0, len(cartItems))
	var total float64
	for _, ci := range cartItems {
		unit, err := s.unitRepo.FindByID(ci.UnitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductUnitNotFound
			}
			return nil, err
		}
		if unit.Stock != nil && *unit.Stock < ci.Quantity {
			logger.Warn("Checkout rejected: insufficient stock", map[string]interface{}{
				"user_id":  userID,
				"unit_id":  unit.ID,
				"quantity": ci.Quantity,
			})
			return nil, ErrInsufficientStock
		}

		lineTotal := unit.DiscountedPrice * float64(ci.Quantity)
		items = append(items, model.CheckoutItem{
			ProductID:    ci.ProductID,
			UnitID:       ci.UnitID,
			ProductName:  ci.Product.Name,
			SelectedUnit: unit.Label(),
			Quantity:     ci.Quantity,
			UnitPrice:    unit.DiscountedPrice,
			TotalPrice:   lineTotal,
		})
		total += lineTotal
	}

	amountPaise := int64(math.Round(total * 100))

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   amountPaise,
		Currency: s.gateway.GetConfig().Currency,
		Receipt:  fmt.Sprintf("user-%d", userID),
	})
	if err != nil {
		logger.Error("Failed to create gateway order", err, map[string]interface{}{
			"user_id": userID,
			"amount":  amountPaise,
		})
		return nil, err
	}

	snapshot, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	txn := &model.PaymentTransaction{
		UserID:          userID,
		GatewayOrderID:  gatewayOrder.ID,
		Amount:          amountPaise,
		Currency:        gatewayOrder.Currency,
		Status:          model.TransactionStatusCreated,
		ItemsSnapshot:   string(snapshot),
		AddressSnapshot: addressJSON,
		PhoneNumber:     req.PhoneNumber,
		IsShopPickup:    req.IsShopPickup,
	}
	if err := s.paymentRepo.Create(txn); err != nil {
		return nil, err
	}

	logger.Info("Checkout intent created", map[string]interface{}{
		"user_id":          userID,
		"gateway_order_id": gatewayOrder.ID,
		"amount":           amountPaise,
		"items":            len(items),
	})

	return &CheckoutIntentResponse{
		GatewayOrderID: gatewayOrder.ID,
		Amount:         amountPaise,
		Currency:       gatewayOrder.Currency,
		KeyID:          s.gateway.GetConfig().KeyID,
		Items:          items,
	}, nil
}

func (s *checkoutService) resolveAddress(userID uint, addressID *uint) (*model.UserAddress, error) {
	if addressID != nil {
		address, err := s.addressRepo.FindByID(*addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAddressRequired
			}
			return nil, err
		}
		if address.UserID != userID {
			logger.Warn("Address does not belong to user", map[string]interface{}{
				"user_id":    userID,
				"address_id": *addressID,
			})
			return nil, ErrAddressRequired
		}
		return address, nil
	}

	address, err := s.addressRepo.FindDefaultByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressRequired
		}
		return nil, err
	}
	return address, nil
}

// VerifyAndConfirm checks the gateway signature against the stored
// intent and, exactly once, materializes the order: order rows, stock
// decrements, transaction update and cart clearing commit atomically.
// Replays of an already-verified payment return the existing order.
func (s *checkoutService) VerifyAndConfirm(ctx context.Context, userID uint, req VerifyRequest) (*model.Order, error) {
	logger.Info("Verifying payment", map[string]interface{}{
		"user_id":          userID,
		"gateway_order_id": req.GatewayOrderID,
		"payment_id":       req.PaymentID,
	})

	txn, err := s.paymentRepo.FindByGatewayOrderID(req.GatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if txn.UserID != userID {
		logger.Warn("Payment verification denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"owner_id": txn.UserID,
		})
		return nil, ErrPaymentAccessDenied
	}

	if txn.Status == model.TransactionStatusVerified {
		if txn.OrderID == nil {
			return nil, ErrPaymentNotFound
		}
		logger.Info("Payment already verified, returning existing order", map[string]interface{}{
			"gateway_order_id": req.GatewayOrderID,
			"order_id":         *txn.OrderID,
		})
		return s.orderRepo.FindByID(*txn.OrderID)
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		logger.Warn("Payment signature verification failed", map[string]interface{}{
			"gateway_order_id": req.GatewayOrderID,
			"payment_id":       req.PaymentID,
		})
		txn.Status = model.TransactionStatusFailed
		if err := s.paymentRepo.Update(txn); err != nil {
			logger.Error("Failed to mark transaction as failed", err, nil)
		}
		return nil, ErrInvalidSignature
	}

	// Cross-check the payment's state at the gateway. The signature
	// already proves authenticity, so a fetch hiccup only warns, but a
	// payment the gateway reports as failed must not become an order.
	if payment, err := s.gateway.FetchPayment(ctx, req.PaymentID); err != nil {
		logger.Warn("Could not fetch payment from gateway for cross-check", map[string]interface{}{
			"payment_id": req.PaymentID,
			"error":      err.Error(),
		})
	} else if payment.Status == "failed" || payment.Status == "refunded" {
		logger.Warn("Gateway reports payment is not chargeable", map[string]interface{}{
			"payment_id":     req.PaymentID,
			"payment_status": payment.Status,
		})
		txn.Status = model.TransactionStatusFailed
		if err := s.paymentRepo.Update(txn); err != nil {
			logger.Error("Failed to mark transaction as failed", err, nil)
		}
		return nil, ErrPaymentNotCaptured
	}

	var items []model.CheckoutItem
	if err := json.Unmarshal([]byte(txn.ItemsSnapshot), &items); err != nil {
		logger.Error("Failed to decode items snapshot", err, map[string]interface{}{
			"transaction_id": txn.ID,
		})
		return nil, err
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := s.unitRepo.DecrementStock(tx, item.UnitID, item.Quantity); err != nil {
				return err
			}
		}

		var total float64
		orderItems := make([]model.OrderItem, 0, len(items))
		for _, item := range items {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:    item.ProductID,
				UnitID:       item.UnitID,
				SelectedUnit: item.SelectedUnit,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
				TotalPrice:   item.TotalPrice,
			})
			total += item.TotalPrice
		}

		order = &model.Order{
			UserID:          txn.UserID,
			Status:          model.OrderStatusPending,
			TotalAmount:     total,
			PhoneNumber:     txn.PhoneNumber,
			ShippingAddress: txn.AddressSnapshot,
			IsShopPickup:    txn.IsShopPickup,
			PaymentID:       req.PaymentID,
			PaymentStatus:   model.PaymentStatusCompleted,
			OrderItems:      orderItems,
		}
		if err := s.orderRepo.CreateTx(tx, order); err != nil {
			return err
		}

		paymentID := req.PaymentID
		txn.PaymentID = &paymentID
		txn.Status = model.TransactionStatusVerified
		txn.OrderID = &order.ID
		if err := s.paymentRepo.UpdateTx(tx, txn); err != nil {
			return err
		}

		return s.cartRepo.DeleteByUserIDTx(tx, txn.UserID)
	})
	if err != nil {
		logger.Error("Failed to materialize order", err, map[string]interface{}{
			"gateway_order_id": req.GatewayOrderID,
		})
		return nil, err
	}

	if s.recomputer != nil {
		seen := make(map[uint]bool, len(items))
		for _, item := range items {
			if seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			if err := s.recomputer.RecomputeStatus(item.ProductID); err != nil {
				logger.Warn("Failed to recompute product status after checkout", map[string]interface{}{
					"product_id": item.ProductID,
					"error":      err.Error(),
				})
			}
		}
	}

	if s.publisher != nil {
		s.publisher.PublishOrderPaid(order)
	}

	logger.Info("Payment verified and order created", map[string]interface{}{
		"order_id":         order.ID,
		"user_id":          txn.UserID,
		"gateway_order_id": req.GatewayOrderID,
		"total_amount":     order.TotalAmount,
	})
	return s.orderRepo.FindByID(order.ID)
}

// MarkFailed records a gateway-side failure or user abandonment.
// Verified transactions are never downgraded.
func (s *checkoutService) MarkFailed(userID uint, gatewayOrderID string) error {
	txn, err := s.paymentRepo.FindByGatewayOrderID(gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	if txn.UserID != userID {
		return ErrPaymentAccessDenied
	}
	if txn.Status == model.TransactionStatusVerified {
		return ErrPaymentAlreadyProcessed
	}

	txn.Status = model.TransactionStatusFailed
	if err := s.paymentRepo.Update(txn); err != nil {
		return err
	}

	logger.Info("Payment marked as failed", map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
		"user_id":          userID,
	})
	return nil
}
