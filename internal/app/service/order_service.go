package service

import (
	"errors"
	"time"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAccessDenied  = errors.New("order belongs to another user")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// Admin status transitions. An order arrives as pending and is moved
// forward by the admin; cancelled and rejected are terminal.
var allowedOrderStatuses = map[model.OrderStatus]bool{
	model.OrderStatusApproved:   true,
	model.OrderStatusRejected:   true,
	model.OrderStatusProcessing: true,
	model.OrderStatusShipped:    true,
	model.OrderStatusDelivered:  true,
	model.OrderStatusCancelled:  true,
}

type OrderService interface {
	GetOrder(userID, orderID uint, isAdmin bool) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	SetDeliveryDate(orderID uint, deliveryDate time.Time) (*model.Order, error)
	GetStats() (map[string]interface{}, error)
}

type OrderStatusPublisher interface {
	PublishOrderStatusChanged(order *model.Order)
}

type orderService struct {
	orderRepo repository.OrderRepository
	publisher OrderStatusPublisher
}

func NewOrderService(orderRepo repository.OrderRepository, publisher OrderStatusPublisher) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

func (s *orderService) GetOrder(userID, orderID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.orderRepo.FindWithFilter(filter)
}

func (s *orderService) UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !allowedOrderStatuses[status] {
		return nil, ErrInvalidOrderStatus
	}

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.PublishOrderStatusChanged(order)
	}
	return order, nil
}

func (s *orderService) SetDeliveryDate(orderID uint, deliveryDate time.Time) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.DeliveryDate = &deliveryDate
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order delivery date set", map[string]interface{}{
		"order_id":      orderID,
		"delivery_date": deliveryDate.Format("2006-01-02"),
	})
	return order, nil
}

func (s *orderService) GetStats() (map[string]interface{}, error) {
	return s.orderRepo.GetStats()
}
