package repository

import (
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

type OrderRepository interface {
	CreateTx(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByPaymentID(paymentID string) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) error
	GetStats() (map[string]interface{}, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product").Preload("Unit")
	}).Preload("User")
}

// CreateTx inserts the order and its items inside the caller's
// transaction, so stock decrements and the order commit atomically.
func (r *orderRepository) CreateTx(tx *gorm.DB, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"payment_id":   order.PaymentID,
	})

	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"total_amount": order.TotalAmount,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByPaymentID(paymentID string) (*model.Order, error) {
	logger.Debug("Finding order by payment ID in database", map[string]interface{}{
		"payment_id": paymentID,
	})

	var order model.Order
	if err := r.preloadOrder().Where("payment_id = ?", paymentID).
		First(&order).Error; err != nil {
		return nil, err
	}

	logger.Debug("Order found by payment ID in database", map[string]interface{}{
		"order_id":   order.ID,
		"payment_id": paymentID,
	})
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders with filter in database", map[string]interface{}{
		"status":         filter.Status,
		"payment_status": filter.PaymentStatus,
		"limit":          filter.Limit,
		"offset":         filter.Offset,
	})

	query := r.db.Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders with filter in database", err, nil)
		return nil, 0, err
	}

	listQuery := r.preloadOrder()
	if filter.Status != "" {
		listQuery = listQuery.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		listQuery = listQuery.Where("payment_status = ?", filter.PaymentStatus)
	}
	listQuery = listQuery.Order("created_at DESC")
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		listQuery = listQuery.Offset(filter.Offset)
	}

	var orders []model.Order
	if err := listQuery.Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders with filter in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Orders found with filter in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

func (r *orderRepository) GetStats() (map[string]interface{}, error) {
	logger.Debug("Getting order statistics from database", nil)

	var totalOrders int64
	if err := r.db.Model(&model.Order{}).Count(&totalOrders).Error; err != nil {
		logger.Error("Failed to count total orders", err, nil)
		return nil, err
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count orders by status", err, nil)
		return nil, err
	}

	byStatus := map[string]int64{}
	for _, sc := range statusCounts {
		byStatus[string(sc.Status)] = sc.Count
	}

	var revenueResult struct {
		TotalRevenue float64
	}
	if err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total_revenue").
		Where("payment_status = ?", model.PaymentStatusCompleted).
		Scan(&revenueResult).Error; err != nil {
		logger.Error("Failed to calculate total revenue", err, nil)
		return nil, err
	}

	stats := map[string]interface{}{
		"total_orders":  totalOrders,
		"by_status":     byStatus,
		"total_revenue": revenueResult.TotalRevenue,
	}

	logger.Debug("Order statistics retrieved from database", map[string]interface{}{
		"total_orders":  totalOrders,
		"total_revenue": revenueResult.TotalRevenue,
	})
	return stats, nil
}
