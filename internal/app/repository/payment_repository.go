package repository

import (
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(txn *model.PaymentTransaction) error
	FindByGatewayOrderID(gatewayOrderID string) (*model.PaymentTransaction, error)
	FindByPaymentID(paymentID string) (*model.PaymentTransaction, error)
	Update(txn *model.PaymentTransaction) error
	UpdateTx(tx *gorm.DB, txn *model.PaymentTransaction) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(txn *model.PaymentTransaction) error {
	logger.Debug("Creating payment transaction in database", map[string]interface{}{
		"user_id":          txn.UserID,
		"gateway_order_id": txn.GatewayOrderID,
		"amount":           txn.Amount,
	})

	if err := r.db.Create(txn).Error; err != nil {
		logger.Error("Failed to create payment transaction in database", err, map[string]interface{}{
			"user_id":          txn.UserID,
			"gateway_order_id": txn.GatewayOrderID,
		})
		return err
	}

	logger.Debug("Payment transaction created in database", map[string]interface{}{
		"transaction_id":   txn.ID,
		"gateway_order_id": txn.GatewayOrderID,
	})
	return nil
}

func (r *paymentRepository) FindByGatewayOrderID(gatewayOrderID string) (*model.PaymentTransaction, error) {
	logger.Debug("Finding payment transaction by gateway order ID in database", map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
	})

	var txn model.PaymentTransaction
	if err := r.db.Where("gateway_order_id = ?", gatewayOrderID).
		First(&txn).Error; err != nil {
		logger.Error("Failed to find payment transaction by gateway order ID in database", err, map[string]interface{}{
			"gateway_order_id": gatewayOrderID,
		})
		return nil, err
	}

	logger.Debug("Payment transaction found by gateway order ID in database", map[string]interface{}{
		"transaction_id": txn.ID,
		"status":         txn.Status,
	})
	return &txn, nil
}

func (r *paymentRepository) FindByPaymentID(paymentID string) (*model.PaymentTransaction, error) {
	logger.Debug("Finding payment transaction by payment ID in database", map[string]interface{}{
		"payment_id": paymentID,
	})

	var txn model.PaymentTransaction
	if err := r.db.Where("payment_id = ?", paymentID).
		First(&txn).Error; err != nil {
		return nil, err
	}

	logger.Debug("Payment transaction found by payment ID in database", map[string]interface{}{
		"transaction_id": txn.ID,
		"status":         txn.Status,
	})
	return &txn, nil
}

func (r *paymentRepository) Update(txn *model.PaymentTransaction) error {
	return r.UpdateTx(r.db, txn)
}

func (r *paymentRepository) UpdateTx(tx *gorm.DB, txn *model.PaymentTransaction) error {
	logger.Debug("Updating payment transaction in database", map[string]interface{}{
		"transaction_id": txn.ID,
		"status":         txn.Status,
	})

	if err := tx.Save(txn).Error; err != nil {
		logger.Error("Failed to update payment transaction in database", err, map[string]interface{}{
			"transaction_id": txn.ID,
		})
		return err
	}

	logger.Debug("Payment transaction updated in database", map[string]interface{}{
		"transaction_id": txn.ID,
		"status":         txn.Status,
	})
	return nil
}
