package model

import (
	"time"

	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionStatusCreated  TransactionStatus = "created"
	TransactionStatusVerified TransactionStatus = "verified"
	TransactionStatusFailed   TransactionStatus = "failed"
)

// PaymentTransaction links a gateway order to an internal Order. The row is
// created at intent time and holds the item/address snapshot the order is
// materialized from, so verify never re-reads the catalog. The unique
// PaymentID makes re-delivered verifications no-ops.
type PaymentTransaction struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	UserID          uint              `gorm:"not null;index" json:"user_id"`
	GatewayOrderID  string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"gateway_order_id"`
	PaymentID       *string           `gorm:"type:varchar(64);uniqueIndex" json:"payment_id,omitempty"` // set at verify
	Amount          int64             `gorm:"not null" json:"amount"`                                   // paise
	Currency        string            `gorm:"size:10;not null" json:"currency"`
	Status          TransactionStatus `gorm:"type:varchar(20);default:'created'" json:"status"`
	ItemsSnapshot   string            `gorm:"type:text;not null" json:"-"` // JSON []CheckoutItem
	AddressSnapshot string            `gorm:"type:text" json:"-"`          // JSON shipping address copy
	PhoneNumber     string            `gorm:"size:30" json:"phone_number"`
	IsShopPickup    bool              `gorm:"default:false" json:"is_shop_pickup"`
	OrderID         *uint             `gorm:"index" json:"order_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`

	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Order *Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// CheckoutItem is one resolved line of a checkout. It is built server-side at
// intent-creation time from current catalog prices and round-trips through
// the ItemsSnapshot column into OrderItem rows untouched.
type CheckoutItem struct {
	ProductID    uint    `json:"product_id"`
	UnitID       uint    `json:"unit_id"`
	ProductName  string  `json:"product_name"`
	SelectedUnit string  `json:"selected_unit"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
}
