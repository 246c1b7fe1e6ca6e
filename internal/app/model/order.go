package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusApproved   OrderStatus = "approved"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	PhoneNumber     string         `gorm:"size:30" json:"phone_number"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"` // JSON snapshot, immune to later address edits
	IsShopPickup    bool           `gorm:"default:false" json:"is_shop_pickup"`
	PaymentID       string         `gorm:"type:varchar(64);uniqueIndex" json:"payment_id"`
	PaymentStatus   PaymentStatus  `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	DeliveryDate    *time.Time     `json:"delivery_date,omitempty"` // admin-set
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem carries the price snapshot taken at purchase time. Rows are
// immutable once created; later catalog price changes must not alter them.
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"not null;index" json:"order_id"`
	ProductID    uint           `gorm:"not null;index" json:"product_id"`
	UnitID       uint           `gorm:"not null;index" json:"unit_id"`
	SelectedUnit string         `gorm:"size:50" json:"selected_unit"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	UnitPrice    float64        `gorm:"not null" json:"unit_price"`
	TotalPrice   float64        `gorm:"not null" json:"total_price"` // unit_price * quantity
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order       `gorm:"foreignKey:OrderID" json:"-"`
	Product Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Unit    ProductUnit `gorm:"foreignKey:UnitID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
