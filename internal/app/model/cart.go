package model

import (
	"time"
)

// CartItem rows are deleted outright rather than soft-deleted so the
// composite unique index keeps one live row per (user, product, unit).
type CartItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_unit" json:"user_id"`
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_unit" json:"product_id"`
	UnitID       uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_unit" json:"unit_id"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	SelectedUnit string    `gorm:"size:50" json:"selected_unit"` // display cache of the unit label
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User    User        `gorm:"foreignKey:UserID" json:"-"`
	Product Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Unit    ProductUnit `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// GuestCartLine is one entry of an anonymous visitor's cart. It mirrors
// CartItem without a server id; the redis store keys lines by
// (product_id, unit_id) exactly like the cart_items unique index.
type GuestCartLine struct {
	ProductID    uint   `json:"product_id"`
	UnitID       uint   `json:"unit_id"`
	Quantity     int    `json:"quantity"`
	SelectedUnit string `json:"selected_unit"`
}
