package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ProductUnit is a purchasable size/packaging variant of a product
// (e.g. "5 kg"). Price and stock are per unit, not per product.
type ProductUnit struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ProductID       uint           `gorm:"index;not null" json:"product_id"`
	Number          float64        `gorm:"not null" json:"number"`            // 5
	UnitType        string         `gorm:"size:20;not null" json:"unit_type"` // "kg"
	ActualPrice     float64        `gorm:"not null" json:"actual_price"`      // MRP
	DiscountedPrice float64        `gorm:"not null" json:"discounted_price"`  // selling price, <= actual
	Stock           *int           `json:"stock"`                             // nil = unlimited
	Status          ProductStatus  `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductUnit) TableName() string {
	return "product_units"
}

// Label renders the display form of the unit ("5 kg", "500 g"). Cart and
// order rows cache this string but the unit row stays the source of truth.
func (u *ProductUnit) Label() string {
	n := strconv.FormatFloat(u.Number, 'f', -1, 64)
	return strings.TrimSpace(fmt.Sprintf("%s %s", n, u.UnitType))
}
