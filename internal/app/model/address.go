package model

import (
	"time"

	"gorm.io/gorm"
)

type UserAddress struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"size:100;not null" json:"name"` // recipient name
	Phone     string         `gorm:"size:30;not null" json:"phone"`
	Address   string         `gorm:"type:text;not null" json:"address"`
	City      string         `gorm:"size:100;not null" json:"city"`
	State     string         `gorm:"size:100;not null" json:"state"`
	Pincode   string         `gorm:"size:10;not null" json:"pincode"`
	Landmark  string         `gorm:"size:255" json:"landmark"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserAddress) TableName() string {
	return "user_addresses"
}
