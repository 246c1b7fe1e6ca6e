package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusLowStock   ProductStatus = "low_stock"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	URLSlug          string         `gorm:"uniqueIndex;not null" json:"url_slug"` // derived from name
	Category         string         `gorm:"index;not null" json:"category"`
	Subcategory      string         `gorm:"index" json:"subcategory"`
	Description      string         `gorm:"type:text" json:"description"`
	DescriptionHindi string         `gorm:"type:text" json:"description_hindi"`
	Images           string         `gorm:"type:text" json:"-"`            // JSON array of URLs, ordered
	Rating           float64        `gorm:"default:0" json:"rating"`       // denormalized average
	ReviewCount      int            `gorm:"default:0" json:"review_count"` // denormalized count
	Status           ProductStatus  `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Units      []ProductUnit `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
	CartItems  []CartItem    `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem   `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ImageList decodes the stored JSON image array. An empty or broken value
// decodes to nil so callers can range over it directly.
func (p *Product) ImageList() []string {
	return decodeStringList(p.Images)
}

func (p *Product) SetImageList(urls []string) {
	p.Images = encodeStringList(urls)
}
