package model

import (
	"time"

	"gorm.io/gorm"
)

type ContactStatus string
type ApplicationStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusResolved ContactStatus = "resolved"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type ContactSubmission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:255;not null" json:"email"`
	Subject   string         `gorm:"size:255" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Status    ContactStatus  `gorm:"type:varchar(20);default:'new'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

type SellerApplication struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"size:100;not null" json:"name"`
	Email     string            `gorm:"size:255;not null" json:"email"`
	Phone     string            `gorm:"size:30;not null" json:"phone"`
	FarmName  string            `gorm:"size:255" json:"farm_name"`
	Details   string            `gorm:"type:text" json:"details"`
	Status    ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (SellerApplication) TableName() string {
	return "seller_applications"
}

type NewsletterSubscriber struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Unsubscribed bool           `gorm:"default:false" json:"unsubscribed"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
