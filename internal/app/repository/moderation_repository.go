package repository

import (
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(submission *model.ContactSubmission) error
	FindAll(status string, offset, limit int) ([]model.ContactSubmission, int64, error)
	FindByID(id uint) (*model.ContactSubmission, error)
	UpdateStatus(id uint, status model.ContactStatus) error
	Delete(id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(submission *model.ContactSubmission) error {
	logger.Debug("Creating contact submission in database", map[string]interface{}{
		"email": submission.Email,
	})

	if err := r.db.Create(submission).Error; err != nil {
		logger.Error("Failed to create contact submission in database", err, map[string]interface{}{
			"email": submission.Email,
		})
		return err
	}

	logger.Debug("Contact submission created in database", map[string]interface{}{
		"submission_id": submission.ID,
	})
	return nil
}

func (r *contactRepository) FindAll(status string, offset, limit int) ([]model.ContactSubmission, int64, error) {
	query := r.db.Model(&model.ContactSubmission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count contact submissions in database", err, nil)
		return nil, 0, err
	}

	var submissions []model.ContactSubmission
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&submissions).Error; err != nil {
		logger.Error("Failed to find contact submissions in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Contact submissions found in database", map[string]interface{}{
		"count": len(submissions),
		"total": total,
	})
	return submissions, total, nil
}

func (r *contactRepository) FindByID(id uint) (*model.ContactSubmission, error) {
	var submission model.ContactSubmission
	if err := r.db.First(&submission, id).Error; err != nil {
		logger.Error("Failed to find contact submission by ID in database", err, map[string]interface{}{
			"submission_id": id,
		})
		return nil, err
	}
	return &submission, nil
}

func (r *contactRepository) UpdateStatus(id uint, status model.ContactStatus) error {
	logger.Debug("Updating contact submission status in database", map[string]interface{}{
		"submission_id": id,
		"status":        status,
	})

	if err := r.db.Model(&model.ContactSubmission{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update contact submission status in database", err, map[string]interface{}{
			"submission_id": id,
		})
		return err
	}
	return nil
}

func (r *contactRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ContactSubmission{}, id).Error; err != nil {
		logger.Error("Failed to delete contact submission from database", err, map[string]interface{}{
			"submission_id": id,
		})
		return err
	}
	return nil
}

type SellerApplicationRepository interface {
	Create(application *model.SellerApplication) error
	FindAll(status string, offset, limit int) ([]model.SellerApplication, int64, error)
	FindByID(id uint) (*model.SellerApplication, error)
	UpdateStatus(id uint, status model.ApplicationStatus) error
}

type sellerApplicationRepository struct {
	db *gorm.DB
}

func NewSellerApplicationRepository(db *gorm.DB) SellerApplicationRepository {
	return &sellerApplicationRepository{db: db}
}

func (r *sellerApplicationRepository) Create(application *model.SellerApplication) error {
	logger.Debug("Creating seller application in database", map[string]interface{}{
		"email":     application.Email,
		"farm_name": application.FarmName,
	})

	if err := r.db.Create(application).Error; err != nil {
		logger.Error("Failed to create seller application in database", err, map[string]interface{}{
			"email": application.Email,
		})
		return err
	}

	logger.Debug("Seller application created in database", map[string]interface{}{
		"application_id": application.ID,
	})
	return nil
}

func (r *sellerApplicationRepository) FindAll(status string, offset, limit int) ([]model.SellerApplication, int64, error) {
	query := r.db.Model(&model.SellerApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count seller applications in database", err, nil)
		return nil, 0, err
	}

	var applications []model.SellerApplication
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&applications).Error; err != nil {
		logger.Error("Failed to find seller applications in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Seller applications found in database", map[string]interface{}{
		"count": len(applications),
		"total": total,
	})
	return applications, total, nil
}

func (r *sellerApplicationRepository) FindByID(id uint) (*model.SellerApplication, error) {
	var application model.SellerApplication
	if err := r.db.First(&application, id).Error; err != nil {
		logger.Error("Failed to find seller application by ID in database", err, map[string]interface{}{
			"application_id": id,
		})
		return nil, err
	}
	return &application, nil
}

func (r *sellerApplicationRepository) UpdateStatus(id uint, status model.ApplicationStatus) error {
	logger.Debug("Updating seller application status in database", map[string]interface{}{
		"application_id": id,
		"status":         status,
	})

	if err := r.db.Model(&model.SellerApplication{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update seller application status in database", err, map[string]interface{}{
			"application_id": id,
		})
		return err
	}
	return nil
}

type NewsletterRepository interface {
	Create(subscriber *model.NewsletterSubscriber) error
	FindByID(id uint) (*model.NewsletterSubscriber, error)
	FindByEmail(email string) (*model.NewsletterSubscriber, error)
	FindAll(offset, limit int) ([]model.NewsletterSubscriber, int64, error)
	Update(subscriber *model.NewsletterSubscriber) error
	Delete(id uint) error
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Create(subscriber *model.NewsletterSubscriber) error {
	logger.Debug("Creating newsletter subscriber in database", map[string]interface{}{
		"email": subscriber.Email,
	})

	if err := r.db.Create(subscriber).Error; err != nil {
		logger.Error("Failed to create newsletter subscriber in database", err, map[string]interface{}{
			"email": subscriber.Email,
		})
		return err
	}
	return nil
}

func (r *newsletterRepository) FindByID(id uint) (*model.NewsletterSubscriber, error) {
	var subscriber model.NewsletterSubscriber
	if err := r.db.First(&subscriber, id).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *newsletterRepository) FindByEmail(email string) (*model.NewsletterSubscriber, error) {
	var subscriber model.NewsletterSubscriber
	if err := r.db.Where("email = ?", email).First(&subscriber).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *newsletterRepository) FindAll(offset, limit int) ([]model.NewsletterSubscriber, int64, error) {
	var total int64
	if err := r.db.Model(&model.NewsletterSubscriber{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count newsletter subscribers in database", err, nil)
		return nil, 0, err
	}

	var subscribers []model.NewsletterSubscriber
	if err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&subscribers).Error; err != nil {
		logger.Error("Failed to find newsletter subscribers in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Newsletter subscribers found in database", map[string]interface{}{
		"count": len(subscribers),
		"total": total,
	})
	return subscribers, total, nil
}

func (r *newsletterRepository) Update(subscriber *model.NewsletterSubscriber) error {
	if err := r.db.Save(subscriber).Error; err != nil {
		logger.Error("Failed to update newsletter subscriber in database", err, map[string]interface{}{
			"subscriber_id": subscriber.ID,
		})
		return err
	}
	return nil
}

func (r *newsletterRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.NewsletterSubscriber{}, id).Error; err != nil {
		logger.Error("Failed to delete newsletter subscriber from database", err, map[string]interface{}{
			"subscriber_id": id,
		})
		return err
	}
	return nil
}
