package service

import (
	"errors"
	"strings"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrApplicationNotFound = errors.New("seller application not found")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrAlreadySubscribed   = errors.New("email is already subscribed")
	ErrNotSubscribed       = errors.New("email is not subscribed")
)

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type SellerApplicationInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	FarmName string `json:"farm_name"`
	Details  string `json:"details"`
}

// ContactService handles the public contact form and its admin inbox.
type ContactService interface {
	Submit(input ContactInput) (*model.ContactSubmission, error)
	List(status string, page, perPage int) ([]model.ContactSubmission, int64, error)
	Resolve(id uint) (*model.ContactSubmission, error)
	Delete(id uint) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Submit(input ContactInput) (*model.ContactSubmission, error) {
	submission := &model.ContactSubmission{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  model.ContactStatusNew,
	}
	if err := s.contactRepo.Create(submission); err != nil {
		return nil, err
	}

	logger.Info("Contact submission received", map[string]interface{}{
		"submission_id": submission.ID,
		"email":         submission.Email,
	})
	return submission, nil
}

func (s *contactService) List(status string, page, perPage int) ([]model.ContactSubmission, int64, error) {
	offset, limit := normalizePage(page, perPage)
	return s.contactRepo.FindAll(status, offset, limit)
}

func (s *contactService) Resolve(id uint) (*model.ContactSubmission, error) {
	if _, err := s.contactRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if err := s.contactRepo.UpdateStatus(id, model.ContactStatusResolved); err != nil {
		return nil, err
	}
	return s.contactRepo.FindByID(id)
}

func (s *contactService) Delete(id uint) error {
	if _, err := s.contactRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}
	return s.contactRepo.Delete(id)
}

// SellerApplicationService handles seller onboarding requests.
type SellerApplicationService interface {
	Apply(input SellerApplicationInput) (*model.SellerApplication, error)
	List(status string, page, perPage int) ([]model.SellerApplication, int64, error)
	SetStatus(id uint, status model.ApplicationStatus) (*model.SellerApplication, error)
}

type sellerApplicationService struct {
	applicationRepo repository.SellerApplicationRepository
}

func NewSellerApplicationService(applicationRepo repository.SellerApplicationRepository) SellerApplicationService {
	return &sellerApplicationService{applicationRepo: applicationRepo}
}

func (s *sellerApplicationService) Apply(input SellerApplicationInput) (*model.SellerApplication, error) {
	application := &model.SellerApplication{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    strings.TrimSpace(input.Phone),
		FarmName: strings.TrimSpace(input.FarmName),
		Details:  strings.TrimSpace(input.Details),
		Status:   model.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(application); err != nil {
		return nil, err
	}

	logger.Info("Seller application received", map[string]interface{}{
		"application_id": application.ID,
		"email":          application.Email,
	})
	return application, nil
}

func (s *sellerApplicationService) List(status string, page, perPage int) ([]model.SellerApplication, int64, error) {
	offset, limit := normalizePage(page, perPage)
	return s.applicationRepo.FindAll(status, offset, limit)
}

func (s *sellerApplicationService) SetStatus(id uint, status model.ApplicationStatus) (*model.SellerApplication, error) {
	switch status {
	case model.ApplicationStatusApproved, model.ApplicationStatusRejected, model.ApplicationStatusPending:
	default:
		return nil, ErrInvalidStatus
	}

	if _, err := s.applicationRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if err := s.applicationRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}

	logger.Info("Seller application status updated", map[string]interface{}{
		"application_id": id,
		"status":         status,
	})
	return s.applicationRepo.FindByID(id)
}

// NewsletterService manages subscriptions. Unsubscribe keeps the row
// with a flag so resubscribing the same email just flips it back.
type NewsletterService interface {
	Subscribe(email string) error
	Unsubscribe(email string) error
	List(page, perPage int) ([]model.NewsletterSubscriber, int64, error)
	RemoveSubscriber(id uint) error
}

type newsletterService struct {
	newsletterRepo repository.NewsletterRepository
}

func NewNewsletterService(newsletterRepo repository.NewsletterRepository) NewsletterService {
	return &newsletterService{newsletterRepo: newsletterRepo}
}

func (s *newsletterService) Subscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.newsletterRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		subscriber := &model.NewsletterSubscriber{Email: email}
		if err := s.newsletterRepo.Create(subscriber); err != nil {
			return err
		}
		logger.Info("Newsletter subscription added", map[string]interface{}{
			"email": email,
		})
		return nil
	}

	if !existing.Unsubscribed {
		return ErrAlreadySubscribed
	}
	existing.Unsubscribed = false
	return s.newsletterRepo.Update(existing)
}

func (s *newsletterService) Unsubscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.newsletterRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	if existing.Unsubscribed {
		return ErrNotSubscribed
	}

	existing.Unsubscribed = true
	if err := s.newsletterRepo.Update(existing); err != nil {
		return err
	}

	logger.Info("Newsletter subscription removed", map[string]interface{}{
		"email": email,
	})
	return nil
}

// RemoveSubscriber hard-deletes a subscriber row from the admin list,
// unlike Unsubscribe which only flags it.
func (s *newsletterService) RemoveSubscriber(id uint) error {
	if _, err := s.newsletterRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSubscribed
		}
		return err
	}

	if err := s.newsletterRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Newsletter subscriber removed by admin", map[string]interface{}{
		"subscriber_id": id,
	})
	return nil
}

func (s *newsletterService) List(page, perPage int) ([]model.NewsletterSubscriber, int64, error) {
	offset, limit := normalizePage(page, perPage)
	return s.newsletterRepo.FindAll(offset, limit)
}

func normalizePage(page, perPage int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return (page - 1) * perPage, perPage
}
