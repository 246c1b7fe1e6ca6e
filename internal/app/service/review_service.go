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
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewAccessDenied = errors.New("review belongs to another user")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5 stars")
	ErrEmptyComment       = errors.New("review comment cannot be empty")
)

// ProductReviews bundles everything the product page shows.
type ProductReviews struct {
	Reviews     []model.Review `json:"reviews"`
	Rating      float64        `json:"rating"`
	ReviewCount int64          `json:"review_count"`
}

type ReviewService interface {
	RateProduct(userID, productID uint, stars int) error
	AddReview(userID, productID uint, comment string) (*model.Review, error)
	GetProductReviews(productID uint) (*ProductReviews, error)
	DeleteReview(userID, reviewID uint, isAdmin bool) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// RateProduct records or replaces the user's star rating and refreshes
// the product's denormalized average.
func (s *reviewService) RateProduct(userID, productID uint, stars int) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	rating := &model.Rating{
		UserID:    userID,
		ProductID: productID,
		Stars:     stars,
	}
	if err := s.reviewRepo.UpsertRating(rating); err != nil {
		return err
	}

	logger.Info("Product rated", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"stars":      stars,
	})
	return s.refreshProductRating(productID)
}

func (s *reviewService) AddReview(userID, productID uint, comment string) (*model.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Comment:   comment,
	}
	if err := s.reviewRepo.CreateReview(review); err != nil {
		return nil, err
	}

	logger.Info("Review added", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"review_id":  review.ID,
	})
	return review, nil
}

func (s *reviewService) GetProductReviews(productID uint) (*ProductReviews, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindReviewsByProductID(productID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviewRepo.RatingSummary(productID)
	if err != nil {
		return nil, err
	}

	return &ProductReviews{
		Reviews:     reviews,
		Rating:      avg,
		ReviewCount: count,
	}, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if !isAdmin && review.UserID != userID {
		return ErrReviewAccessDenied
	}

	if err := s.reviewRepo.DeleteReview(reviewID); err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":  reviewID,
		"deleted_by": userID,
	})
	return nil
}

func (s *reviewService) refreshProductRating(productID uint) error {
	avg, count, err := s.reviewRepo.RatingSummary(productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(productID, avg, int(count))
}
