package repository

import (
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateReview(review *model.Review) error
	FindReviewsByProductID(productID uint) ([]model.Review, error)
	DeleteReview(id uint) error
	FindReviewByID(id uint) (*model.Review, error)

	UpsertRating(rating *model.Rating) error
	FindRatingByUserAndProduct(userID, productID uint) (*model.Rating, error)
	RatingSummary(productID uint) (avg float64, count int64, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"user_id":    review.UserID,
		"product_id": review.ProductID,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":    review.UserID,
			"product_id": review.ProductID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
	})
	return nil
}

func (r *reviewRepository) FindReviewsByProductID(productID uint) ([]model.Review, error) {
	logger.Debug("Finding reviews by product ID in database", map[string]interface{}{
		"product_id": productID,
	})

	var reviews []model.Review
	if err := r.db.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Reviews found by product ID in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(reviews),
	})
	return reviews, nil
}

func (r *reviewRepository) FindReviewByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) DeleteReview(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}

	logger.Debug("Review deleted from database", map[string]interface{}{
		"review_id": id,
	})
	return nil
}

// UpsertRating stores one rating per user per product, updating the
// stars if the user has rated before.
func (r *reviewRepository) UpsertRating(rating *model.Rating) error {
	logger.Debug("Upserting rating in database", map[string]interface{}{
		"user_id":    rating.UserID,
		"product_id": rating.ProductID,
		"stars":      rating.Stars,
	})

	var existing model.Rating
	err := r.db.Where("user_id = ? AND product_id = ?", rating.UserID, rating.ProductID).
		First(&existing).Error
	if err == nil {
		existing.Stars = rating.Stars
		if err := r.db.Save(&existing).Error; err != nil {
			logger.Error("Failed to update rating in database", err, map[string]interface{}{
				"rating_id": existing.ID,
			})
			return err
		}
		*rating = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		logger.Error("Failed to look up existing rating in database", err, map[string]interface{}{
			"user_id":    rating.UserID,
			"product_id": rating.ProductID,
		})
		return err
	}

	if err := r.db.Create(rating).Error; err != nil {
		logger.Error("Failed to create rating in database", err, map[string]interface{}{
			"user_id":    rating.UserID,
			"product_id": rating.ProductID,
		})
		return err
	}

	logger.Debug("Rating created in database", map[string]interface{}{
		"rating_id": rating.ID,
	})
	return nil
}

func (r *reviewRepository) FindRatingByUserAndProduct(userID, productID uint) (*model.Rating, error) {
	var rating model.Rating
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *reviewRepository) RatingSummary(productID uint) (float64, int64, error) {
	logger.Debug("Computing rating summary in database", map[string]interface{}{
		"product_id": productID,
	})

	var result struct {
		Avg   float64
		Count int64
	}
	if err := r.db.Model(&model.Rating{}).
		Select("COALESCE(AVG(stars), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		logger.Error("Failed to compute rating summary in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, 0, err
	}

	logger.Debug("Rating summary computed in database", map[string]interface{}{
		"product_id": productID,
		"avg":        result.Avg,
		"count":      result.Count,
	})
	return result.Avg, result.Count, nil
}
