package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

type RateProductRequest struct {
	Stars int `json:"stars" binding:"required,min=1,max=5"`
}

type AddReviewRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// GetProductReviews returns reviews plus the rating summary for a product
// GET /api/v1/products/:productId/reviews
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to fetch reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch reviews",
		})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// RateProduct records the user's star rating for a product
// POST /api/v1/products/:productId/rating
func (ctrl *ReviewController) RateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req RateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if err := ctrl.reviewService.RateProduct(userID, uint(productID), req.Stars); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Rating must be between 1 and 5 stars",
			})
		default:
			log.Error("Failed to rate product", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to rate product",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating saved",
	})
}

// AddReview posts a text review on a product
// POST /api/v1/products/:productId/reviews
func (ctrl *ReviewController) AddReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	review, err := ctrl.reviewService.AddReview(userID, uint(productID), req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, service.ErrEmptyComment):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Review comment cannot be empty",
			})
		default:
			log.Error("Failed to add review", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to add review",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review added successfully",
		"review":  review,
	})
}

// DeleteReview removes a review; admins can remove any review
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid review ID",
		})
		return
	}

	role, _ := middleware.GetUserRole(c)
	isAdmin := role == model.RoleAdmin

	if err := ctrl.reviewService.DeleteReview(userID, uint(reviewID), isAdmin); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Review not found",
			})
		case errors.Is(err, service.ErrReviewAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "You can only delete your own reviews",
			})
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"user_id":   userID,
				"review_id": reviewID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete review",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}
