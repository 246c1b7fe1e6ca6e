package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type MarkFailedRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
}

// CreateIntent opens a payment intent from the user's cart
// POST /api/v1/checkout/intent
func (ctrl *CheckoutController) CreateIntent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	intent, err := ctrl.checkoutService.CreateIntent(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartEmpty):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, service.ErrAddressRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "A shipping address is required",
			})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{
				"error": "One or more items are out of stock",
			})
		case errors.Is(err, service.ErrProductUnitNotFound):
			c.JSON(http.StatusConflict, gin.H{
				"error": "One or more items are no longer available",
			})
		default:
			log.Error("Failed to create checkout intent", err, map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to start checkout",
			})
		}
		return
	}

	log.Info("Checkout intent created", map[string]interface{}{
		"user_id":          userID,
		"gateway_order_id": intent.GatewayOrderID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"intent": intent,
	})
}

// VerifyPayment verifies the gateway callback and materializes the order
// POST /api/v1/checkout/verify
func (ctrl *CheckoutController) VerifyPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req service.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := ctrl.checkoutService.VerifyAndConfirm(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
		case errors.Is(err, service.ErrPaymentAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Payment belongs to another user",
			})
		case errors.Is(err, service.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment verification failed",
			})
		case errors.Is(err, service.ErrPaymentNotCaptured):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment was not completed at the gateway",
			})
		default:
			log.Error("Failed to verify payment", err, map[string]interface{}{
				"user_id":          userID,
				"gateway_order_id": req.GatewayOrderID,
				"payment_id":       req.PaymentID,
			})
			// The charge may have gone through even though the order did
			// not materialize, so the buyer needs a reference to escalate.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      "Your payment was received but the order could not be confirmed. Please contact support with your payment ID.",
				"payment_id": req.PaymentID,
			})
		}
		return
	}

	log.Info("Payment verified, order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})
	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// MarkFailed records a client-side payment failure or abandonment
// POST /api/v1/checkout/failed
func (ctrl *CheckoutController) MarkFailed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req MarkFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := ctrl.checkoutService.MarkFailed(userID, req.GatewayOrderID); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
		case errors.Is(err, service.ErrPaymentAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Payment belongs to another user",
			})
		case errors.Is(err, service.ErrPaymentAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Payment has already been verified",
			})
		default:
			log.Error("Failed to mark payment failed", err, map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update payment",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment marked as failed",
	})
}
