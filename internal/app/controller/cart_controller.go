package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

// CartController serves both the authenticated cart and the guest cart.
// A valid JWT routes the request to the user's server-side cart; without
// one the X-Guest-Token header selects the anonymous cart.
type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type CartLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	UnitID    uint `json:"unit_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	UnitID    uint `json:"unit_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart returns the cart for the current identity
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if userID, ok := middleware.GetUserID(c); ok {
		cartItems, err := ctrl.cartService.GetUserCart(userID)
		if err != nil {
			log.Error("Failed to fetch cart", err, map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch cart",
			})
			return
		}

		var total float64
		for _, item := range cartItems {
			total += item.Unit.DiscountedPrice * float64(item.Quantity)
		}

		log.Info("Cart fetched successfully", map[string]interface{}{
			"user_id": userID,
			"count":   len(cartItems),
			"total":   total,
		})
		c.JSON(http.StatusOK, gin.H{
			"cart_items": cartItems,
			"count":      len(cartItems),
			"total":      total,
		})
		return
	}

	token, ok := middleware.GetGuestToken(c)
	if !ok {
		log.Warn("Cart request without identity", nil)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Guest cart token is required",
		})
		return
	}

	items, err := ctrl.cartService.GetGuestCart(c.Request.Context(), token)
	if err != nil {
		log.Error("Failed to fetch guest cart", err, map[string]interface{}{
			"token": token,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch cart",
		})
		return
	}

	var total float64
	for _, item := range items {
		total += item.Unit.DiscountedPrice * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": items,
		"count":      len(items),
		"total":      total,
	})
}

// AddToCart adds a product unit to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var err error
	if userID, ok := middleware.GetUserID(c); ok {
		err = ctrl.cartService.AddToCart(userID, req.ProductID, req.UnitID, req.Quantity)
	} else if token, ok := middleware.GetGuestToken(c); ok {
		err = ctrl.cartService.AddToGuestCart(c.Request.Context(), token, req.ProductID, req.UnitID, req.Quantity)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Guest cart token is required",
		})
		return
	}

	if err != nil {
		ctrl.respondCartError(c, err, req)
		return
	}

	log.Info("Item added to cart successfully", map[string]interface{}{
		"product_id": req.ProductID,
		"unit_id":    req.UnitID,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart successfully",
	})
}

// UpdateCartItem sets the quantity of one cart line. Quantity zero
// removes the line.
// PUT /api/v1/cart
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var err error
	if userID, ok := middleware.GetUserID(c); ok {
		err = ctrl.cartService.UpdateQuantity(userID, req.ProductID, req.UnitID, req.Quantity)
	} else if token, ok := middleware.GetGuestToken(c); ok {
		err = ctrl.cartService.UpdateGuestQuantity(c.Request.Context(), token, req.ProductID, req.UnitID, req.Quantity)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Guest cart token is required",
		})
		return
	}

	if err != nil {
		ctrl.respondCartError(c, err, CartLineRequest(req))
		return
	}

	log.Info("Cart item updated successfully", map[string]interface{}{
		"product_id": req.ProductID,
		"unit_id":    req.UnitID,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
	})
}

// RemoveFromCart removes one cart line
// DELETE /api/v1/cart/item?product_id=&unit_id=
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err1 := strconv.ParseUint(c.Query("product_id"), 10, 32)
	unitID, err2 := strconv.ParseUint(c.Query("unit_id"), 10, 32)
	if err1 != nil || err2 != nil {
		log.Warn("Invalid cart item identifiers", map[string]interface{}{
			"product_id": c.Query("product_id"),
			"unit_id":    c.Query("unit_id"),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product or unit ID",
		})
		return
	}

	var err error
	if userID, ok := middleware.GetUserID(c); ok {
		err = ctrl.cartService.RemoveFromCart(userID, uint(productID), uint(unitID))
	} else if token, ok := middleware.GetGuestToken(c); ok {
		err = ctrl.cartService.RemoveFromGuestCart(c.Request.Context(), token, uint(productID), uint(unitID))
	} else {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Guest cart token is required",
		})
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Cart item not found",
			})
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"product_id": productID,
			"unit_id":    unitID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	log.Info("Cart item removed successfully", map[string]interface{}{
		"product_id": productID,
		"unit_id":    unitID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
	})
}

// ClearCart empties the authenticated user's cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to clear cart", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	log.Info("Cart cleared successfully", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// MigrateCart folds the guest cart into the authenticated user's cart
// POST /api/v1/cart/migrate
func (ctrl *CartController) MigrateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to migrate cart", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	token, ok := middleware.GetGuestToken(c)
	if !ok || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Guest cart token is required",
		})
		return
	}

	if err := ctrl.cartService.MigrateGuestCart(c.Request.Context(), token, userID); err != nil {
		log.Error("Failed to migrate guest cart", err, map[string]interface{}{
			"user_id": userID,
			"token":   token,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to migrate cart",
		})
		return
	}

	log.Info("Guest cart migrated successfully", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart migrated successfully",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, req CartLineRequest) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		log.Warn("Product not found for cart", map[string]interface{}{
			"product_id": req.ProductID,
		})
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, service.ErrProductUnitNotFound):
		log.Warn("Product unit not found for cart", map[string]interface{}{
			"product_id": req.ProductID,
			"unit_id":    req.UnitID,
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product unit",
		})
	case errors.Is(err, service.ErrInsufficientStock):
		log.Warn("Insufficient stock for cart item", map[string]interface{}{
			"product_id": req.ProductID,
			"unit_id":    req.UnitID,
			"quantity":   req.Quantity,
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Insufficient stock",
		})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must be positive",
		})
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"product_id": req.ProductID,
			"unit_id":    req.UnitID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Cart operation failed",
		})
	}
}
