package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	apperrors "github.com/jattu8602/ek-sub000/internal/errors"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	aiService      service.AIService
}

func NewProductController(productService service.ProductService, aiService service.AIService) *ProductController {
	return &ProductController{
		productService: productService,
		aiService:      aiService,
	}
}

type GenerateDescriptionRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Subcategory string `json:"subcategory"`
}

// GetProducts returns the product catalog with filtering and paging
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	opts := service.ProductListOptions{
		Category:      c.Query("category"),
		Subcategory:   c.Query("subcategory"),
		Search:        c.Query("search"),
		SortBy:        c.Query("sort_by"),
		SortAscending: c.Query("order") == "asc",
		Page:          page,
		PerPage:       perPage,
	}

	result, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": result.Products,
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
	})
}

// GetPopularProducts returns the top rated products
// GET /api/v1/products/popular
func (ctrl *ProductController) GetPopularProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	products, err := ctrl.productService.GetPopularProducts(limit)
	if err != nil {
		log.Error("Failed to fetch popular products", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch popular products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// GetProduct returns one product by numeric ID or URL slug
// GET /api/v1/products/:productId
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idOrSlug := c.Param("productId")

	var err error
	if id, parseErr := strconv.ParseUint(idOrSlug, 10, 32); parseErr == nil {
		product, svcErr := ctrl.productService.GetProductByID(uint(id))
		if svcErr == nil {
			c.JSON(http.StatusOK, gin.H{"product": product, "images": product.ImageList()})
			return
		}
		err = svcErr
	} else {
		product, svcErr := ctrl.productService.GetProductBySlug(idOrSlug)
		if svcErr == nil {
			c.JSON(http.StatusOK, gin.H{"product": product, "images": product.ImageList()})
			return
		}
		err = svcErr
	}

	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	log.Error("Failed to fetch product", err, map[string]interface{}{
		"id_or_slug": idOrSlug,
	})
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Failed to fetch product",
	})
}

// GetFilters returns the distinct categories and subcategories
// GET /api/v1/products/filters
func (ctrl *ProductController) GetFilters(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	attrs, err := ctrl.productService.GetAvailableFilters()
	if err != nil {
		log.Error("Failed to fetch filters", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch filters",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories":    attrs.Categories,
		"subcategories": attrs.Subcategories,
	})
}

// CreateProduct creates a product with its units (Admin only)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A product with this name already exists",
			})
		case errors.Is(err, service.ErrProductHasNoUnits):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Product needs at least one unit",
			})
		default:
			log.Error("Failed to create product", err, map[string]interface{}{
				"name": input.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product create")
		}
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product and its units (Admin only)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.UpdateProduct(uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, service.ErrProductUnitNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid product unit",
			})
		case errors.Is(err, service.ErrSlugAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A product with this name already exists",
			})
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product update")
		}
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product (Admin only)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product delete")
		return
	}

	log.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// GenerateDescription produces bilingual AI copy for the product form (Admin only)
// POST /api/v1/admin/products/generate-description
func (ctrl *ProductController) GenerateDescription(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GenerateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	description, err := ctrl.aiService.GenerateDescription(c.Request.Context(), req.Name, req.Category, req.Subcategory)
	if err != nil {
		if errors.Is(err, service.ErrAINotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "AI generation is not configured",
			})
			return
		}
		log.Error("Failed to generate description", err, map[string]interface{}{
			"name": req.Name,
		})
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to generate description",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description":       description.English,
		"description_hindi": description.Hindi,
	})
}

// SearchImages returns stock photo candidates for a product (Admin only)
// GET /api/v1/admin/products/image-search?query=
func (ctrl *ProductController) SearchImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Search query is required",
		})
		return
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))

	results, err := ctrl.aiService.SearchImages(c.Request.Context(), query, perPage)
	if err != nil {
		if errors.Is(err, service.ErrAINotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Image search is not configured",
			})
			return
		}
		log.Error("Image search failed", err, map[string]interface{}{
			"query": query,
		})
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Image search failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}
