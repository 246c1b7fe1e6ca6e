package service

import (
	"errors"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/jattu8602/ek-sub000/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductUnitNotFound = errors.New("product unit not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrSlugAlreadyExists   = errors.New("product slug already exists")
	ErrProductHasNoUnits   = errors.New("product needs at least one unit")
	ErrInvalidUnitPrice    = errors.New("discounted price cannot exceed actual price")
)

type ProductListOptions struct {
	Category      string
	Subcategory   string
	Search        string
	SortBy        string
	SortAscending bool
	Page          int
	PerPage       int
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
}

type UnitInput struct {
	ID              uint    `json:"id"`
	Number          float64 `json:"number"`
	UnitType        string  `json:"unit_type"`
	ActualPrice     float64 `json:"actual_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	Stock           *int    `json:"stock"`
}

type ProductInput struct {
	Name             string      `json:"name"`
	Category         string      `json:"category"`
	Subcategory      string      `json:"subcategory"`
	Description      string      `json:"description"`
	DescriptionHindi string      `json:"description_hindi"`
	Images           []string    `json:"images"`
	Units            []UnitInput `json:"units"`
}

type ProductService interface {
	ListProducts(opts ProductListOptions) (*ProductPage, error)
	GetPopularProducts(limit int) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetAvailableFilters() (repository.ProductAttributes, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	RecomputeStatus(productID uint) error
	RecomputeRating(productID uint) error
}

type productService struct {
	productRepo       repository.ProductRepository
	unitRepo          repository.ProductUnitRepository
	reviewRepo        repository.ReviewRepository
	lowStockThreshold int
}

func NewProductService(
	productRepo repository.ProductRepository,
	unitRepo repository.ProductUnitRepository,
	reviewRepo repository.ReviewRepository,
	lowStockThreshold int,
) ProductService {
	return &productService{
		productRepo:       productRepo,
		unitRepo:          unitRepo,
		reviewRepo:        reviewRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

func validateUnits(units []UnitInput) error {
	for _, u := range units {
		if u.ActualPrice <= 0 || u.DiscountedPrice <= 0 {
			return ErrInvalidUnitPrice
		}
		if u.DiscountedPrice > u.ActualPrice {
			return ErrInvalidUnitPrice
		}
	}
	return nil
}

func (s *productService) ListProducts(opts ProductListOptions) (*ProductPage, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category":    opts.Category,
		"subcategory": opts.Subcategory,
		"search":      opts.Search,
		"sort_by":     opts.SortBy,
		"page":        opts.Page,
		"per_page":    opts.PerPage,
	})

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filter := repository.ProductFilter{
		Category:      opts.Category,
		Subcategory:   opts.Subcategory,
		Search:        opts.Search,
		SortBy:        repository.ProductSort(opts.SortBy),
		SortAscending: opts.SortAscending,
		Limit:         perPage,
		Offset:        (page - 1) * perPage,
		IncludeUnits:  true,
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Info("Products listed successfully", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// GetPopularProducts returns the highest rated products for the storefront
// home page carousel.
func (s *productService) GetPopularProducts(limit int) ([]model.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}

	products, _, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		SortBy:       repository.ProductSortRating,
		Limit:        limit,
		IncludeUnits: true,
	})
	if err != nil {
		logger.Error("Failed to fetch popular products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	logger.Debug("Fetching product by slug", map[string]interface{}{
		"slug": slug,
	})

	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found by slug", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetAvailableFilters() (repository.ProductAttributes, error) {
	attrs, err := s.productRepo.ListAttributes()
	if err != nil {
		logger.Error("Failed to fetch product filter metadata", err, nil)
		return attrs, err
	}
	return attrs, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     input.Name,
		"category": input.Category,
		"units":    len(input.Units),
	})

	if len(input.Units) == 0 {
		return nil, ErrProductHasNoUnits
	}
	if err := validateUnits(input.Units); err != nil {
		return nil, err
	}

	slug := util.Slugify(input.Name)
	exists, err := s.productRepo.SlugExists(slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Product slug already taken", map[string]interface{}{
			"slug": slug,
		})
		return nil, ErrSlugAlreadyExists
	}

	product := &model.Product{
		Name:             input.Name,
		URLSlug:          slug,
		Category:         input.Category,
		Subcategory:      input.Subcategory,
		Description:      input.Description,
		DescriptionHindi: input.DescriptionHindi,
		Status:           model.ProductStatusActive,
	}
	product.SetImageList(input.Images)

	for _, u := range input.Units {
		product.Units = append(product.Units, model.ProductUnit{
			Number:          u.Number,
			UnitType:        u.UnitType,
			ActualPrice:     u.ActualPrice,
			DiscountedPrice: u.DiscountedPrice,
			Stock:           u.Stock,
		})
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	if err := s.RecomputeStatus(product.ID); err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.URLSlug,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
		"name":       input.Name,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if err := validateUnits(input.Units); err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != product.Name {
		slug := util.Slugify(input.Name)
		exists, err := s.productRepo.SlugExists(slug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrSlugAlreadyExists
		}
		product.Name = input.Name
		product.URLSlug = slug
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Subcategory != "" {
		product.Subcategory = input.Subcategory
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.DescriptionHindi != "" {
		product.DescriptionHindi = input.DescriptionHindi
	}
	if input.Images != nil {
		product.SetImageList(input.Images)
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	// Unit updates are full replacements per unit: existing IDs are
	// updated in place, new entries are created, omitted ones stay.
	for _, u := range input.Units {
		if u.ID > 0 {
			unit, err := s.unitRepo.FindByID(u.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrProductUnitNotFound
				}
				return nil, err
			}
			if unit.ProductID != id {
				return nil, ErrProductUnitNotFound
			}
			unit.Number = u.Number
			unit.UnitType = u.UnitType
			unit.ActualPrice = u.ActualPrice
			unit.DiscountedPrice = u.DiscountedPrice
			unit.Stock = u.Stock
			if err := s.unitRepo.Update(unit); err != nil {
				return nil, err
			}
		} else {
			if err := s.unitRepo.Create(&model.ProductUnit{
				ProductID:       id,
				Number:          u.Number,
				UnitType:        u.UnitType,
				ActualPrice:     u.ActualPrice,
				DiscountedPrice: u.DiscountedPrice,
				Stock:           u.Stock,
			}); err != nil {
				return nil, err
			}
		}
	}

	if len(input.Units) > 0 {
		if err := s.RecomputeStatus(id); err != nil {
			return nil, err
		}
	}

	updated, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})
	return updated, nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// RecomputeStatus derives a product's status from its unit stocks:
// out_of_stock when every limited unit is at zero, low_stock when the
// total remaining is at or below the threshold, active otherwise.
// Units with unlimited stock keep the product active. Runs inline after
// unit writes and stock decrements, and hourly from the scheduler.
func (s *productService) RecomputeStatus(productID uint) error {
	units, err := s.unitRepo.FindByProductID(productID)
	if err != nil {
		logger.Error("Failed to fetch units for status recompute", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	status := model.ProductStatusOutOfStock
	if len(units) == 0 {
		status = model.ProductStatusOutOfStock
	} else {
		totalStock := 0
		unlimited := false
		for _, u := range units {
			if u.Stock == nil {
				unlimited = true
				break
			}
			totalStock += *u.Stock
		}
		switch {
		case unlimited:
			status = model.ProductStatusActive
		case totalStock == 0:
			status = model.ProductStatusOutOfStock
		case totalStock <= s.lowStockThreshold:
			status = model.ProductStatusLowStock
		default:
			status = model.ProductStatusActive
		}
	}

	if err := s.productRepo.UpdateStatus(productID, status); err != nil {
		return err
	}

	logger.Debug("Product status recomputed", map[string]interface{}{
		"product_id": productID,
		"status":     status,
	})
	return nil
}

// RecomputeRating refreshes the denormalized rating fields from the
// ratings table.
func (s *productService) RecomputeRating(productID uint) error {
	avg, count, err := s.reviewRepo.RatingSummary(productID)
	if err != nil {
		logger.Error("Failed to compute rating summary", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	if err := s.productRepo.UpdateRating(productID, avg, int(count)); err != nil {
		return err
	}

	logger.Debug("Product rating recomputed", map[string]interface{}{
		"product_id": productID,
		"rating":     avg,
		"count":      count,
	})
	return nil
}
