package repository

import (
	"fmt"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortRating    ProductSort = "rating"
	ProductSortName      ProductSort = "name"
)

type ProductFilter struct {
	Category      string
	Subcategory   string
	Status        *model.ProductStatus
	Search        string
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
	IncludeUnits  bool
}

type ProductAttributes struct {
	Categories    []string
	Subcategories []string
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	ListAttributes() (ProductAttributes, error)
	Update(product *model.Product) error
	UpdateStatus(id uint, status model.ProductStatus) error
	UpdateRating(id uint, rating float64, reviewCount int) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"slug":     product.URLSlug,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":     product.Name,
			"slug":     product.URLSlug,
			"category": product.Category,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// BulkCreate inserts products in batches, units included via the
// association. Used by the catalog import tool.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) baseQuery(includeUnits bool) *gorm.DB {
	query := r.db.Model(&model.Product{})
	if includeUnits {
		query = query.Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_units.discounted_price ASC")
		})
	}
	return query
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	products, _, err := r.FindWithFilter(ProductFilter{IncludeUnits: true})
	return products, err
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category":    filter.Category,
		"subcategory": filter.Subcategory,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"ascending":   filter.SortAscending,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery(filter.IncludeUnits)

	if filter.Category != "" {
		query = query.Where("products.category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		query = query.Where("products.subcategory = ?", filter.Subcategory)
	}
	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, nil)
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}

	switch filter.SortBy {
	case ProductSortPrice:
		// Sort by the cheapest unit of each product.
		priceSubquery := r.db.Table("product_units").
			Select("product_units.product_id, MIN(product_units.discounted_price) AS min_price").
			Where("product_units.deleted_at IS NULL").
			Group("product_units.product_id")
		query = query.Joins("LEFT JOIN (?) AS unit_prices ON unit_prices.product_id = products.id", priceSubquery)
		query = query.Order("COALESCE(unit_prices.min_price, 0) " + direction)
	case ProductSortRating:
		query = query.Order("products.rating " + direction)
		query = query.Order("products.review_count DESC")
	case ProductSortName:
		query = query.Order("products.name " + direction)
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.baseQuery(true).First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	err := r.baseQuery(true).Where("products.url_slug = ?", slug).First(&product).Error
	if err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	logger.Debug("Product found by slug in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       slug,
	})
	return &product, nil
}

func (r *productRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	query := r.db.Model(&model.Product{}).Where("url_slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check slug existence in database", err, map[string]interface{}{
			"slug": slug,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) ListAttributes() (ProductAttributes, error) {
	logger.Debug("Listing product attributes", nil)

	result := ProductAttributes{}

	if err := r.db.Model(&model.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &result.Categories).Error; err != nil {
		logger.Error("Failed to fetch distinct categories", err, nil)
		return result, err
	}

	if err := r.db.Model(&model.Product{}).
		Where("subcategory IS NOT NULL AND subcategory <> ''").
		Distinct().
		Order("subcategory ASC").
		Pluck("subcategory", &result.Subcategories).Error; err != nil {
		logger.Error("Failed to fetch distinct subcategories", err, nil)
		return result, err
	}

	logger.Debug("Product attributes listed", map[string]interface{}{
		"category_count":    len(result.Categories),
		"subcategory_count": len(result.Subcategories),
	})
	return result, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"category":   product.Category,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) UpdateStatus(id uint, status model.ProductStatus) error {
	logger.Debug("Updating product status in database", map[string]interface{}{
		"product_id": id,
		"status":     status,
	})

	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update product status in database", err, map[string]interface{}{
			"product_id": id,
			"status":     status,
		})
		return err
	}

	logger.Debug("Product status updated in database", map[string]interface{}{
		"product_id": id,
		"status":     status,
	})
	return nil
}

func (r *productRepository) UpdateRating(id uint, rating float64, reviewCount int) error {
	logger.Debug("Updating product rating in database", map[string]interface{}{
		"product_id":   id,
		"rating":       rating,
		"review_count": reviewCount,
	})

	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error; err != nil {
		logger.Error("Failed to update product rating in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product rating updated in database", map[string]interface{}{
		"product_id": id,
		"rating":     rating,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
