package repository

import (
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func seedProduct(t *testing.T, testDB *gorm.DB, name, slug, category string, unitPrice float64) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     name,
		URLSlug:  slug,
		Category: category,
		Status:   model.ProductStatusActive,
	}
	require.NoError(t, testDB.Create(product).Error)

	stock := 10
	unit := &model.ProductUnit{
		ProductID:       product.ID,
		Number:          1,
		UnitType:        "kg",
		ActualPrice:     unitPrice * 1.1,
		DiscountedPrice: unitPrice,
		Stock:           &stock,
	}
	require.NoError(t, testDB.Create(unit).Error)

	return product
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:     "Alphonso Mango",
		URLSlug:  "alphonso-mango",
		Category: "fruits",
		Status:   model.ProductStatusActive,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)

	t.Run("Duplicate slug", func(t *testing.T) {
		dup := &model.Product{
			Name:     "Another Mango",
			URLSlug:  "alphonso-mango",
			Category: "fruits",
		}
		err := repo.Create(dup)
		assert.Error(t, err)
	})
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)
	seedProduct(t, testDB, "Brown Rice", "brown-rice", "grains", 90)
	seedProduct(t, testDB, "Alphonso Mango", "alphonso-mango", "fruits", 400)

	t.Run("No filter returns everything", func(t *testing.T) {
		products, total, err := repo.FindWithFilter(ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 3)
	})

	t.Run("Filter by category", func(t *testing.T) {
		products, total, err := repo.FindWithFilter(ProductFilter{Category: "grains"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, products, 2)
	})

	t.Run("Search by name", func(t *testing.T) {
		products, total, err := repo.FindWithFilter(ProductFilter{Search: "Rice"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, p := range products {
			assert.Contains(t, p.Name, "Rice")
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		products, total, err := repo.FindWithFilter(ProductFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 2)
	})

	t.Run("Sort by price ascending", func(t *testing.T) {
		products, _, err := repo.FindWithFilter(ProductFilter{
			SortBy:        ProductSortPrice,
			SortAscending: true,
		})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Brown Rice", products[0].Name)
		assert.Equal(t, "Alphonso Mango", products[2].Name)
	})

	t.Run("Units preloaded when requested", func(t *testing.T) {
		products, _, err := repo.FindWithFilter(ProductFilter{
			Category:     "fruits",
			IncludeUnits: true,
		})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.NotEmpty(t, products[0].Units)
	})
}

func TestProductRepository_FindBySlug(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)

	t.Run("Existing slug", func(t *testing.T) {
		product, err := repo.FindBySlug("basmati-rice")
		require.NoError(t, err)
		assert.Equal(t, "Basmati Rice", product.Name)
		assert.NotEmpty(t, product.Units)
	})

	t.Run("Unknown slug", func(t *testing.T) {
		_, err := repo.FindBySlug("no-such-product")
		assert.Error(t, err)
	})
}

func TestProductRepository_SlugExists(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)

	exists, err := repo.SlugExists("basmati-rice", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// Excluding the product itself, the slug is free
	exists, err = repo.SlugExists("basmati-rice", product.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.SlugExists("unused-slug", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_UpdateStatus(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)

	err := repo.UpdateStatus(product.ID, model.ProductStatusOutOfStock)
	require.NoError(t, err)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusOutOfStock, found.Status)
}

func TestProductRepository_UpdateRating(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)

	err := repo.UpdateRating(product.ID, 4.5, 12)
	require.NoError(t, err)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, found.Rating)
	assert.Equal(t, 12, found.ReviewCount)
}

func TestProductRepository_ListAttributes(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)
	seedProduct(t, testDB, "Alphonso Mango", "alphonso-mango", "fruits", 400)

	attrs, err := repo.ListAttributes()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fruits", "grains"}, attrs.Categories)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := seedProduct(t, testDB, "Basmati Rice", "basmati-rice", "grains", 120)

	err := repo.Delete(product.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(product.ID)
	assert.Error(t, err)
}
