package service

import (
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	unitRepo := repository.NewProductUnitRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	return testDB, NewProductService(productRepo, unitRepo, reviewRepo, 5)
}

func intPtr(v int) *int { return &v }

func basicInput(name string) ProductInput {
	return ProductInput{
		Name:     name,
		Category: "vegetables",
		Units: []UnitInput{
			{Number: 1, UnitType: "kg", ActualPrice: 60, DiscountedPrice: 50, Stock: intPtr(20)},
		},
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	testDB, service := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	t.Run("creates with slug and units", func(t *testing.T) {
		input := basicInput("Fresh Tomato")
		input.Images = []string{"https://img.example.com/tomato.jpg"}

		product, err := service.CreateProduct(input)
		require.NoError(t, err)

		assert.Equal(t, "fresh-tomato", product.URLSlug)
		assert.Equal(t, model.ProductStatusActive, product.Status)
		require.Len(t, product.Units, 1)
		assert.Equal(t, 50.0, product.Units[0].DiscountedPrice)
		assert.Equal(t, []string{"https://img.example.com/tomato.jpg"}, product.ImageList())
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		_, err := service.CreateProduct(basicInput("Fresh Tomato"))
		assert.ErrorIs(t, err, ErrSlugAlreadyExists)
	})

	t.Run("rejects product without units", func(t *testing.T) {
		input := basicInput("Green Peas")
		input.Units = nil

		_, err := service.CreateProduct(input)
		assert.ErrorIs(t, err, ErrProductHasNoUnits)
	})

	t.Run("rejects discounted price above actual price", func(t *testing.T) {
		input := basicInput("Okra")
		input.Units[0].ActualPrice = 100
		input.Units[0].DiscountedPrice = 250

		_, err := service.CreateProduct(input)
		assert.ErrorIs(t, err, ErrInvalidUnitPrice)
	})

	t.Run("rejects non-positive prices", func(t *testing.T) {
		input := basicInput("Spinach")
		input.Units[0].DiscountedPrice = 0

		_, err := service.CreateProduct(input)
		assert.ErrorIs(t, err, ErrInvalidUnitPrice)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	testDB, service := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	created, err := service.CreateProduct(basicInput("Red Onion"))
	require.NoError(t, err)

	t.Run("rename regenerates the slug", func(t *testing.T) {
		input := basicInput("Pink Onion")
		input.Units[0].ID = created.Units[0].ID

		updated, err := service.UpdateProduct(created.ID, input)
		require.NoError(t, err)
		assert.Equal(t, "pink-onion", updated.URLSlug)
	})

	t.Run("rename onto an existing slug fails", func(t *testing.T) {
		_, err := service.CreateProduct(basicInput("White Onion"))
		require.NoError(t, err)

		input := basicInput("White Onion")
		_, err = service.UpdateProduct(created.ID, input)
		assert.ErrorIs(t, err, ErrSlugAlreadyExists)
	})

	t.Run("adds a new unit alongside existing", func(t *testing.T) {
		input := basicInput("Pink Onion")
		input.Units[0].ID = created.Units[0].ID
		input.Units = append(input.Units, UnitInput{
			Number: 5, UnitType: "kg", ActualPrice: 280, DiscountedPrice: 240, Stock: intPtr(8),
		})

		updated, err := service.UpdateProduct(created.ID, input)
		require.NoError(t, err)
		assert.Len(t, updated.Units, 2)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := service.UpdateProduct(99999, basicInput("Ghost"))
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("rejects discounted price above actual price", func(t *testing.T) {
		input := basicInput("Pink Onion")
		input.Units[0].ID = created.Units[0].ID
		input.Units[0].ActualPrice = 100
		input.Units[0].DiscountedPrice = 250

		_, err := service.UpdateProduct(created.ID, input)
		assert.ErrorIs(t, err, ErrInvalidUnitPrice)
	})

	t.Run("unit writes refresh the product status", func(t *testing.T) {
		fresh, err := service.CreateProduct(basicInput("Yellow Onion"))
		require.NoError(t, err)
		require.Equal(t, model.ProductStatusActive, fresh.Status)

		input := basicInput("Yellow Onion")
		input.Units[0].ID = fresh.Units[0].ID
		input.Units[0].Stock = intPtr(0)

		updated, err := service.UpdateProduct(fresh.ID, input)
		require.NoError(t, err)
		assert.Equal(t, model.ProductStatusOutOfStock, updated.Status)
	})
}

func TestProductService_RecomputeStatus(t *testing.T) {
	testDB, service := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	productRepo := repository.NewProductRepository(testDB)

	cases := []struct {
		name   string
		stocks []*int
		want   model.ProductStatus
	}{
		{"unlimited unit keeps product active", []*int{nil, intPtr(0)}, model.ProductStatusActive},
		{"all stock gone", []*int{intPtr(0), intPtr(0)}, model.ProductStatusOutOfStock},
		{"total at threshold", []*int{intPtr(2), intPtr(3)}, model.ProductStatusLowStock},
		{"plenty of stock", []*int{intPtr(50)}, model.ProductStatusActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := basicInput("Product " + tc.name)
			input.Units = nil
			for _, stock := range tc.stocks {
				input.Units = append(input.Units, UnitInput{
					Number: 1, UnitType: "kg", ActualPrice: 60, DiscountedPrice: 50, Stock: stock,
				})
			}
			product, err := service.CreateProduct(input)
			require.NoError(t, err)

			require.NoError(t, service.RecomputeStatus(product.ID))

			refreshed, err := productRepo.FindByID(product.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, refreshed.Status)
		})
	}
}

func TestProductService_RecomputeRating(t *testing.T) {
	testDB, service := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product, err := service.CreateProduct(basicInput("Sweet Corn"))
	require.NoError(t, err)

	users := make([]*model.User, 2)
	for i := range users {
		users[i] = &model.User{
			Email:        "rater" + string(rune('a'+i)) + "@example.com",
			PasswordHash: "hash",
			Name:         "Rater",
			Role:         model.RoleCustomer,
		}
		testDB.Create(users[i])
	}
	testDB.Create(&model.Rating{UserID: users[0].ID, ProductID: product.ID, Stars: 5})
	testDB.Create(&model.Rating{UserID: users[1].ID, ProductID: product.ID, Stars: 4})

	require.NoError(t, service.RecomputeRating(product.ID))

	refreshed, err := service.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, refreshed.Rating, 0.001)
	assert.Equal(t, 2, refreshed.ReviewCount)
}

func TestProductService_ListProducts(t *testing.T) {
	testDB, service := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	names := []string{"Apple", "Banana", "Carrot"}
	for _, name := range names {
		_, err := service.CreateProduct(basicInput(name))
		require.NoError(t, err)
	}

	t.Run("default paging", func(t *testing.T) {
		page, err := service.ListProducts(ProductListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Products, 3)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("per page limits results", func(t *testing.T) {
		page, err := service.ListProducts(ProductListOptions{Page: 2, PerPage: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Products, 1)
	})
}

func TestProductService_GetPopularProducts(t *testing.T) {
	testDB, service := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	names := []string{"Fresh Tomato", "Alphonso Mango", "Basmati Rice"}
	ratings := []float64{3.2, 4.8, 4.1}
	for i, name := range names {
		product, err := service.CreateProduct(basicInput(name))
		require.NoError(t, err)
		require.NoError(t, testDB.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("rating", ratings[i]).Error)
	}

	products, err := service.GetPopularProducts(2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Alphonso Mango", products[0].Name)
	assert.Equal(t, "Basmati Rice", products[1].Name)

	// Out of range limits fall back to the default.
	products, err = service.GetPopularProducts(-1)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
