package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/pagination"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.Product{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func uintPtr(v uint) *uint { return &v }

// seedProduct はテスト用の商品データをデータベースに作成します。
func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, active bool, categoryID, sellerID *uint) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:       name,
		Price:      price,
		Quantity:   1,
		Active:     active,
		CategoryID: categoryID,
		SellerID:   sellerID,
	}
	err := db.Create(product).Error
	require.NoError(t, err, "failed to seed product")

	// SQLiteのINSERTではboolean defaultの扱いが異なるため明示的に更新する
	err = db.Model(product).Update("active", active).Error
	require.NoError(t, err, "failed to update active flag")

	return product
}

func defaultReq() pagination.PageRequest {
	return pagination.NewPageRequest(0, 10, pagination.DefaultSortBy, pagination.Asc)
}

func TestProductGorm_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductGorm(db)

		product := &entity.Product{Name: "Laptop", Price: 999.99, Quantity: 3, Active: true}
		require.NoError(t, repo.Create(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Laptop", found.Name)
		assert.InDelta(t, 999.99, found.Price, 0.001)
	})

	t.Run("find not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductGorm(db)

		_, err := repo.FindByID(ctx, 999)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("delete not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductGorm(db)

		err := repo.Delete(ctx, 999)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestProductGorm_ActiveFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewProductGorm(db)
	seedProduct(t, db, "Visible", 10, true, nil, nil)
	seedProduct(t, db, "Hidden", 20, false, nil, nil)

	t.Run("active page excludes inactive rows", func(t *testing.T) {
		page, err := repo.FindActivePage(ctx, defaultReq())

		require.NoError(t, err)
		assert.EqualValues(t, 1, page.TotalElements)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Visible", page.Items[0].Name)
	})

	t.Run("full page includes inactive rows", func(t *testing.T) {
		page, err := repo.FindPage(ctx, defaultReq())

		require.NoError(t, err)
		assert.EqualValues(t, 2, page.TotalElements)
	})
}

func TestProductGorm_FindByCategoryPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewProductGorm(db)
	seedProduct(t, db, "In category", 10, true, uintPtr(1), nil)
	seedProduct(t, db, "Inactive in category", 10, false, uintPtr(1), nil)
	seedProduct(t, db, "Other category", 10, true, uintPtr(2), nil)
	seedProduct(t, db, "Uncategorized", 10, true, nil, nil)

	page, err := repo.FindByCategoryPage(ctx, 1, defaultReq())

	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "In category", page.Items[0].Name)
}

func TestProductGorm_FindBySellerPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewProductGorm(db)
	seedProduct(t, db, "Sold by 5", 10, true, nil, uintPtr(5))
	seedProduct(t, db, "Sold by 6", 10, true, nil, uintPtr(6))
	seedProduct(t, db, "Inactive by 5", 10, false, nil, uintPtr(5))

	page, err := repo.FindBySellerPage(ctx, 5, defaultReq())

	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sold by 5", page.Items[0].Name)
}

func TestProductGorm_SearchPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewProductGorm(db)
	seedProduct(t, db, "Gaming Laptop", 10, true, nil, nil)
	laptopDesc := seedProduct(t, db, "Notebook", 10, true, nil, nil)
	require.NoError(t, db.Model(laptopDesc).Update("description", "lightweight laptop").Error)
	seedProduct(t, db, "Inactive Laptop", 10, false, nil, nil)
	seedProduct(t, db, "Keyboard", 10, true, nil, nil)

	page, err := repo.SearchPage(ctx, "laptop", defaultReq())

	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements, "matches in name or description, active only")
}

func TestProductGorm_FindByPriceRangePage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewProductGorm(db)
	seedProduct(t, db, "Cheap", 5, true, nil, nil)
	seedProduct(t, db, "Mid", 50, true, nil, nil)
	seedProduct(t, db, "Expensive", 500, true, nil, nil)
	seedProduct(t, db, "Inactive mid", 50, false, nil, nil)

	page, err := repo.FindByPriceRangePage(ctx, 5, 50, defaultReq())

	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements, "bounds are inclusive, active only")
}

func TestProductGorm_Sorting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewProductGorm(db)
	seedProduct(t, db, "B", 20, true, nil, nil)
	seedProduct(t, db, "A", 30, true, nil, nil)
	seedProduct(t, db, "C", 10, true, nil, nil)

	t.Run("price descending", func(t *testing.T) {
		req := pagination.NewPageRequest(0, 10, "price", pagination.Desc)

		page, err := repo.FindActivePage(ctx, req)

		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "A", page.Items[0].Name)
		assert.Equal(t, "C", page.Items[2].Name)
	})

	t.Run("unknown column falls back to id", func(t *testing.T) {
		req := pagination.NewPageRequest(0, 10, "active; --", pagination.Asc)

		page, err := repo.FindActivePage(ctx, req)

		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "B", page.Items[0].Name)
	})
}

