package usecase

import (
	"context"
	"errors"
	"testing"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/pagination"
)

// mockProductRepository is a mock implementation of the ProductRepository interface.
type mockProductRepository struct {
	CreateFunc               func(ctx context.Context, product *entity.Product) error
	UpdateFunc               func(ctx context.Context, product *entity.Product) error
	DeleteFunc               func(ctx context.Context, id uint) error
	FindByIDFunc             func(ctx context.Context, id uint) (*entity.Product, error)
	FindPageFunc             func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error)
	FindActivePageFunc       func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error)
	FindByCategoryPageFunc   func(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error)
	FindBySellerPageFunc     func(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error)
	SearchPageFunc           func(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error)
	FindByPriceRangePageFunc func(ctx context.Context, minPrice, maxPrice float64, req pagination.PageRequest) (pagination.Page[entity.Product], error)
}

func (m *mockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, product)
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, apperr.ErrNotFound
}

func (m *mockProductRepository) FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	if m.FindPageFunc != nil {
		return m.FindPageFunc(ctx, req)
	}
	return pagination.NewPage([]entity.Product{}, 0, req), nil
}

func (m *mockProductRepository) FindActivePage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	if m.FindActivePageFunc != nil {
		return m.FindActivePageFunc(ctx, req)
	}
	return pagination.NewPage([]entity.Product{}, 0, req), nil
}

func (m *mockProductRepository) FindByCategoryPage(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	if m.FindByCategoryPageFunc != nil {
		return m.FindByCategoryPageFunc(ctx, categoryID, req)
	}
	return pagination.NewPage([]entity.Product{}, 0, req), nil
}

func (m *mockProductRepository) FindBySellerPage(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	if m.FindBySellerPageFunc != nil {
		return m.FindBySellerPageFunc(ctx, sellerID, req)
	}
	return pagination.NewPage([]entity.Product{}, 0, req), nil
}

func (m *mockProductRepository) SearchPage(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	if m.SearchPageFunc != nil {
		return m.SearchPageFunc(ctx, keyword, req)
	}
	return pagination.NewPage([]entity.Product{}, 0, req), nil
}

func (m *mockProductRepository) FindByPriceRangePage(ctx context.Context, minPrice, maxPrice float64, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	if m.FindByPriceRangePageFunc != nil {
		return m.FindByPriceRangePageFunc(ctx, minPrice, maxPrice, req)
	}
	return pagination.NewPage([]entity.Product{}, 0, req), nil
}

// mockExistsStore is a mock implementation of the CategoryStore and
// SellerStore interfaces.
type mockExistsStore struct {
	ExistsByIDFunc func(ctx context.Context, id uint) (bool, error)
}

func (m *mockExistsStore) ExistsByID(ctx context.Context, id uint) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return true, nil
}

func uintPtr(v uint) *uint { return &v }

func floatPtr(v float64) *float64 { return &v }

func defaultReq() pagination.PageRequest {
	return pagination.NewPageRequest(0, 10, pagination.DefaultSortBy, pagination.Asc)
}

func TestProductUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful create defaults to active", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			CreateFunc: func(ctx context.Context, product *entity.Product) error {
				product.ID = 1
				return nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		view, err := uc.Create(ctx, ProductInput{Name: "Laptop", Price: 999.99, Quantity: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !view.Active {
			t.Error("expected product to be active by default")
		}
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.Create(ctx, ProductInput{Name: "  ", Price: 1})
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got: %v", err)
		}
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.Create(ctx, ProductInput{Name: "Laptop", Price: -1})
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got: %v", err)
		}
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.Create(ctx, ProductInput{Name: "Laptop", Price: 1, Quantity: -1})
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got: %v", err)
		}
	})

	t.Run("dangling category reference", func(t *testing.T) {
		categories := &mockExistsStore{
			ExistsByIDFunc: func(ctx context.Context, id uint) (bool, error) { return false, nil },
		}
		uc := NewProductUsecase(&mockProductRepository{}, categories, &mockExistsStore{})

		_, err := uc.Create(ctx, ProductInput{Name: "Laptop", Price: 1, CategoryID: uintPtr(9)})
		if !errors.Is(err, apperr.ErrReferenceNotFound) {
			t.Errorf("expected ErrReferenceNotFound, got: %v", err)
		}
	})

	t.Run("dangling seller reference", func(t *testing.T) {
		sellers := &mockExistsStore{
			ExistsByIDFunc: func(ctx context.Context, id uint) (bool, error) { return false, nil },
		}
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, sellers)

		_, err := uc.Create(ctx, ProductInput{Name: "Laptop", Price: 1, SellerID: uintPtr(9)})
		if !errors.Is(err, apperr.ErrReferenceNotFound) {
			t.Errorf("expected ErrReferenceNotFound, got: %v", err)
		}
	})

	t.Run("nil references are allowed without lookups", func(t *testing.T) {
		stores := &mockExistsStore{
			ExistsByIDFunc: func(ctx context.Context, id uint) (bool, error) {
				t.Error("ExistsByID should not be called for nil references")
				return false, nil
			},
		}
		uc := NewProductUsecase(&mockProductRepository{}, stores, stores)

		if _, err := uc.Create(ctx, ProductInput{Name: "Laptop", Price: 1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestProductUsecase_Update(t *testing.T) {
	ctx := context.Background()
	existing := func() *entity.Product {
		return &entity.Product{
			ID:         1,
			Name:       "Laptop",
			Price:      999.99,
			Quantity:   3,
			Active:     true,
			CategoryID: uintPtr(2),
			SellerID:   uintPtr(5),
		}
	}

	t.Run("scalars are replaced, omitted references are kept", func(t *testing.T) {
		var saved *entity.Product
		mockRepo := &mockProductRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.Product, error) {
				return existing(), nil
			},
			UpdateFunc: func(ctx context.Context, product *entity.Product) error {
				saved = product
				return nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.Update(ctx, 1, ProductInput{Name: "Laptop Pro", Price: 1299.99, Quantity: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.Name != "Laptop Pro" || saved.Price != 1299.99 {
			t.Errorf("scalar fields were not replaced: %+v", saved)
		}
		if saved.CategoryID == nil || *saved.CategoryID != 2 {
			t.Error("omitted category reference should be preserved")
		}
		if saved.SellerID == nil || *saved.SellerID != 5 {
			t.Error("omitted seller reference should be preserved")
		}
	})

	t.Run("supplied reference is validated and replaced", func(t *testing.T) {
		var saved *entity.Product
		mockRepo := &mockProductRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.Product, error) {
				return existing(), nil
			},
			UpdateFunc: func(ctx context.Context, product *entity.Product) error {
				saved = product
				return nil
			},
		}
		categories := &mockExistsStore{
			ExistsByIDFunc: func(ctx context.Context, id uint) (bool, error) { return id == 7, nil },
		}
		uc := NewProductUsecase(mockRepo, categories, &mockExistsStore{})

		_, err := uc.Update(ctx, 1, ProductInput{Name: "Laptop", Price: 1, CategoryID: uintPtr(7)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.CategoryID == nil || *saved.CategoryID != 7 {
			t.Error("supplied category reference should replace the old one")
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.Update(ctx, 42, ProductInput{Name: "Ghost", Price: 1})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestProductUsecase_ByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown category", func(t *testing.T) {
		categories := &mockExistsStore{
			ExistsByIDFunc: func(ctx context.Context, id uint) (bool, error) { return false, nil },
		}
		uc := NewProductUsecase(&mockProductRepository{}, categories, &mockExistsStore{})

		_, err := uc.ByCategory(ctx, 9, defaultReq())
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("existing category delegates to the repository", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			FindByCategoryPageFunc: func(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				if categoryID != 3 {
					t.Errorf("expected category 3, got %d", categoryID)
				}
				return pagination.NewPage([]entity.Product{{ID: 1, Name: "P"}}, 1, req), nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		page, err := uc.ByCategory(ctx, 3, defaultReq())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.TotalElements != 1 {
			t.Errorf("expected 1 element, got %d", page.TotalElements)
		}
	})
}

func TestProductUsecase_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("blank keyword degenerates to the active listing", func(t *testing.T) {
		var usedActive bool
		mockRepo := &mockProductRepository{
			FindActivePageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				usedActive = true
				return pagination.NewPage([]entity.Product{}, 0, req), nil
			},
			SearchPageFunc: func(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				t.Error("SearchPage should not be called for a blank keyword")
				return pagination.Page[entity.Product]{}, nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		if _, err := uc.Search(ctx, "   ", defaultReq()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !usedActive {
			t.Error("expected fallback to FindActivePage")
		}
	})

	t.Run("keyword is forwarded verbatim", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			SearchPageFunc: func(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				if keyword != "laptop" {
					t.Errorf("expected keyword laptop, got %q", keyword)
				}
				return pagination.NewPage([]entity.Product{}, 0, req), nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		if _, err := uc.Search(ctx, "laptop", defaultReq()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestProductUsecase_ByPriceRange(t *testing.T) {
	ctx := context.Background()

	t.Run("nil bounds default to zero and the unbounded sentinel", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			FindByPriceRangePageFunc: func(ctx context.Context, minPrice, maxPrice float64, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				if minPrice != 0 {
					t.Errorf("expected min 0, got %v", minPrice)
				}
				if maxPrice != UnboundedMaxPrice {
					t.Errorf("expected unbounded max, got %v", maxPrice)
				}
				return pagination.NewPage([]entity.Product{}, 0, req), nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		if _, err := uc.ByPriceRange(ctx, nil, nil, defaultReq()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.ByPriceRange(ctx, floatPtr(50), floatPtr(10), defaultReq())
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got: %v", err)
		}
	})

	t.Run("negative lower bound is rejected", func(t *testing.T) {
		uc := NewProductUsecase(&mockProductRepository{}, &mockExistsStore{}, &mockExistsStore{})

		_, err := uc.ByPriceRange(ctx, floatPtr(-1), nil, defaultReq())
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got: %v", err)
		}
	})
}

func TestProductUsecase_SortPresets(t *testing.T) {
	ctx := context.Background()

	t.Run("price ascending preset overrides the caller sort", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			FindActivePageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				if req.SortBy != "price" || req.SortDir != pagination.Asc {
					t.Errorf("expected price asc, got %s %s", req.SortBy, req.SortDir)
				}
				return pagination.NewPage([]entity.Product{}, 0, req), nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		callerReq := pagination.NewPageRequest(0, 10, "name", pagination.Desc)
		if _, err := uc.SortedByPriceAsc(ctx, callerReq); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("newest preset sorts by creation time descending", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			FindActivePageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				if req.SortBy != "created_at" || req.SortDir != pagination.Desc {
					t.Errorf("expected created_at desc, got %s %s", req.SortBy, req.SortDir)
				}
				return pagination.NewPage([]entity.Product{}, 0, req), nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		if _, err := uc.SortedByNewest(ctx, defaultReq()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("presets keep the caller page window", func(t *testing.T) {
		mockRepo := &mockProductRepository{
			FindActivePageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
				if req.Page != 2 || req.Size != 5 {
					t.Errorf("expected page 2 size 5, got %d %d", req.Page, req.Size)
				}
				return pagination.NewPage([]entity.Product{}, 0, req), nil
			},
		}
		uc := NewProductUsecase(mockRepo, &mockExistsStore{}, &mockExistsStore{})

		callerReq := pagination.NewPageRequest(2, 5, "name", pagination.Asc)
		if _, err := uc.SortedByPriceDesc(ctx, callerReq); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
