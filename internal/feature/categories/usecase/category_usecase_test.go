package usecase

import (
	"context"
	"errors"
	"testing"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/categories/domain/entity"
	"marketplace_backend/internal/pagination"
)

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	CreateFunc       func(ctx context.Context, category *entity.Category) error
	UpdateFunc       func(ctx context.Context, category *entity.Category) error
	DeleteFunc       func(ctx context.Context, id uint) error
	FindByIDFunc     func(ctx context.Context, id uint) (*entity.Category, error)
	FindByNameFunc   func(ctx context.Context, name string) (*entity.Category, error)
	ExistsByNameFunc func(ctx context.Context, name string) (bool, error)
	FindPageFunc     func(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Category], error)
	ListAllFunc      func(ctx context.Context) ([]entity.Category, error)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, apperr.ErrNotFound
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, apperr.ErrNotFound
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if m.ExistsByNameFunc != nil {
		return m.ExistsByNameFunc(ctx, name)
	}
	return false, nil
}

func (m *mockCategoryRepository) FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Category], error) {
	if m.FindPageFunc != nil {
		return m.FindPageFunc(ctx, req)
	}
	return pagination.NewPage([]entity.Category{}, 0, req), nil
}

func (m *mockCategoryRepository) ListAll(ctx context.Context) ([]entity.Category, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

// mockProductCache is a mock implementation of the ProductCache interface.
type mockProductCache struct {
	InvalidatePagesFunc func(ctx context.Context)
}

func (m *mockProductCache) InvalidatePages(ctx context.Context) {
	if m.InvalidatePagesFunc != nil {
		m.InvalidatePagesFunc(ctx)
	}
}

func TestCategoryUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful create defaults to active", func(t *testing.T) {
		mockRepo := &mockCategoryRepository{
			CreateFunc: func(ctx context.Context, category *entity.Category) error {
				category.ID = 1
				return nil
			},
		}
		uc := NewCategoryUsecase(mockRepo, &mockProductCache{})

		view, err := uc.Create(ctx, CategoryInput{Name: "Electronics"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !view.Active {
			t.Error("expected category to be active by default")
		}
		if view.ID != 1 {
			t.Errorf("expected assigned id 1, got %d", view.ID)
		}
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		uc := NewCategoryUsecase(&mockCategoryRepository{}, &mockProductCache{})

		_, err := uc.Create(ctx, CategoryInput{Name: "   "})
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got: %v", err)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		mockRepo := &mockCategoryRepository{
			ExistsByNameFunc: func(ctx context.Context, name string) (bool, error) {
				return true, nil
			},
		}
		uc := NewCategoryUsecase(mockRepo, &mockProductCache{})

		_, err := uc.Create(ctx, CategoryInput{Name: "Electronics"})
		if !errors.Is(err, apperr.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got: %v", err)
		}
	})
}

func TestCategoryUsecase_Update(t *testing.T) {
	ctx := context.Background()
	existing := func() *entity.Category {
		return &entity.Category{ID: 1, Name: "Electronics", Active: true}
	}

	t.Run("keeping the same name does not collide with itself", func(t *testing.T) {
		mockRepo := &mockCategoryRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.Category, error) {
				return existing(), nil
			},
			ExistsByNameFunc: func(ctx context.Context, name string) (bool, error) {
				t.Error("ExistsByName should not be called when the name is unchanged")
				return true, nil
			},
		}
		uc := NewCategoryUsecase(mockRepo, &mockProductCache{})

		view, err := uc.Update(ctx, 1, CategoryInput{Name: "Electronics", Description: "updated"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Description != "updated" {
			t.Errorf("expected replaced description, got %q", view.Description)
		}
	})

	t.Run("renaming onto a taken name collides", func(t *testing.T) {
		mockRepo := &mockCategoryRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.Category, error) {
				return existing(), nil
			},
			ExistsByNameFunc: func(ctx context.Context, name string) (bool, error) {
				return name == "Books", nil
			},
		}
		uc := NewCategoryUsecase(mockRepo, &mockProductCache{})

		_, err := uc.Update(ctx, 1, CategoryInput{Name: "Books"})
		if !errors.Is(err, apperr.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got: %v", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		uc := NewCategoryUsecase(&mockCategoryRepository{}, &mockProductCache{})

		_, err := uc.Update(ctx, 42, CategoryInput{Name: "Ghost"})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestCategoryUsecase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delete invalidates cached product pages", func(t *testing.T) {
		var deleted, invalidated bool
		mockRepo := &mockCategoryRepository{
			DeleteFunc: func(ctx context.Context, id uint) error {
				deleted = true
				return nil
			},
		}
		cache := &mockProductCache{
			InvalidatePagesFunc: func(ctx context.Context) {
				if !deleted {
					t.Error("cached pages must only be invalidated after the delete commits")
				}
				invalidated = true
			},
		}
		uc := NewCategoryUsecase(mockRepo, cache)

		if err := uc.Delete(ctx, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !invalidated {
			t.Error("cached product pages were not invalidated")
		}
	})

	t.Run("failed delete leaves cached pages intact", func(t *testing.T) {
		mockRepo := &mockCategoryRepository{
			DeleteFunc: func(ctx context.Context, id uint) error {
				return errors.New("connection reset")
			},
		}
		cache := &mockProductCache{
			InvalidatePagesFunc: func(ctx context.Context) {
				t.Error("InvalidatePages should not be called when the delete fails")
			},
		}
		uc := NewCategoryUsecase(mockRepo, cache)

		if err := uc.Delete(ctx, 3); err == nil {
			t.Fatal("expected the store error to propagate")
		}
	})

	t.Run("unknown category leaves the cache untouched", func(t *testing.T) {
		mockRepo := &mockCategoryRepository{
			DeleteFunc: func(ctx context.Context, id uint) error {
				return apperr.ErrNotFound
			},
		}
		cache := &mockProductCache{
			InvalidatePagesFunc: func(ctx context.Context) {
				t.Error("InvalidatePages should not be called for an unknown category")
			},
		}
		uc := NewCategoryUsecase(mockRepo, cache)

		err := uc.Delete(ctx, 42)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}
