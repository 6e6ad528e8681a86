// Package usecase はcategoriesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/categories/domain/entity"
	"marketplace_backend/internal/pagination"
)

// CategoryRepository はカテゴリエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type CategoryRepository interface {
	// Create は新しいカテゴリをストレージに永続化します。
	// 名前が衝突する場合、apperr.ErrDuplicateKeyを返します。
	Create(ctx context.Context, category *entity.Category) error

	// Update は既存カテゴリの全フィールドを保存します。
	Update(ctx context.Context, category *entity.Category) error

	// Delete は指定されたIDのカテゴリを削除します。このカテゴリを参照する
	// 商品のcategory_id解除も同一トランザクションで行われます。
	// 存在しない場合、apperr.ErrNotFoundを返します。
	Delete(ctx context.Context, id uint) error

	// FindByID はIDでカテゴリを取得します。存在しない場合、apperr.ErrNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Category, error)

	// FindByName は名前でカテゴリを取得します。
	FindByName(ctx context.Context, name string) (*entity.Category, error)

	// ExistsByName は名前が既に使用されているかを返します。
	ExistsByName(ctx context.Context, name string) (bool, error)

	// FindPage はページ指定に従ってカテゴリの1ページを返します。
	FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Category], error)

	// ListAll はすべてのカテゴリを名前順で返します。
	ListAll(ctx context.Context) ([]entity.Category, error)
}

// ProductCache はカテゴリ削除後に商品ページキャッシュを破棄するための抽象化です。
// 参照解除はストアのトランザクション内で行われキャッシュ層を経由しないため、
// コミット後にここから明示的に無効化します。
type ProductCache interface {
	// InvalidatePages はキャッシュ済みの商品ページをすべて破棄します（ベストエフォート）。
	InvalidatePages(ctx context.Context)
}

// CategoryView はカテゴリの外部公開用プロジェクションです。
type CategoryView struct {
	ID          uint
	Name        string
	Description string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
}

// CategoryInput は作成・更新時に呼び出し側が指定するカテゴリフィールドです。
// 更新は可変フィールドの全置換です。
type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	Active      *bool
}

// CategoryUsecase はカテゴリ管理のビジネスロジックを提供します。
type CategoryUsecase struct {
	categories CategoryRepository
	cache      ProductCache
}

// NewCategoryUsecase はCategoryUsecaseの新しいインスタンスを生成します。
func NewCategoryUsecase(categories CategoryRepository, cache ProductCache) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, cache: cache}
}

// toView はエンティティをプロジェクションへ明示的に変換します。
func toView(c *entity.Category) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

// List はページ指定に従ってカテゴリの1ページを返します。
func (u *CategoryUsecase) List(ctx context.Context, req pagination.PageRequest) (pagination.Page[CategoryView], error) {
	page, err := u.categories.FindPage(ctx, req)
	if err != nil {
		return pagination.Page[CategoryView]{}, err
	}
	return pagination.Map(page, func(e entity.Category) CategoryView { return toView(&e) }), nil
}

// ListAll はすべてのカテゴリのプロジェクションを名前順で返します。
func (u *CategoryUsecase) ListAll(ctx context.Context) ([]CategoryView, error) {
	categories, err := u.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, toView(&categories[i]))
	}
	return views, nil
}

// GetByID はIDでカテゴリのプロジェクションを取得します。
func (u *CategoryUsecase) GetByID(ctx context.Context, id uint) (CategoryView, error) {
	category, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return CategoryView{}, err
	}
	return toView(category), nil
}

// GetByName は名前でカテゴリのプロジェクションを取得します。
func (u *CategoryUsecase) GetByName(ctx context.Context, name string) (CategoryView, error) {
	category, err := u.categories.FindByName(ctx, name)
	if err != nil {
		return CategoryView{}, err
	}
	return toView(category), nil
}

// Create は新しいカテゴリを登録します。
// 名前の一意性は事前チェックに加え、ストアの一意制約が最終防衛線として保証します。
func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (CategoryView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return CategoryView{}, fmt.Errorf("category name is required: %w", apperr.ErrInvalidInput)
	}

	if taken, err := u.categories.ExistsByName(ctx, in.Name); err != nil {
		return CategoryView{}, err
	} else if taken {
		return CategoryView{}, fmt.Errorf("category name %q: %w", in.Name, apperr.ErrDuplicateKey)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	category := &entity.Category{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Active:      active,
	}
	if err := u.categories.Create(ctx, category); err != nil {
		return CategoryView{}, err
	}
	return toView(category), nil
}

// Update は既存カテゴリの可変フィールドを入力で全置換します。
// 名前は変更された場合のみ再チェックされます（自分自身の名前との誤衝突の回避）。
func (u *CategoryUsecase) Update(ctx context.Context, id uint, in CategoryInput) (CategoryView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return CategoryView{}, fmt.Errorf("category name is required: %w", apperr.ErrInvalidInput)
	}

	existing, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return CategoryView{}, err
	}

	// 変更時のみ一意性を再チェック
	if in.Name != existing.Name {
		if taken, err := u.categories.ExistsByName(ctx, in.Name); err != nil {
			return CategoryView{}, err
		} else if taken {
			return CategoryView{}, fmt.Errorf("category name %q: %w", in.Name, apperr.ErrDuplicateKey)
		}
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.ImageURL = in.ImageURL
	if in.Active != nil {
		existing.Active = *in.Active
	}

	if err := u.categories.Update(ctx, existing); err != nil {
		return CategoryView{}, err
	}
	return toView(existing), nil
}

// Delete は指定されたIDのカテゴリを削除します。
// カテゴリ参照の解除と行の削除はストアが単一トランザクションで行うため、
// ここではコミット後の商品ページキャッシュ無効化のみを行います。
// 削除が失敗した場合、キャッシュには触れません。
func (u *CategoryUsecase) Delete(ctx context.Context, id uint) error {
	if err := u.categories.Delete(ctx, id); err != nil {
		return err
	}
	if u.cache != nil {
		u.cache.InvalidatePages(ctx)
	}
	return nil
}

// ExistsByName は名前が既に使用されているかを返します。
func (u *CategoryUsecase) ExistsByName(ctx context.Context, name string) (bool, error) {
	return u.categories.ExistsByName(ctx, name)
}
