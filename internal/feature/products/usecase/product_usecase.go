// Package usecase はproductsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/pagination"
)

// UnboundedMaxPrice は価格範囲検索で上限が省略された場合の番兵値です。
const UnboundedMaxPrice = float64(math.MaxInt32)

// ProductRepository は商品エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ProductRepository interface {
	// Create は新しい商品をストレージに永続化します。
	Create(ctx context.Context, product *entity.Product) error

	// Update は既存商品の全フィールドを保存します。
	Update(ctx context.Context, product *entity.Product) error

	// Delete は指定されたIDの商品を削除します。
	// 存在しない場合、apperr.ErrNotFoundを返します。
	Delete(ctx context.Context, id uint) error

	// FindByID はIDで商品を取得します。存在しない場合、apperr.ErrNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Product, error)

	// FindPage は非アクティブを含むすべての商品の1ページを返します。
	FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error)

	// FindActivePage はアクティブな商品のみの1ページを返します。
	FindActivePage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error)

	// FindByCategoryPage は指定カテゴリのアクティブな商品の1ページを返します。
	FindByCategoryPage(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error)

	// FindBySellerPage は指定出品者のアクティブな商品の1ページを返します。
	FindBySellerPage(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error)

	// SearchPage は名前または説明にキーワードを含むアクティブな商品の1ページを返します。
	SearchPage(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error)

	// FindByPriceRangePage は価格帯内のアクティブな商品の1ページを返します。
	FindByPriceRangePage(ctx context.Context, minPrice, maxPrice float64, req pagination.PageRequest) (pagination.Page[entity.Product], error)
}

// CategoryStore は商品が参照するカテゴリの存在確認を抽象化します。
type CategoryStore interface {
	// ExistsByID は指定されたIDのカテゴリが存在するかを返します。
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// SellerStore は商品が参照する出品者の存在確認を抽象化します。
type SellerStore interface {
	// ExistsByID は指定されたIDのユーザーが存在するかを返します。
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// ProductView は商品の外部公開用プロジェクションです。
// カテゴリ・出品者の参照はネストしたオブジェクトではなくスカラーIDとして
// 平坦化されます。
type ProductView struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Quantity    int
	ImageURL    string
	Active      bool
	CategoryID  *uint
	SellerID    *uint
	CreatedAt   time.Time
}

// ProductInput は作成・更新時に呼び出し側が指定する商品フィールドです。
// スカラーフィールドの更新は全置換です。CategoryID・SellerIDは指定された
// 場合のみ設定され、指定時は参照先が存在しなければなりません。
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	ImageURL    string
	Active      *bool
	CategoryID  *uint
	SellerID    *uint
}

// ProductUsecase は商品管理のビジネスロジックを提供します。
type ProductUsecase struct {
	products   ProductRepository
	categories CategoryStore
	sellers    SellerStore
}

// NewProductUsecase はProductUsecaseの新しいインスタンスを生成します。
func NewProductUsecase(products ProductRepository, categories CategoryStore, sellers SellerStore) *ProductUsecase {
	return &ProductUsecase{products: products, categories: categories, sellers: sellers}
}

// toView はエンティティをプロジェクションへ明示的に変換します。
func toView(p *entity.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
	}
}

// mapPage はエンティティのページをプロジェクションのページへ変換します。
func mapPage(page pagination.Page[entity.Product], err error) (pagination.Page[ProductView], error) {
	if err != nil {
		return pagination.Page[ProductView]{}, err
	}
	return pagination.Map(page, func(e entity.Product) ProductView { return toView(&e) }), nil
}

// validateInput は作成・更新共通の入力チェックを行います。
// 不正な値はストアに到達する前に拒否されます。
func validateInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name is required: %w", apperr.ErrInvalidInput)
	}
	if in.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", apperr.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative: %w", apperr.ErrInvalidInput)
	}
	return nil
}

// checkReferences は指定された参照先（カテゴリ・出品者）の存在を検証します。
func (u *ProductUsecase) checkReferences(ctx context.Context, categoryID, sellerID *uint) error {
	if categoryID != nil {
		ok, err := u.categories.ExistsByID(ctx, *categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("category %d: %w", *categoryID, apperr.ErrReferenceNotFound)
		}
	}
	if sellerID != nil {
		ok, err := u.sellers.ExistsByID(ctx, *sellerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("seller %d: %w", *sellerID, apperr.ErrReferenceNotFound)
		}
	}
	return nil
}

// List は非アクティブを含むすべての商品の1ページを返します。
func (u *ProductUsecase) List(ctx context.Context, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	return mapPage(u.products.FindPage(ctx, req))
}

// ListActive はアクティブな商品のみの1ページを返します。
func (u *ProductUsecase) ListActive(ctx context.Context, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	return mapPage(u.products.FindActivePage(ctx, req))
}

// GetByID はIDで商品のプロジェクションを取得します。
func (u *ProductUsecase) GetByID(ctx context.Context, id uint) (ProductView, error) {
	product, err := u.products.FindByID(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	return toView(product), nil
}

// Create は参照検証の後に新しい商品を登録します。
func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (ProductView, error) {
	if err := validateInput(in); err != nil {
		return ProductView{}, err
	}
	if err := u.checkReferences(ctx, in.CategoryID, in.SellerID); err != nil {
		return ProductView{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
		Active:      active,
		CategoryID:  in.CategoryID,
		SellerID:    in.SellerID,
	}
	if err := u.products.Create(ctx, product); err != nil {
		return ProductView{}, err
	}
	return toView(product), nil
}

// Update は既存商品のスカラーフィールドを入力で全置換します。
// CategoryID・SellerIDは指定された場合のみ差し替えられ、指定時は参照先の
// 存在が検証されます。
func (u *ProductUsecase) Update(ctx context.Context, id uint, in ProductInput) (ProductView, error) {
	if err := validateInput(in); err != nil {
		return ProductView{}, err
	}

	existing, err := u.products.FindByID(ctx, id)
	if err != nil {
		return ProductView{}, err
	}

	if err := u.checkReferences(ctx, in.CategoryID, in.SellerID); err != nil {
		return ProductView{}, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Quantity = in.Quantity
	existing.ImageURL = in.ImageURL
	if in.Active != nil {
		existing.Active = *in.Active
	}
	if in.CategoryID != nil {
		existing.CategoryID = in.CategoryID
	}
	if in.SellerID != nil {
		existing.SellerID = in.SellerID
	}

	if err := u.products.Update(ctx, existing); err != nil {
		return ProductView{}, err
	}
	return toView(existing), nil
}

// Delete は指定されたIDの商品を削除します。
// 存在しない場合、apperr.ErrNotFoundを返します。
func (u *ProductUsecase) Delete(ctx context.Context, id uint) error {
	return u.products.Delete(ctx, id)
}

// ByCategory は指定カテゴリのアクティブな商品の1ページを返します。
// カテゴリが存在しない場合、apperr.ErrNotFoundを返します。
func (u *ProductUsecase) ByCategory(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	ok, err := u.categories.ExistsByID(ctx, categoryID)
	if err != nil {
		return pagination.Page[ProductView]{}, err
	}
	if !ok {
		return pagination.Page[ProductView]{}, fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
	}
	return mapPage(u.products.FindByCategoryPage(ctx, categoryID, req))
}

// BySeller は指定出品者のアクティブな商品の1ページを返します。
// 出品者が存在しない場合、apperr.ErrNotFoundを返します。
func (u *ProductUsecase) BySeller(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	ok, err := u.sellers.ExistsByID(ctx, sellerID)
	if err != nil {
		return pagination.Page[ProductView]{}, err
	}
	if !ok {
		return pagination.Page[ProductView]{}, fmt.Errorf("seller %d: %w", sellerID, apperr.ErrNotFound)
	}
	return mapPage(u.products.FindBySellerPage(ctx, sellerID, req))
}

// Search は名前または説明にキーワードを含むアクティブな商品の1ページを返します。
// 空白のみのキーワードはListActiveと同じ結果になります。
func (u *ProductUsecase) Search(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	if strings.TrimSpace(keyword) == "" {
		return u.ListActive(ctx, req)
	}
	return mapPage(u.products.SearchPage(ctx, keyword, req))
}

// ByPriceRange は価格帯内のアクティブな商品の1ページを返します。
// nilの下限は0、nilの上限は番兵値（実質無制限）として扱われます。
func (u *ProductUsecase) ByPriceRange(ctx context.Context, minPrice, maxPrice *float64, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	lower := 0.0
	if minPrice != nil {
		lower = *minPrice
	}
	upper := UnboundedMaxPrice
	if maxPrice != nil {
		upper = *maxPrice
	}
	if lower < 0 || upper < lower {
		return pagination.Page[ProductView]{}, fmt.Errorf("invalid price range [%v, %v]: %w", lower, upper, apperr.ErrInvalidInput)
	}
	return mapPage(u.products.FindByPriceRangePage(ctx, lower, upper, req))
}

// SortedByPriceAsc は価格昇順の固定ソートでアクティブな商品の1ページを返します。
// 呼び出し側のソート指定は上書きされ、順序は常に予測可能です。
func (u *ProductUsecase) SortedByPriceAsc(ctx context.Context, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	fixed := pagination.NewPageRequest(req.Page, req.Size, "price", pagination.Asc)
	return mapPage(u.products.FindActivePage(ctx, fixed))
}

// SortedByPriceDesc は価格降順の固定ソートでアクティブな商品の1ページを返します。
func (u *ProductUsecase) SortedByPriceDesc(ctx context.Context, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	fixed := pagination.NewPageRequest(req.Page, req.Size, "price", pagination.Desc)
	return mapPage(u.products.FindActivePage(ctx, fixed))
}

// SortedByNewest は作成日時降順の固定ソートでアクティブな商品の1ページを返します。
func (u *ProductUsecase) SortedByNewest(ctx context.Context, req pagination.PageRequest) (pagination.Page[ProductView], error) {
	fixed := pagination.NewPageRequest(req.Page, req.Size, "created_at", pagination.Desc)
	return mapPage(u.products.FindActivePage(ctx, fixed))
}
