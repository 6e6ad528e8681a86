// Package adapters はproductsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/feature/products/usecase"
	"marketplace_backend/internal/pagination"
)

// productGorm はProductRepositoryインターフェースのGORM実装です。
type productGorm struct {
	db *gorm.DB
}

// productGormがProductRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProductRepository = (*productGorm)(nil)

// NewProductGorm は指定されたgorm.DB接続でproductGormの新しいインスタンスを生成します。
func NewProductGorm(db *gorm.DB) *productGorm {
	return &productGorm{db: db}
}

// productSortColumns はORDER BYに使用を許可するカラムの対応表です。
var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"quantity":   "quantity",
	"created_at": "created_at",
	"createdAt":  "created_at",
}

// orderClause はページ指定から安全なORDER BY句を組み立てます。
func orderClause(req pagination.PageRequest) string {
	col, ok := productSortColumns[req.SortBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if req.SortDir == pagination.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}

// translateErr はGORMのエラーを共通のエラー種別へ変換します。
func translateErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrDuplicateKey
	}
	return err
}

// findPage は任意のWHERE条件で商品の1ページを取得する共通処理です。
// 総件数とページ内容は同一条件で取得されます。
func (r *productGorm) findPage(ctx context.Context, req pagination.PageRequest, scope func(*gorm.DB) *gorm.DB) (pagination.Page[entity.Product], error) {
	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&entity.Product{})).Count(&total).Error; err != nil {
		return pagination.Page[entity.Product]{}, err
	}

	var products []entity.Product
	if err := scope(r.db.WithContext(ctx)).
		Order(orderClause(req)).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&products).Error; err != nil {
		return pagination.Page[entity.Product]{}, err
	}
	return pagination.NewPage(products, total, req), nil
}

// Create は商品をデータベースに追加します。
func (r *productGorm) Create(ctx context.Context, p *entity.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// Update は既存商品の全フィールドを保存します。
func (r *productGorm) Update(ctx context.Context, p *entity.Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// Delete はIDで商品を削除します。
// 対象が存在しない場合、apperr.ErrNotFoundを返します。
func (r *productGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Product{}, id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// FindByID はIDで商品を取得します。
func (r *productGorm) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

// FindPage は非アクティブを含むすべての商品の1ページを返します。
func (r *productGorm) FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB { return db })
}

// FindActivePage はアクティブな商品のみの1ページを返します。
func (r *productGorm) FindActivePage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("active = ?", true)
	})
}

// FindByCategoryPage は指定カテゴリのアクティブな商品の1ページを返します。
func (r *productGorm) FindByCategoryPage(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ? AND active = ?", categoryID, true)
	})
}

// FindBySellerPage は指定出品者のアクティブな商品の1ページを返します。
func (r *productGorm) FindBySellerPage(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("seller_id = ? AND active = ?", sellerID, true)
	})
}

// SearchPage は名前または説明にキーワードを含むアクティブな商品の1ページを返します。
func (r *productGorm) SearchPage(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	pattern := "%" + keyword + "%"
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("active = ? AND (name LIKE ? OR description LIKE ?)", true, pattern, pattern)
	})
}

// FindByPriceRangePage は価格帯内のアクティブな商品の1ページを返します。
func (r *productGorm) FindByPriceRangePage(ctx context.Context, minPrice, maxPrice float64, req pagination.PageRequest) (pagination.Page[entity.Product], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("active = ? AND price BETWEEN ? AND ?", true, minPrice, maxPrice)
	})
}
