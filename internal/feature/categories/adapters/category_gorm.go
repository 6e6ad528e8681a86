// Package adapters はcategoriesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/categories/domain/entity"
	"marketplace_backend/internal/feature/categories/usecase"
	productentity "marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/pagination"
)

// categoryGorm はCategoryRepositoryインターフェースのGORM実装です。
type categoryGorm struct {
	db *gorm.DB
}

// categoryGormがCategoryRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.CategoryRepository = (*categoryGorm)(nil)

// NewCategoryGorm は指定されたgorm.DB接続でcategoryGormの新しいインスタンスを生成します。
func NewCategoryGorm(db *gorm.DB) *categoryGorm {
	return &categoryGorm{db: db}
}

// categorySortColumns はORDER BYに使用を許可するカラムの対応表です。
var categorySortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
	"createdAt":  "created_at",
}

// orderClause はページ指定から安全なORDER BY句を組み立てます。
func orderClause(req pagination.PageRequest) string {
	col, ok := categorySortColumns[req.SortBy]
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

// Create はカテゴリをデータベースに追加します。
// 名前が重複する場合、apperr.ErrDuplicateKeyを返します。
func (r *categoryGorm) Create(ctx context.Context, c *entity.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// Update は既存カテゴリの全フィールドを保存します。
func (r *categoryGorm) Update(ctx context.Context, c *entity.Category) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// Delete はIDでカテゴリを削除します。
// このカテゴリを参照する商品のcategory_id解除と行の削除は
// 単一トランザクションで行われ、途中で失敗した場合は全体がロールバックされます。
// 対象が存在しない場合、apperr.ErrNotFoundを返します。
func (r *categoryGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&productentity.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Category{}, id)
		if res.Error != nil {
			return translateErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}

// FindByID はIDでカテゴリを取得します。
func (r *categoryGorm) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var c entity.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

// FindByName は名前でカテゴリを取得します。
func (r *categoryGorm) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	var c entity.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

// ExistsByName は名前が既に使用されているかを返します。
func (r *categoryGorm) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByID はIDのカテゴリが存在するかを返します。
// 商品フィーチャーのカテゴリ参照検証から利用されます。
func (r *categoryGorm) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPage はページ指定に従ってカテゴリの1ページを返します。
func (r *categoryGorm) FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.Category], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Category{}).Count(&total).Error; err != nil {
		return pagination.Page[entity.Category]{}, err
	}

	var categories []entity.Category
	if err := r.db.WithContext(ctx).
		Order(orderClause(req)).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&categories).Error; err != nil {
		return pagination.Page[entity.Category]{}, err
	}
	return pagination.NewPage(categories, total, req), nil
}

// ListAll はすべてのカテゴリを名前順で返します。
func (r *categoryGorm) ListAll(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
