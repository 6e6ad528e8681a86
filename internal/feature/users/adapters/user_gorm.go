// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"marketplace_backend/internal/apperr"
	productentity "marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/feature/users/domain/entity"
	"marketplace_backend/internal/feature/users/usecase"
	"marketplace_backend/internal/pagination"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// userSortColumns はORDER BYに使用を許可するカラムの対応表です。
// 呼び出し側の入力を生のままSQLに渡さないためのホワイトリストです。
var userSortColumns = map[string]string{
	"id":         "id",
	"username":   "username",
	"email":      "email",
	"role":       "role",
	"created_at": "created_at",
	"createdAt":  "created_at",
}

// orderClause はページ指定から安全なORDER BY句を組み立てます。
// 未知のソートフィールドはidにフォールバックします。
func orderClause(req pagination.PageRequest) string {
	col, ok := userSortColumns[req.SortBy]
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
// 一意制約違反はストアが権威的に検出します。
func translateErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrDuplicateKey
	}
	return err
}

// Create はユーザーをデータベースに追加します。
// ユーザー名またはメールアドレスが重複する場合、apperr.ErrDuplicateKeyを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// Update は既存ユーザーの全フィールドを保存します。
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// Delete はIDでユーザーを削除します。
// このユーザーを出品者として参照する商品のseller_id解除と行の削除は
// 単一トランザクションで行われ、途中で失敗した場合は全体がロールバックされます。
// 対象が存在しない場合、apperr.ErrNotFoundを返します。
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&productentity.Product{}).
			Where("seller_id = ?", id).
			Update("seller_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.User{}, id)
		if res.Error != nil {
			return translateErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

// FindByUsername はユーザー名でユーザーを取得します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

// ExistsByUsername はユーザー名が既に使用されているかを返します。
func (r *userGorm) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail はメールアドレスが既に使用されているかを返します。
func (r *userGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByID はIDのユーザーが存在するかを返します。
// 商品フィーチャーの出品者参照検証から利用されます。
func (r *userGorm) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPage はページ指定に従ってユーザーの1ページを返します。
// 総件数とページ内容は同一クエリ条件で取得されます。
func (r *userGorm) FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.User], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&total).Error; err != nil {
		return pagination.Page[entity.User]{}, err
	}

	var users []entity.User
	if err := r.db.WithContext(ctx).
		Order(orderClause(req)).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&users).Error; err != nil {
		return pagination.Page[entity.User]{}, err
	}
	return pagination.NewPage(users, total, req), nil
}

// ListByRole は指定されたロールのユーザーをすべて返します。
func (r *userGorm) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByEnabled は有効フラグが一致するユーザーをすべて返します。
func (r *userGorm) ListByEnabled(ctx context.Context, enabled bool) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", enabled).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
