// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/feature/users/domain/entity"
	"marketplace_backend/internal/pagination"
)

// ErrInvalidCredentials はログイン時のユーザー名またはパスワード不一致を表します。
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAccountDisabled は無効化されたアカウントでのログイン試行を表します。
var ErrAccountDisabled = errors.New("account is disabled")

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// ユーザー名またはメールアドレスが衝突する場合、apperr.ErrDuplicateKeyを返します。
	Create(ctx context.Context, user *entity.User) error

	// Update は既存ユーザーの全フィールドを保存します。
	Update(ctx context.Context, user *entity.User) error

	// Delete は指定されたIDのユーザーを削除します。このユーザーを出品者として
	// 参照する商品のseller_id解除も同一トランザクションで行われます。
	// 存在しない場合、apperr.ErrNotFoundを返します。
	Delete(ctx context.Context, id uint) error

	// FindByID はIDでユーザーを取得します。存在しない場合、apperr.ErrNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByUsername はユーザー名でユーザーを取得します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail はメールアドレスでユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByUsername はユーザー名が既に使用されているかを返します。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail はメールアドレスが既に使用されているかを返します。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindPage はページ指定に従ってユーザーの1ページを返します。
	FindPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[entity.User], error)

	// ListByRole は指定されたロールのユーザーをすべて返します。
	ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error)

	// ListByEnabled は有効フラグが一致するユーザーをすべて返します。
	ListByEnabled(ctx context.Context, enabled bool) ([]entity.User, error)
}

// TokenGenerator はログイン成功時のJWTトークン生成を抽象化します。
type TokenGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, username string) (string, error)
}

// ProductCache はユーザー削除後に商品ページキャッシュを破棄するための抽象化です。
// 参照解除はストアのトランザクション内で行われキャッシュ層を経由しないため、
// コミット後にここから明示的に無効化します。
type ProductCache interface {
	// InvalidatePages はキャッシュ済みの商品ページをすべて破棄します（ベストエフォート）。
	InvalidatePages(ctx context.Context)
}

// UserView はユーザーの外部公開用プロジェクションです。
// パスワードハッシュは決して含まれません。
type UserView struct {
	ID        uint
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      entity.Role
	Enabled   bool
	CreatedAt time.Time
}

// UserInput は作成・更新時に呼び出し側が指定するユーザーフィールドです。
// 更新は可変フィールドの全置換であり、部分パッチではありません。
// ただしPasswordが空の場合のみ、既存のハッシュが維持されます。
type UserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Enabled   *bool
}

// UserUsecase はユーザー管理のビジネスロジックを提供します。
type UserUsecase struct {
	users  UserRepository
	tokens TokenGenerator
	cache  ProductCache
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, tokens TokenGenerator, cache ProductCache) *UserUsecase {
	return &UserUsecase{users: users, tokens: tokens, cache: cache}
}

// toView はエンティティをプロジェクションへ明示的に変換します。
// パスワードハッシュを除外する唯一の箇所です。
func toView(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

// resolveRole は入力文字列をロールに解決します。空文字はCUSTOMERになります。
func resolveRole(raw string) (entity.Role, error) {
	if raw == "" {
		return entity.RoleCustomer, nil
	}
	role := entity.Role(strings.ToUpper(raw))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q: %w", raw, apperr.ErrInvalidInput)
	}
	return role, nil
}

// validateInput は作成・更新共通の入力チェックを行います。
func validateInput(in UserInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("username is required: %w", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("email is required: %w", apperr.ErrInvalidInput)
	}
	return nil
}

// List はページ指定に従ってユーザーの1ページを返します。
func (u *UserUsecase) List(ctx context.Context, req pagination.PageRequest) (pagination.Page[UserView], error) {
	page, err := u.users.FindPage(ctx, req)
	if err != nil {
		return pagination.Page[UserView]{}, err
	}
	return pagination.Map(page, func(e entity.User) UserView { return toView(&e) }), nil
}

// GetByID はIDでユーザーのプロジェクションを取得します。
func (u *UserUsecase) GetByID(ctx context.Context, id uint) (UserView, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	return toView(user), nil
}

// GetByUsername はユーザー名でユーザーのプロジェクションを取得します。
func (u *UserUsecase) GetByUsername(ctx context.Context, username string) (UserView, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return UserView{}, err
	}
	return toView(user), nil
}

// GetByEmail はメールアドレスでユーザーのプロジェクションを取得します。
func (u *UserUsecase) GetByEmail(ctx context.Context, email string) (UserView, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return UserView{}, err
	}
	return toView(user), nil
}

// Create はパスワードをハッシュ化して新規ユーザーを登録します。
// ユーザー名・メールアドレスの一意性は事前チェックに加え、ストアの
// 一意制約が最終防衛線として保証します。
func (u *UserUsecase) Create(ctx context.Context, in UserInput) (UserView, error) {
	if err := validateInput(in); err != nil {
		return UserView{}, err
	}
	if in.Password == "" {
		return UserView{}, fmt.Errorf("password is required: %w", apperr.ErrInvalidInput)
	}
	role, err := resolveRole(in.Role)
	if err != nil {
		return UserView{}, err
	}

	// 一意性の事前チェック（最適化。権威はストアの一意制約）
	if taken, err := u.users.ExistsByUsername(ctx, in.Username); err != nil {
		return UserView{}, err
	} else if taken {
		return UserView{}, fmt.Errorf("username %q: %w", in.Username, apperr.ErrDuplicateKey)
	}
	if taken, err := u.users.ExistsByEmail(ctx, in.Email); err != nil {
		return UserView{}, err
	} else if taken {
		return UserView{}, fmt.Errorf("email %q: %w", in.Email, apperr.ErrDuplicateKey)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserView{}, fmt.Errorf("failed to hash password: %w", err)
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	user := &entity.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		Enabled:   enabled,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return UserView{}, err
	}
	return toView(user), nil
}

// Update は既存ユーザーの可変フィールドを入力で全置換します。
// ユーザー名・メールアドレスは変更された場合のみ再チェックされます（自己衝突の回避）。
// パスワードは空でない場合のみ再ハッシュされ、空の場合は既存ハッシュを維持します。
func (u *UserUsecase) Update(ctx context.Context, id uint, in UserInput) (UserView, error) {
	if err := validateInput(in); err != nil {
		return UserView{}, err
	}
	role, err := resolveRole(in.Role)
	if err != nil {
		return UserView{}, err
	}

	existing, err := u.users.FindByID(ctx, id)
	if err != nil {
		return UserView{}, err
	}

	// 変更時のみ一意性を再チェック
	if in.Username != existing.Username {
		if taken, err := u.users.ExistsByUsername(ctx, in.Username); err != nil {
			return UserView{}, err
		} else if taken {
			return UserView{}, fmt.Errorf("username %q: %w", in.Username, apperr.ErrDuplicateKey)
		}
	}
	if in.Email != existing.Email {
		if taken, err := u.users.ExistsByEmail(ctx, in.Email); err != nil {
			return UserView{}, err
		} else if taken {
			return UserView{}, fmt.Errorf("email %q: %w", in.Email, apperr.ErrDuplicateKey)
		}
	}

	existing.Username = in.Username
	existing.Email = in.Email
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Role = role
	if in.Enabled != nil {
		existing.Enabled = *in.Enabled
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserView{}, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.Password = string(hashed)
	}

	if err := u.users.Update(ctx, existing); err != nil {
		return UserView{}, err
	}
	return toView(existing), nil
}

// Delete は指定されたIDのユーザーを削除します。
// 出品者参照の解除と行の削除はストアが単一トランザクションで行うため、
// ここではコミット後の商品ページキャッシュ無効化のみを行います。
// 削除が失敗した場合、キャッシュには触れません。
func (u *UserUsecase) Delete(ctx context.Context, id uint) error {
	if err := u.users.Delete(ctx, id); err != nil {
		return err
	}
	if u.cache != nil {
		u.cache.InvalidatePages(ctx)
	}
	return nil
}

// ListByRole は指定されたロールのユーザーのプロジェクションを返します。
func (u *UserUsecase) ListByRole(ctx context.Context, rawRole string) ([]UserView, error) {
	role := entity.Role(strings.ToUpper(rawRole))
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q: %w", rawRole, apperr.ErrInvalidInput)
	}
	users, err := u.users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, toView(&users[i]))
	}
	return views, nil
}

// ListByEnabled は有効フラグが一致するユーザーのプロジェクションを返します。
func (u *UserUsecase) ListByEnabled(ctx context.Context, enabled bool) ([]UserView, error) {
	users, err := u.users.ListByEnabled(ctx, enabled)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, toView(&users[i]))
	}
	return views, nil
}

// ExistsByUsername はユーザー名が既に使用されているかを返します。
func (u *UserUsecase) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return u.users.ExistsByUsername(ctx, username)
}

// ExistsByEmail はメールアドレスが既に使用されているかを返します。
func (u *UserUsecase) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return u.users.ExistsByEmail(ctx, email)
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// 無効化されたアカウントは正しいパスワードでもログインできません。
func (u *UserUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}
	if !user.Enabled {
		return "", ErrAccountDisabled
	}

	token, tokenErr := u.tokens.GenerateToken(user.ID, user.Username)
	if tokenErr != nil {
		return "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}
	return token, nil
}
