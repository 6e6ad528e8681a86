// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/users/usecase"
	"marketplace_backend/internal/pagination"
	"marketplace_backend/internal/platform/metrics"
)

// UserUsecase はユーザー管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	List(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.UserView], error)
	GetByID(ctx context.Context, id uint) (usecase.UserView, error)
	GetByUsername(ctx context.Context, username string) (usecase.UserView, error)
	GetByEmail(ctx context.Context, email string) (usecase.UserView, error)
	Create(ctx context.Context, in usecase.UserInput) (usecase.UserView, error)
	Update(ctx context.Context, id uint, in usecase.UserInput) (usecase.UserView, error)
	Delete(ctx context.Context, id uint) error
	ListByRole(ctx context.Context, role string) ([]usecase.UserView, error)
	ListByEnabled(ctx context.Context, enabled bool) ([]usecase.UserView, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// UserHandler はユーザー管理のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// toResponse はプロジェクションをレスポンスDTOへ変換します。
func toResponse(v usecase.UserView) api.UserResponse {
	return api.UserResponse{
		ID:        v.ID,
		Username:  v.Username,
		Email:     v.Email,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Role:      string(v.Role),
		Enabled:   v.Enabled,
		CreatedAt: v.CreatedAt,
	}
}

// toInput はリクエストDTOをユースケース入力へ変換します。
func toInput(req api.UserRequest) usecase.UserInput {
	return usecase.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Enabled:   req.Enabled,
	}
}

// parseID はパスパラメータのIDを解析します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// List はユーザー一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/users?page=0&size=10&sortBy=id&sortDir=asc
func (h *UserHandler) List(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.users.List(c.Request.Context(), req)
	if err != nil {
		slog.Error("user list failed", "error", err)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, pagination.Map(page, toResponse))
}

// GetByID はID指定のユーザー取得APIエンドポイントを処理します。
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

// GetByUsername はユーザー名指定のユーザー取得APIエンドポイントを処理します。
func (h *UserHandler) GetByUsername(c *gin.Context) {
	view, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

// GetByEmail はメールアドレス指定のユーザー取得APIエンドポイントを処理します。
func (h *UserHandler) GetByEmail(c *gin.Context) {
	view, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

// ListByRole はロール指定のユーザー一覧APIエンドポイントを処理します。
func (h *UserHandler) ListByRole(c *gin.Context) {
	views, err := h.users.ListByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]api.UserResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// ListByEnabled は有効フラグ指定のユーザー一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/users/enabled?enabled=true
func (h *UserHandler) ListByEnabled(c *gin.Context) {
	enabled, err := strconv.ParseBool(c.DefaultQuery("enabled", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid enabled flag"})
		return
	}
	views, err := h.users.ListByEnabled(c.Request.Context(), enabled)
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to list users"})
		return
	}
	out := make([]api.UserResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// ExistsByUsername はユーザー名の存在チェックAPIエンドポイントを処理します。
func (h *UserHandler) ExistsByUsername(c *gin.Context) {
	exists, err := h.users.ExistsByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to check username"})
		return
	}
	c.JSON(http.StatusOK, api.ExistsResponse{Exists: exists})
}

// ExistsByEmail はメールアドレスの存在チェックAPIエンドポイントを処理します。
func (h *UserHandler) ExistsByEmail(c *gin.Context) {
	exists, err := h.users.ExistsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to check email"})
		return
	}
	c.JSON(http.StatusOK, api.ExistsResponse{Exists: exists})
}

// Create はユーザー作成APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - ユーザー名・メール重複時は409を返却
// - 成功時は201を返却
func (h *UserHandler) Create(c *gin.Context) {
	var req api.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("user create validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	view, err := h.users.Create(c.Request.Context(), toInput(req))
	if err != nil {
		slog.Warn("user create failed", "error", err, "username", req.Username)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("user", "create").Inc()
	slog.Info("user created", "id", view.ID, "username", view.Username)
	c.JSON(http.StatusCreated, toResponse(view))
}

// Update はユーザー更新APIエンドポイントを処理します。
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("user update validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	view, err := h.users.Update(c.Request.Context(), id, toInput(req))
	if err != nil {
		slog.Warn("user update failed", "error", err, "id", id)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("user", "update").Inc()
	c.JSON(http.StatusOK, toResponse(view))
}

// Delete はユーザー削除APIエンドポイントを処理します。
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "user not found"})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("user", "delete").Inc()
	slog.Info("user deleted", "id", id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "user deleted"})
}

// Login はログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はJWTトークン付きで200を返却
func (h *UserHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// アカウント列挙攻撃を防止するため、詳細なエラーを公開しない
		if errors.Is(err, usecase.ErrInvalidCredentials) || errors.Is(err, usecase.ErrAccountDisabled) {
			slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid username or password"})
			return
		}
		slog.Error("login error", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "login failed"})
		return
	}
	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{Token: token})
}
