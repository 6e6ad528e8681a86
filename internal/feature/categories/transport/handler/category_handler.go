// Package handler はcategoriesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/categories/usecase"
	"marketplace_backend/internal/pagination"
	"marketplace_backend/internal/platform/metrics"
)

// CategoryUsecase はカテゴリ管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CategoryUsecase interface {
	List(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.CategoryView], error)
	ListAll(ctx context.Context) ([]usecase.CategoryView, error)
	GetByID(ctx context.Context, id uint) (usecase.CategoryView, error)
	GetByName(ctx context.Context, name string) (usecase.CategoryView, error)
	Create(ctx context.Context, in usecase.CategoryInput) (usecase.CategoryView, error)
	Update(ctx context.Context, id uint, in usecase.CategoryInput) (usecase.CategoryView, error)
	Delete(ctx context.Context, id uint) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// CategoryHandler はカテゴリ管理のHTTPリクエストを処理します。
type CategoryHandler struct {
	categories CategoryUsecase
}

// NewCategoryHandler はCategoryHandlerの新しいインスタンスを生成します。
func NewCategoryHandler(categories CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// toResponse はプロジェクションをレスポンスDTOへ変換します。
func toResponse(v usecase.CategoryView) api.CategoryResponse {
	return api.CategoryResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		ImageURL:    v.ImageURL,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
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

// List はカテゴリ一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/categories?page=0&size=10&sortBy=name&sortDir=asc
func (h *CategoryHandler) List(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.categories.List(c.Request.Context(), req)
	if err != nil {
		slog.Error("category list failed", "error", err)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, pagination.Map(page, toResponse))
}

// ListAll はページングなしの全カテゴリ一覧APIエンドポイントを処理します。
func (h *CategoryHandler) ListAll(c *gin.Context) {
	views, err := h.categories.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("category list all failed", "error", err)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to list categories"})
		return
	}
	out := make([]api.CategoryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// GetByID はID指定のカテゴリ取得APIエンドポイントを処理します。
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "category not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

// GetByName は名前指定のカテゴリ取得APIエンドポイントを処理します。
func (h *CategoryHandler) GetByName(c *gin.Context) {
	view, err := h.categories.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "category not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

// ExistsByName はカテゴリ名の存在チェックAPIエンドポイントを処理します。
func (h *CategoryHandler) ExistsByName(c *gin.Context) {
	exists, err := h.categories.ExistsByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "failed to check category name"})
		return
	}
	c.JSON(http.StatusOK, api.ExistsResponse{Exists: exists})
}

// Create はカテゴリ作成APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 名前重複時は409を返却
// - 成功時は201を返却
func (h *CategoryHandler) Create(c *gin.Context) {
	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("category create validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	view, err := h.categories.Create(c.Request.Context(), usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		slog.Warn("category create failed", "error", err, "name", req.Name)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("category", "create").Inc()
	slog.Info("category created", "id", view.ID, "name", view.Name)
	c.JSON(http.StatusCreated, toResponse(view))
}

// Update はカテゴリ更新APIエンドポイントを処理します。
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("category update validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	view, err := h.categories.Update(c.Request.Context(), id, usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		slog.Warn("category update failed", "error", err, "id", id)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("category", "update").Inc()
	c.JSON(http.StatusOK, toResponse(view))
}

// Delete はカテゴリ削除APIエンドポイントを処理します。
// 削除されたカテゴリを参照していた商品は未分類になります。
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "category not found"})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("category", "delete").Inc()
	slog.Info("category deleted", "id", id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "category deleted"})
}
