// Package handler はproductsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/products/usecase"
	"marketplace_backend/internal/pagination"
	"marketplace_backend/internal/platform/metrics"
)

// ProductUsecase は商品管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ProductUsecase interface {
	List(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	ListActive(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	GetByID(ctx context.Context, id uint) (usecase.ProductView, error)
	Create(ctx context.Context, in usecase.ProductInput) (usecase.ProductView, error)
	Update(ctx context.Context, id uint, in usecase.ProductInput) (usecase.ProductView, error)
	Delete(ctx context.Context, id uint) error
	ByCategory(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	BySeller(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	Search(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	ByPriceRange(ctx context.Context, minPrice, maxPrice *float64, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	SortedByPriceAsc(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	SortedByPriceDesc(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
	SortedByNewest(ctx context.Context, req pagination.PageRequest) (pagination.Page[usecase.ProductView], error)
}

// ProductHandler は商品管理のHTTPリクエストを処理します。
type ProductHandler struct {
	products ProductUsecase
}

// NewProductHandler はProductHandlerの新しいインスタンスを生成します。
func NewProductHandler(products ProductUsecase) *ProductHandler {
	return &ProductHandler{products: products}
}

// toResponse はプロジェクションをレスポンスDTOへ変換します。
func toResponse(v usecase.ProductView) api.ProductResponse {
	return api.ProductResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Price:       v.Price,
		Quantity:    v.Quantity,
		ImageURL:    v.ImageURL,
		Active:      v.Active,
		CategoryID:  v.CategoryID,
		SellerID:    v.SellerID,
		CreatedAt:   v.CreatedAt,
	}
}

// toInput はリクエストDTOをユースケース入力へ変換します。
func toInput(req api.ProductRequest) usecase.ProductInput {
	return usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
		CategoryID:  req.CategoryID,
		SellerID:    req.SellerID,
	}
}

// parseID は任意のパスパラメータをuintとして解析します。
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondPage はページ取得系エンドポイント共通のレスポンス処理です。
func respondPage(c *gin.Context, page pagination.Page[usecase.ProductView], err error) {
	if err != nil {
		slog.Error("product query failed", "error", err, "path", c.FullPath())
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, pagination.Map(page, toResponse))
}

// ListActive はアクティブな商品一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/products?page=0&size=10&sortBy=price&sortDir=desc
func (h *ProductHandler) ListActive(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.products.ListActive(c.Request.Context(), req)
	respondPage(c, page, err)
}

// List は非アクティブを含む全商品一覧APIエンドポイントを処理します。
func (h *ProductHandler) List(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.products.List(c.Request.Context(), req)
	respondPage(c, page, err)
}

// GetByID はID指定の商品取得APIエンドポイントを処理します。
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "product not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

// ByCategory はカテゴリ指定の商品一覧APIエンドポイントを処理します。
func (h *ProductHandler) ByCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}
	req := api.PageRequestFromQuery(c)
	page, err := h.products.ByCategory(c.Request.Context(), categoryID, req)
	respondPage(c, page, err)
}

// BySeller は出品者指定の商品一覧APIエンドポイントを処理します。
func (h *ProductHandler) BySeller(c *gin.Context) {
	sellerID, ok := parseID(c, "sellerId")
	if !ok {
		return
	}
	req := api.PageRequestFromQuery(c)
	page, err := h.products.BySeller(c.Request.Context(), sellerID, req)
	respondPage(c, page, err)
}

// Search はキーワード検索APIエンドポイントを処理します。
// キーワードが空の場合はアクティブな商品一覧と同じ結果になります。
//
// エンドポイント例:
// GET /api/products/search?keyword=laptop&page=0&size=10
func (h *ProductHandler) Search(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.products.Search(c.Request.Context(), c.Query("keyword"), req)
	respondPage(c, page, err)
}

// ByPriceRange は価格帯指定の商品一覧APIエンドポイントを処理します。
// min・maxはともに省略可能で、省略時は0と実質無制限になります。
//
// エンドポイント例:
// GET /api/products/price-range?min=10&max=50
func (h *ProductHandler) ByPriceRange(c *gin.Context) {
	var minPrice, maxPrice *float64
	if raw := c.Query("min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid min price"})
			return
		}
		minPrice = &v
	}
	if raw := c.Query("max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid max price"})
			return
		}
		maxPrice = &v
	}
	req := api.PageRequestFromQuery(c)
	page, err := h.products.ByPriceRange(c.Request.Context(), minPrice, maxPrice, req)
	respondPage(c, page, err)
}

// SortedByPriceAsc は価格昇順の固定ソート一覧APIエンドポイントを処理します。
func (h *ProductHandler) SortedByPriceAsc(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.products.SortedByPriceAsc(c.Request.Context(), req)
	respondPage(c, page, err)
}

// SortedByPriceDesc は価格降順の固定ソート一覧APIエンドポイントを処理します。
func (h *ProductHandler) SortedByPriceDesc(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.products.SortedByPriceDesc(c.Request.Context(), req)
	respondPage(c, page, err)
}

// SortedByNewest は新着順の固定ソート一覧APIエンドポイントを処理します。
func (h *ProductHandler) SortedByNewest(c *gin.Context) {
	req := api.PageRequestFromQuery(c)
	page, err := h.products.SortedByNewest(c.Request.Context(), req)
	respondPage(c, page, err)
}

// Create は商品作成APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 参照先（カテゴリ・出品者）が存在しない場合は400を返却
// - 成功時は201を返却
func (h *ProductHandler) Create(c *gin.Context) {
	var req api.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("product create validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	view, err := h.products.Create(c.Request.Context(), toInput(req))
	if err != nil {
		slog.Warn("product create failed", "error", err, "name", req.Name)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("product", "create").Inc()
	slog.Info("product created", "id", view.ID, "name", view.Name)
	c.JSON(http.StatusCreated, toResponse(view))
}

// Update は商品更新APIエンドポイントを処理します。
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req api.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("product update validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	view, err := h.products.Update(c.Request.Context(), id, toInput(req))
	if err != nil {
		slog.Warn("product update failed", "error", err, "id", id)
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("product", "update").Inc()
	c.JSON(http.StatusOK, toResponse(view))
}

// Delete は商品削除APIエンドポイントを処理します。
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		c.JSON(api.ErrorStatus(err), api.ErrorResponse{Error: "product not found"})
		return
	}
	metrics.CatalogMutationsTotal.WithLabelValues("product", "delete").Inc()
	slog.Info("product deleted", "id", id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "product deleted"})
}
