// Package api defines the request and response types shared by the REST handlers.
// All mappings between these types and the usecase projections are explicit,
// hand-written code.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/apperr"
	"marketplace_backend/internal/pagination"
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON body returned for acknowledgement-only successes.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the JSON body returned on successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// ExistsResponse is the JSON body of uniqueness probe endpoints.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// ErrorStatus はビジネスエラーをHTTPステータスコードへ変換します。
// RESTとGraphQLの両トランスポートが同じ対応表を共有します。
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrReferenceNotFound), errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PageRequestFromQuery は共通のページングクエリパラメータ
// (page, size, sortBy, sortDir) からPageRequestを組み立てます。
// 欠落・不正な値はすべてデフォルトへ正規化されます。
func PageRequestFromQuery(c *gin.Context) pagination.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	sortBy := c.DefaultQuery("sortBy", pagination.DefaultSortBy)
	sortDir := pagination.Direction(c.DefaultQuery("sortDir", string(pagination.Asc)))
	return pagination.NewPageRequest(page, size, sortBy, sortDir)
}
