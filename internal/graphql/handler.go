package graphql

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"marketplace_backend/internal/api"
)

// request is the standard GraphQL-over-HTTP POST body.
type request struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL requests over a single POST endpoint.
type Handler struct {
	schema graphql.Schema
}

// NewHandler はGraphQLハンドラーの新しいインスタンスを生成します。
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Serve はGraphQLエンドポイントを処理します。
// クエリ・リゾルバのエラーはGraphQL仕様に従いerrors配列で返却します。
//
// エンドポイント例:
// POST /graphql {"query": "{ products(page: 0, size: 10) { id name price } }"}
func (h *Handler) Serve(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("graphql request bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request.Context(),
	})
	if len(result.Errors) > 0 {
		slog.Warn("graphql execution returned errors", "errors", len(result.Errors), "operation", req.OperationName)
	}
	c.JSON(http.StatusOK, result)
}
