package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	categoryhandler "marketplace_backend/internal/feature/categories/transport/handler"
	producthandler "marketplace_backend/internal/feature/products/transport/handler"
	userhandler "marketplace_backend/internal/feature/users/transport/handler"
	"marketplace_backend/internal/graphql"
	jwtmw "marketplace_backend/internal/platform/jwt"
	"marketplace_backend/internal/platform/metrics"
)

// Health は導通確認用エンドポイントを処理します。
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewRouter は全ルートを組み立てたginエンジンを返します。
// 参照系とログインは認証不要、ユーザー管理と全カタログ更新系はJWT必須です。
func NewRouter(users *userhandler.UserHandler, categories *categoryhandler.CategoryHandler,
	products *producthandler.ProductHandler, gql *graphql.Handler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(metrics.Middleware())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", Health)
	// Prometheusメトリクス
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	// ログイン（JWT 発行）
	r.POST("/login", users.Login)
	// GraphQLエンドポイント（RESTと同一のユースケースを共有）
	r.POST("/graphql", gql.Serve)

	// カタログ参照系（公開）
	categoryReads := r.Group("/api/categories")
	{
		categoryReads.GET("", categories.List)
		categoryReads.GET("/all", categories.ListAll)
		categoryReads.GET("/:id", categories.GetByID)
		categoryReads.GET("/name/:name", categories.GetByName)
		categoryReads.GET("/exists/:name", categories.ExistsByName)
	}
	productReads := r.Group("/api/products")
	{
		productReads.GET("", products.ListActive)
		productReads.GET("/all", products.List)
		productReads.GET("/:id", products.GetByID)
		productReads.GET("/category/:categoryId", products.ByCategory)
		productReads.GET("/seller/:sellerId", products.BySeller)
		productReads.GET("/search", products.Search)
		productReads.GET("/price-range", products.ByPriceRange)
		productReads.GET("/sorted/price-asc", products.SortedByPriceAsc)
		productReads.GET("/sorted/price-desc", products.SortedByPriceDesc)
		productReads.GET("/sorted/newest", products.SortedByNewest)
	}

	// 認証必須のルート
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		// ユーザー管理
		userRoutes := auth.Group("/api/users")
		{
			userRoutes.GET("", users.List)
			userRoutes.GET("/:id", users.GetByID)
			userRoutes.GET("/username/:username", users.GetByUsername)
			userRoutes.GET("/email/:email", users.GetByEmail)
			userRoutes.GET("/role/:role", users.ListByRole)
			userRoutes.GET("/enabled", users.ListByEnabled)
			userRoutes.GET("/exists/username/:username", users.ExistsByUsername)
			userRoutes.GET("/exists/email/:email", users.ExistsByEmail)
			userRoutes.POST("", users.Create)
			userRoutes.PUT("/:id", users.Update)
			userRoutes.DELETE("/:id", users.Delete)
		}

		// カタログ更新系
		auth.POST("/api/categories", categories.Create)
		auth.PUT("/api/categories/:id", categories.Update)
		auth.DELETE("/api/categories/:id", categories.Delete)
		auth.POST("/api/products", products.Create)
		auth.PUT("/api/products/:id", products.Update)
		auth.DELETE("/api/products/:id", products.Delete)
	}

	return r
}
