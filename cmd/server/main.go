package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"marketplace_backend/internal/app/router"
	categoryadapters "marketplace_backend/internal/feature/categories/adapters"
	categoryhandler "marketplace_backend/internal/feature/categories/transport/handler"
	categoryusecase "marketplace_backend/internal/feature/categories/usecase"
	productadapters "marketplace_backend/internal/feature/products/adapters"
	producthandler "marketplace_backend/internal/feature/products/transport/handler"
	productusecase "marketplace_backend/internal/feature/products/usecase"
	useradapters "marketplace_backend/internal/feature/users/adapters"
	userhandler "marketplace_backend/internal/feature/users/transport/handler"
	userusecase "marketplace_backend/internal/feature/users/usecase"
	"marketplace_backend/internal/graphql"
	"marketplace_backend/internal/infrastructure/cache"
	infradb "marketplace_backend/internal/infrastructure/db"
	jwt "marketplace_backend/internal/platform/jwt"
	"marketplace_backend/internal/platform/logger"
	"marketplace_backend/internal/platform/metrics"
	infraredis "marketplace_backend/internal/platform/redis"
)

func main() {
	// .env（開発用）。本番では環境変数を直接設定する
	_ = godotenv.Load()

	slog.SetDefault(logger.New(os.Getenv("APP_ENV")))
	metrics.Init()

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Repository
	userRepo := useradapters.NewUserGorm(db)
	categoryRepo := categoryadapters.NewCategoryGorm(db)
	productRepo := productadapters.NewProductGorm(db)

	// Redisキャッシュでラップ
	cachedProductRepo := cache.NewCachingProductRepository(rdb, 5*time.Minute, productRepo, "products")

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwt.EnvKeyJWTSecret)
	if secret == "" {
		slog.Warn("JWT_SECRET is not set, set a strong secret in production")
	}
	tokens := jwt.NewGenerator(secret, 24*time.Hour)

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo, tokens, cachedProductRepo)
	categoryUC := categoryusecase.NewCategoryUsecase(categoryRepo, cachedProductRepo)
	productUC := productusecase.NewProductUsecase(cachedProductRepo, categoryRepo, userRepo)

	// Handler
	userH := userhandler.NewUserHandler(userUC)
	categoryH := categoryhandler.NewCategoryHandler(categoryUC)
	productH := producthandler.NewProductHandler(productUC)

	schema, err := graphql.NewSchema(userUC, categoryUC, productUC)
	if err != nil {
		log.Fatal(err)
	}
	gqlH := graphql.NewHandler(schema)

	// ルータ生成
	r := router.NewRouter(userH, categoryH, productH, gqlH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
