// Package db はGORM接続の初期化とマイグレーションを提供します。
package db

import (
	"log"
	"os"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	categoryentity "marketplace_backend/internal/feature/categories/domain/entity"
	productentity "marketplace_backend/internal/feature/products/domain/entity"
	userentity "marketplace_backend/internal/feature/users/domain/entity"
)

// OpenDB は環境変数に従ってデータベース接続を開きます。
// DATABASE_URLが設定されていればPostgreSQL、なければSQLiteファイルを使用します。
// TranslateErrorにより一意制約違反はgorm.ErrDuplicatedKeyとして検出され、
// ストアが重複キーの権威的な防衛線になります。
func OpenDB() *gorm.DB {
	cfg := &gorm.Config{TranslateError: true}

	var (
		conn *gorm.DB
		err  error
	)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		conn, err = gorm.Open(gpostgres.Open(dsn), cfg)
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "./marketplace.db"
		}
		conn, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		panic("failed to connect database")
	}

	// マイグレーション（User, Category, Product）
	if err := conn.AutoMigrate(
		&userentity.User{},
		&categoryentity.Category{},
		&productentity.Product{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return conn
}
