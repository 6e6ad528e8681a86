// Package redis は商品ページキャッシュが使用するRedisクライアントを提供します。
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// resolveAddr は接続先アドレスを環境変数から解決します。
// REDIS_ADDRが最優先、次にREDIS_HOST/REDIS_PORT、未設定時はlocalhost:6379です。
func resolveAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

// resolveDB はREDIS_DBからDBインデックスを解決します。未設定時は0です。
func resolveDB() (int, error) {
	raw := os.Getenv("REDIS_DB")
	if raw == "" {
		return 0, nil
	}
	db, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
	}
	return db, nil
}

// NewRedisClient は環境変数からRedisクライアントを生成し、接続を確認します。
func NewRedisClient() (*redis.Client, error) {
	addr := resolveAddr()
	db, err := resolveDB()
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	// 接続確認
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr, "db", db)
	return rdb, nil
}
