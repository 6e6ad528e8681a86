// Package metrics はPrometheusコレクターとHTTP計測ミドルウェアを提供します。
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal はルート・メソッド・ステータス別のHTTPリクエスト総数です。
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration はルート別のHTTPリクエスト処理時間です。
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// CatalogMutationsTotal はエンティティ・操作別のカタログ更新総数です。
	CatalogMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Total catalog create/update/delete operations",
		},
		[]string{"entity", "op"},
	)
)

// Handler は /metrics エンドポイント用のハンドラーです。
var Handler = promhttp.Handler

// Init はすべてのコレクターをデフォルトレジストリに登録します。
func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CatalogMutationsTotal)
}

// Middleware はリクエスト数とレイテンシを記録するGinミドルウェアを返します。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// 未登録ルート（404など）はパス爆発を避けるためまとめる
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
