// Package server Prometheus 指标导出
package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"library-admin/internal/storage"
)

// Metrics 包含所有 API Server 指标
//
// 使用独立的 Registry，同一进程内可以创建多个实例（测试场景）。
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求指标
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// NewMetrics 创建指标实例
// loans_active 和 books_loaned 两个 Gauge 在抓取时从存储层采样。
func NewMetrics(namespace string, stats storage.StatsStore) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
	}

	if stats != nil {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loans_active",
				Help:      "Number of loans not yet returned",
			},
			func() float64 {
				count, err := stats.CountActiveLoans(context.Background())
				if err != nil {
					return 0
				}
				return float64(count)
			},
		)
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "books_loaned",
				Help:      "Number of books currently loaned out",
			},
			func() float64 {
				count, err := stats.CountLoanedBooks(context.Background())
				if err != nil {
					return 0
				}
				return float64(count)
			},
		)
	}

	return m
}

// Middleware 创建 HTTP 指标中间件
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// 包装 ResponseWriter 以捕获状态码
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.statusCode)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter 包装 http.ResponseWriter 以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath 规范化路径，将路径参数替换为占位符，避免高基数
// 例如 /book/Moby%20Dick -> /book/{name}
func normalizePath(path string) string {
	switch {
	case path == "/book/search" || path == "/book/status":
		return path
	case path == "/customer/search" || path == "/customer/status":
		return path
	case strings.HasPrefix(path, "/book/"):
		return "/book/{name}"
	case strings.HasPrefix(path, "/customer/"):
		return "/customer/{email}"
	case strings.HasPrefix(path, "/loan/"):
		return "/loan/{id}"
	case strings.HasPrefix(path, "/return/"):
		return "/return/{id}"
	default:
		return path
	}
}

// Handler 返回 Prometheus HTTP Handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
