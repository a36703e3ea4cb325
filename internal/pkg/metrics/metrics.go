package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	interactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_interactions_total",
		Help: "Interaction ledger outcomes by kind and outcome",
	}, []string{"kind", "outcome"})

	eventsPublishFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_events_publish_failed_total",
		Help: "Interaction events that could not be published",
	})

	reconcileFixed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_reconcile_fixed_total",
		Help: "Counters corrected by the reconciler",
	}, []string{"target"})
)

// Middleware 记录每个请求的次数与耗时，route 使用注册时的路径模板
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordInteraction(kind, outcome string) {
	interactionsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordPublishFailure() {
	eventsPublishFailed.Inc()
}

func RecordReconcile(posts, comments int) {
	reconcileFixed.WithLabelValues("post").Add(float64(posts))
	reconcileFixed.WithLabelValues("comment").Add(float64(comments))
}
