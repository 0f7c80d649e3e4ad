package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute 未命中路由的请求统一归到一个标签，避免路径爆炸
const unmatchedRoute = "unmatched"

var (
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route template and status",
	}, []string{"method", "route", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route template",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	// QuizSubmissions result: graded / rejected / error
	QuizSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_submissions_total",
		Help: "Quiz submissions by result",
	}, []string{"result"})

	QuizScoreRatio = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_score_ratio",
		Help:    "Score divided by maximum score of graded submissions",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	// AssistantRequests outcome: ok / error
	AssistantRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_requests_total",
		Help: "Assistant requests by outcome",
	}, []string{"outcome"})

	AssistantGenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_generation_seconds",
		Help:    "Latency of calls to the text generation model",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	})

	AssistantStreamConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assistant_stream_connections",
		Help: "Open assistant WebSocket connections",
	})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestCounter,
		RequestDuration,
		QuizSubmissions,
		QuizScoreRatio,
		AssistantRequests,
		AssistantGenerationDuration,
		AssistantStreamConnections,
	}
}

var registerOnce sync.Once

// Init 向默认 registry 注册所有指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(collectors()...)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		RequestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
