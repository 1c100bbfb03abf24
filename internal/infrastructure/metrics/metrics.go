package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 各項指標，使用獨立的 Registry
type Metrics struct {
	registry *prometheus.Registry

	PlansTotal     *prometheus.CounterVec
	PlanDuration   *prometheus.HistogramVec
	RecipesPerPlan prometheus.Histogram
	LeftoversTotal prometheus.Counter
	CacheLookups   *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New 建立並註冊全部指標
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PlansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplan_plans_total",
				Help: "Total number of meal plans computed",
			},
			[]string{"policy", "outcome"}, // outcome: "ok", "empty"
		),
		PlanDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealplan_plan_duration_seconds",
				Help:    "Duration of the colouring and ranking pipeline in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"policy"},
		),
		RecipesPerPlan: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mealplan_recipes_per_plan",
				Help:    "Number of recipes in each computed plan",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),
		LeftoversTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mealplan_leftover_items_total",
				Help: "Total number of items left out because of category imbalance",
			},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplan_cache_lookups_total",
				Help: "Plan cache lookups by result",
			},
			[]string{"result"}, // "hit", "miss", "error"
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplan_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealplan_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// ObservePlan 記錄一次規劃
func (m *Metrics) ObservePlan(policy string, recipes, leftovers int, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if recipes == 0 {
		outcome = "empty"
	}
	m.PlansTotal.WithLabelValues(policy, outcome).Inc()
	m.PlanDuration.WithLabelValues(policy).Observe(duration.Seconds())
	m.RecipesPerPlan.Observe(float64(recipes))
	m.LeftoversTotal.Add(float64(leftovers))
}

// ObserveCache 記錄快取查詢結果
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest 記錄一個 HTTP 請求
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
