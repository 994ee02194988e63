// Package metrics exposes Prometheus collectors for the HTTP layer and the progression engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oldtown"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CheckIns         *prometheus.CounterVec
	LevelUps         prometheus.Counter
	Achievements     *prometheus.CounterVec
	Quests           *prometheus.CounterVec
	CouponsRedeemed  *prometheus.CounterVec
	StoreWrites      *prometheus.CounterVec
	ContentItems     *prometheus.GaugeVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of requests currently being processed",
		}),
		CheckIns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "checkins_total",
				Help:      "Check-ins recorded",
			},
			[]string{"category"},
		),
		LevelUps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "level_ups_total",
			Help:      "Levels gained by players",
		}),
		Achievements: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "achievements_completed_total",
				Help:      "Achievements completed",
			},
			[]string{"achievement"},
		),
		Quests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "quests_completed_total",
				Help:      "Quests completed",
			},
			[]string{"kind"},
		),
		CouponsRedeemed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "coupons_redeemed_total",
				Help:      "Coupons redeemed",
			},
			[]string{"coupon"},
		),
		StoreWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "writes_total",
				Help:      "Document writes by key and operation",
			},
			[]string{"key", "op"},
		),
		ContentItems: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "content",
				Name:      "items",
				Help:      "Markdown items available per category",
			},
			[]string{"category"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, duration and in-flight gauge per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if m == nil {
			ctx.Next()
			return
		}
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestCounter.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveCheckIn(category string) {
	if m == nil {
		return
	}
	m.CheckIns.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveLevelUps(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LevelUps.Add(float64(n))
}

func (m *Metrics) ObserveAchievement(id string) {
	if m == nil {
		return
	}
	m.Achievements.WithLabelValues(id).Inc()
}

// ObserveQuest counts a completed quest; kind is "daily" or "quest".
func (m *Metrics) ObserveQuest(kind string) {
	if m == nil {
		return
	}
	m.Quests.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRedeem(couponID string) {
	if m == nil {
		return
	}
	m.CouponsRedeemed.WithLabelValues(couponID).Inc()
}

func (m *Metrics) ObserveStoreWrite(key, op string) {
	if m == nil {
		return
	}
	m.StoreWrites.WithLabelValues(key, op).Inc()
}

func (m *Metrics) SetContentItems(category string, n int) {
	if m == nil {
		return
	}
	m.ContentItems.WithLabelValues(category).Set(float64(n))
}
