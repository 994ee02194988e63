package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCheckIn("food")
		m.ObserveLevelUps(2)
		m.ObserveAchievement("checkin_1")
		m.ObserveQuest("daily")
		m.ObserveRedeem("coupon_1")
		m.ObserveStoreWrite("progress", "put")
		m.SetContentItems("food", 3)
	})
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveCheckIn("food")
	m.ObserveCheckIn("food")
	m.ObserveLevelUps(3)
	m.ObserveLevelUps(0)
	m.SetContentItems("culture", 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckIns.WithLabelValues("food")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LevelUps))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ContentItems.WithLabelValues("culture")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/:category", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/food", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/:category", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "oldtown_http_requests_total")
}
