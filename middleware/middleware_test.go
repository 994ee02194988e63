package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func playerEngine() *gin.Engine {
	r := gin.New()
	r.Use(PlayerIdentity(false))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, PlayerID(c)) })
	return r
}

func TestPlayerIdentityIssuesCookie(t *testing.T) {
	w := httptest.NewRecorder()
	playerEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Body.String()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Header().Get(PlayerHeader))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, PlayerCookie, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestPlayerIdentityFromHeaderAndCookie(t *testing.T) {
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(PlayerHeader, id)
	w := httptest.NewRecorder()
	playerEngine().ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: PlayerCookie, Value: id})
	w = httptest.NewRecorder()
	playerEngine().ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(PlayerHeader, "../../etc")
	w = httptest.NewRecorder()
	playerEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(4))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	open := gin.New()
	open.Use(RateLimitMiddleware(0))
	open.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	for _, dev := range []bool{false, true} {
		r := gin.New()
		r.Use(ErrorHandler(dev))
		r.GET("/panic", func(c *gin.Context) { panic("boom") })
		r.GET("/err", func(c *gin.Context) { _ = c.Error(errors.New("disk on fire")) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "boom", body["error"])
		_, hasStack := body["stack"]
		assert.Equal(t, dev, hasStack)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "disk on fire")
	}
}

func TestStaticHeaders(t *testing.T) {
	r := gin.New()
	r.Use(StaticHeaders(false))
	r.GET("/static/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/audio/temple.mp3", nil))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, longCache, w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/audio/temple.M4A", nil))
	assert.Equal(t, "audio/aac", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/img/a.png", nil))
	assert.Empty(t, w.Header().Get("Accept-Ranges"))

	dev := gin.New()
	dev.Use(StaticHeaders(true))
	dev.GET("/static/*path", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = httptest.NewRecorder()
	dev.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/a.css", nil))
	assert.Equal(t, "public, max-age=0", w.Header().Get("Cache-Control"))
}

func TestContentViewRecorder(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	views, err := services.NewViewCounter(db, time.Local)
	require.NoError(t, err)

	r := gin.New()
	r.Use(ContentViewRecorder(views))
	r.GET(ContentItemRoute, func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/food/beef-soup", "/api/food/beef-soup", "/api/food/missing", "/api/nightlife/x"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	total, err := views.ItemTotal(context.Background(), models.CategoryFood, "beef-soup")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	missing, err := views.ItemTotal(context.Background(), models.CategoryFood, "missing")
	require.NoError(t, err)
	assert.Zero(t, missing)
}
