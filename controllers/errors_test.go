package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/middleware"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(middleware.ErrorHandler(false))
	r.GET("/", func(c *gin.Context) { respondError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestRespondErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: photo %q", services.ErrNotFound, "p1"), http.StatusNotFound},
		{services.ErrInvalidCategory, http.StatusBadRequest},
		{fmt.Errorf("%w: content is required", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrNotEligible, http.StatusForbidden},
		{services.ErrAlreadyRedeemed, http.StatusConflict},
		{services.ErrExpired, http.StatusGone},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := serveError(t, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestRespondErrorGeo(t *testing.T) {
	target := &models.Coordinates{Latitude: 23.7092, Longitude: 120.543}
	err := services.NewProximityGate(100).Verify(target, services.Fix{
		Position: &models.Coordinates{Latitude: 23.7102, Longitude: 120.543},
	})
	require.Error(t, err)

	w := serveError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error string `json:"error"`
		Data  struct {
			Distance float64 `json:"distance"`
			Excess   float64 `json:"excess"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.InDelta(t, 111.2, body.Data.Distance, 0.5)
	assert.InDelta(t, 11.2, body.Data.Excess, 0.5)

	w = serveError(t, services.NewProximityGate(100).Verify(target, services.Fix{Unsupported: true}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotContains(t, w.Body.String(), "distance")
}

func TestHealthShape(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}
