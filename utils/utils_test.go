package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/config"
)

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueStrings([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []string{}, UniqueStrings(nil))
	assert.True(t, ContainsString([]string{"x", "y"}, "y"))
	assert.False(t, ContainsString(nil, "y"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "hello", StripTags(" <script>alert(1)</script><b>hello</b> "))
	assert.NotContains(t, Sanitize(`<a href="javascript:alert(1)">x</a>`), "javascript")
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex(4)
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("player")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Error(ctx, http.StatusNotFound, "not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"not found"}`, w.Body.String())
	assert.True(t, ctx.IsAborted())
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := config.AppConfig{RedisHost: mr.Host(), RedisPort: port}

	rc, err := OpenRedis(context.Background(), cfg)
	require.NoError(t, err)
	defer rc.Close()
	require.NoError(t, rc.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	mr.Close()
	_, err = OpenRedis(context.Background(), cfg)
	assert.Error(t, err)
}
