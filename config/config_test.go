package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONConfigGroupedSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"AppPort": "9000", "AppEnv": "development", "AllowedOrigins": ["http://a.test"]},
		"content": {"ContentDir": "/srv/content", "RefreshMinutes": 5},
		"game": {"GPSRequired": true, "GPSRadiusMeters": 150, "LevelGrowth": 2},
		"store": {"Driver": "redis"},
		"redis": {"RedisHost": "cache", "RedisPort": 6380},
		"database": {"Driver": "sqlite", "SQLitePath": "/tmp/x.db"},
		"log": {"Level": "debug", "Compress": true}
	}`), 0o644))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)

	assert.Equal(t, "9000", c.AppPort)
	assert.True(t, c.IsDevelopment())
	assert.Equal(t, []string{"http://a.test"}, c.AllowedOrigins)
	assert.Equal(t, "/srv/content", c.ContentDir)
	assert.Equal(t, 5, c.ContentRefreshMinutes)
	assert.True(t, c.GPSRequired)
	assert.Equal(t, 150.0, c.GPSRadiusMeters)
	assert.Equal(t, 2.0, c.LevelGrowth)
	assert.Equal(t, 100, c.LevelBaseExp)
	assert.Equal(t, "redis", c.StoreDriver)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogCompress)
}

func TestLoadJSONConfigMissingFileIsIgnored(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c))
}

func TestLoadJSONConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app":`), 0o644))
	var c AppConfig
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "5000", c.AppPort)
	assert.Equal(t, "production", c.AppEnv)
	assert.False(t, c.IsDevelopment())
	assert.Equal(t, "memory", c.StoreDriver)
	assert.Equal(t, 100.0, c.GPSRadiusMeters)
	assert.Equal(t, 1200, c.PhotoMaxWidth)
	assert.Equal(t, 80, c.PhotoQuality)
	assert.Equal(t, 20, c.CheckInExp)
	assert.Equal(t, 1.5, c.LevelGrowth)
	assert.Equal(t, "## 延伸閱讀", c.StoryMarker)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7000")
	t.Setenv("STORE_DRIVER", "database")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("GPS_REQUIRED", "true")
	t.Setenv("GPS_RADIUS_METERS", "250")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, "database", c.StoreDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
	assert.True(t, c.GPSRequired)
	assert.Equal(t, 250.0, c.GPSRadiusMeters)
}

func TestOpenDatabaseSQLite(t *testing.T) {
	c := AppConfig{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db"), LogLevel: "silent"}
	conn, err := OpenDatabase(c)
	require.NoError(t, err)
	require.NotNil(t, conn)

	_, err = OpenDatabase(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}
