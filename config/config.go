package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds file and environment driven configuration values.
// Secrets (database password, object storage keys) have no defaults and come from .env or the environment.
type AppConfig struct {
	AppPort            string
	AppEnv             string
	AllowedOrigins     []string
	RateLimitPerMinute int
	// Content
	ContentDir  string
	StaticDir   string
	ClientDir   string
	StoryMarker string
	// ContentRefreshMinutes is the interval of the content gauge refresh job; 0 disables it.
	ContentRefreshMinutes int
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Game
	Timezone         string
	LevelBaseExp     int
	LevelGrowth      float64
	CheckInExp       int
	GPSRequired      bool
	GPSRadiusMeters  float64
	PhotoMaxWidth    int
	PhotoQuality     int
	PhotoMaxUploadMB int
	// Document store: memory, redis or database
	StoreDriver string
	// Redis
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	RedisPrefix   string
	// Database: mysql or sqlite. Empty driver means no database.
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	// Photo objects: local or s3
	ImageStore      string
	UploadDir       string
	UploadURLPrefix string
	S3Bucket        string
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicURL     string
	// Metrics
	MetricsEnabled bool
	MetricsPath    string
}

// IsDevelopment reports whether the server runs in development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> .env -> environment variable overrides
	path := getEnv("CONFIG_FILE", filepath.Join("config", "config.json"))
	if err := loadJSONConfig(path, &cfg); err != nil {
		log.Fatalf("invalid config file %s: %v", path, err)
	}

	applyDefaults(&cfg)

	// .env only fills variables not already present in the process environment
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			}
		}
		return 0
	}
	getFloat := func(m map[string]any, key string) float64 {
		if v, ok := m[key].(float64); ok {
			return v
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.AppEnv = getString(app, "AppEnv")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		out.MetricsEnabled = getBool(app, "MetricsEnabled")
		out.MetricsPath = getString(app, "MetricsPath")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if ct, ok := raw["content"].(map[string]any); ok {
		out.ContentDir = getString(ct, "ContentDir")
		out.StaticDir = getString(ct, "StaticDir")
		out.ClientDir = getString(ct, "ClientDir")
		out.StoryMarker = getString(ct, "StoryMarker")
		out.ContentRefreshMinutes = getInt(ct, "RefreshMinutes")
	}

	if gm, ok := raw["game"].(map[string]any); ok {
		out.Timezone = getString(gm, "Timezone")
		out.LevelBaseExp = getInt(gm, "LevelBaseExp")
		out.LevelGrowth = getFloat(gm, "LevelGrowth")
		out.CheckInExp = getInt(gm, "CheckInExp")
		out.GPSRequired = getBool(gm, "GPSRequired")
		out.GPSRadiusMeters = getFloat(gm, "GPSRadiusMeters")
		out.PhotoMaxWidth = getInt(gm, "PhotoMaxWidth")
		out.PhotoQuality = getInt(gm, "PhotoQuality")
		out.PhotoMaxUploadMB = getInt(gm, "PhotoMaxUploadMB")
	}

	if st, ok := raw["store"].(map[string]any); ok {
		out.StoreDriver = getString(st, "Driver")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
		out.RedisPrefix = getString(rds, "RedisPrefix")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
		out.SQLitePath = getString(dbs, "SQLitePath")
	}

	if sg, ok := raw["storage"].(map[string]any); ok {
		out.ImageStore = getString(sg, "Driver")
		out.UploadDir = getString(sg, "UploadDir")
		out.UploadURLPrefix = getString(sg, "UploadURLPrefix")
		out.S3Bucket = getString(sg, "S3Bucket")
		out.S3Endpoint = getString(sg, "S3Endpoint")
		out.S3Region = getString(sg, "S3Region")
		out.S3PublicURL = getString(sg, "S3PublicURL")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.AppEnv == "" {
		c.AppEnv = "production"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.ClientDir == "" {
		c.ClientDir = filepath.Join("client", "dist")
	}
	if c.StoryMarker == "" {
		c.StoryMarker = "## 延伸閱讀"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Taipei"
	}
	if c.LevelBaseExp == 0 {
		c.LevelBaseExp = 100
	}
	if c.LevelGrowth == 0 {
		c.LevelGrowth = 1.5
	}
	if c.CheckInExp == 0 {
		c.CheckInExp = 20
	}
	if c.GPSRadiusMeters == 0 {
		c.GPSRadiusMeters = 100
	}
	if c.PhotoMaxWidth == 0 {
		c.PhotoMaxWidth = 1200
	}
	if c.PhotoQuality == 0 {
		c.PhotoQuality = 80
	}
	if c.PhotoMaxUploadMB == 0 {
		c.PhotoMaxUploadMB = 10
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "memory"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RedisPrefix == "" {
		c.RedisPrefix = "oldtown:doc:"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "oldtown"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join("data", "oldtown.db")
	}
	if c.ImageStore == "" {
		c.ImageStore = "local"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.UploadURLPrefix == "" {
		c.UploadURLPrefix = "/uploads"
	}
	if c.S3Region == "" {
		c.S3Region = "auto"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", getEnv("PORT", "")); v != "" {
		c.AppPort = v
	}
	if v := getEnv("APP_ENV", ""); v != "" {
		c.AppEnv = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		c.MetricsEnabled = v == "true"
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("CONTENT_DIR", ""); v != "" {
		c.ContentDir = v
	}
	if v := getEnv("STATIC_DIR", ""); v != "" {
		c.StaticDir = v
	}
	if v := getEnv("CLIENT_DIR", ""); v != "" {
		c.ClientDir = v
	}
	if v := getEnv("CONTENT_REFRESH_MINUTES", ""); v != "" {
		c.ContentRefreshMinutes = mustParseInt(v)
	}
	if v := getEnv("TZ_NAME", ""); v != "" {
		c.Timezone = v
	}
	if v := getEnv("CHECKIN_EXP", ""); v != "" {
		c.CheckInExp = mustParseInt(v)
	}
	if v := getEnv("GPS_REQUIRED", ""); v != "" {
		c.GPSRequired = v == "true"
	}
	if v := getEnv("GPS_RADIUS_METERS", ""); v != "" {
		c.GPSRadiusMeters = float64(mustParseInt(v))
	}
	if v := getEnv("PHOTO_MAX_UPLOAD_MB", ""); v != "" {
		c.PhotoMaxUploadMB = mustParseInt(v)
	}
	if v := getEnv("STORE_DRIVER", ""); v != "" {
		c.StoreDriver = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = v
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("IMAGE_STORE", ""); v != "" {
		c.ImageStore = v
	}
	if v := getEnv("UPLOAD_DIR", ""); v != "" {
		c.UploadDir = v
	}
	if v := getEnv("S3_BUCKET", ""); v != "" {
		c.S3Bucket = v
	}
	if v := getEnv("S3_ENDPOINT", ""); v != "" {
		c.S3Endpoint = v
	}
	if v := getEnv("S3_REGION", ""); v != "" {
		c.S3Region = v
	}
	if v := getEnv("S3_ACCESS_KEY_ID", ""); v != "" {
		c.S3AccessKey = v
	}
	if v := getEnv("S3_SECRET_ACCESS_KEY", ""); v != "" {
		c.S3SecretKey = v
	}
	if v := getEnv("S3_PUBLIC_URL", ""); v != "" {
		c.S3PublicURL = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
