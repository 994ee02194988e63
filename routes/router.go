package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"github.com/yunlin/oldtown/config"
	"github.com/yunlin/oldtown/controllers"
	"github.com/yunlin/oldtown/metrics"
	"github.com/yunlin/oldtown/middleware"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// Deps are the services the router wires into controllers. Views and Metrics may be nil.
type Deps struct {
	Config   config.AppConfig
	Content  *services.ContentService
	Game     *services.GameService
	Coupons  *services.CouponService
	Photos   *services.PhotoWall
	Comments *services.CommentWall
	Ranking  services.Ranking
	Views    *services.ViewCounter
	Metrics  *metrics.Metrics
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	dev := cfg.IsDevelopment()

	r := gin.New()
	gl := utils.NewRollingFileLogger(cfg, cfg.GinPath)
	r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(gl, true))
	r.Use(middleware.ErrorHandler(dev))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.PlayerHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.PlayerHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if d.Metrics != nil && cfg.MetricsEnabled {
		r.Use(d.Metrics.Middleware())
		r.GET(cfg.MetricsPath, gin.WrapH(d.Metrics.Handler()))
	}

	r.Group("/static", middleware.StaticHeaders(dev)).Static("/", cfg.StaticDir)
	if cfg.ImageStore == "" || cfg.ImageStore == "local" {
		r.Group(cfg.UploadURLPrefix, middleware.StaticHeaders(dev)).Static("/", cfg.UploadDir)
	}

	contentController := controllers.NewContentController(d.Content)
	statsController := controllers.NewStatsController(d.Content, d.Views)
	configController := controllers.NewConfigController(cfg)
	gameController := controllers.NewGameController(d.Game, d.Content, d.Coupons, d.Ranking,
		services.NewProximityGate(cfg.GPSRadiusMeters), cfg.GPSRequired)
	photoController := controllers.NewPhotoController(d.Photos, d.Game)
	commentController := controllers.NewCommentController(d.Comments, d.Game)
	couponController := controllers.NewCouponController(d.Coupons)

	api := r.Group("/api")
	api.GET("/health", controllers.Health)
	api.GET("/stats", statsController.GetStats)
	api.GET("/stats/:category/:id", statsController.GetItemStats)
	api.GET("/game/config", configController.GetGameConfig)

	game := api.Group("/game", middleware.PlayerIdentity(!dev))
	game.GET("/progress", gameController.GetProgress)
	game.GET("/checkins/:locationId", gameController.CheckInStatus)
	game.GET("/leaderboard", gameController.Leaderboard)
	game.GET("/photos", photoController.ListPhotos)
	game.GET("/comments", commentController.ListComments)
	game.GET("/coupons", couponController.ListCoupons)

	writes := game.Group("", middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	writes.DELETE("/progress", gameController.ResetProgress)
	writes.POST("/progress/import", gameController.ImportProgress)
	writes.PATCH("/preferences", gameController.UpdatePreferences)
	writes.POST("/checkins", gameController.CheckIn)
	writes.POST("/achievements/check", gameController.CheckAchievements)
	writes.POST("/badges/:id/unlock", gameController.UnlockBadge)
	writes.POST("/photos", photoController.UploadPhoto)
	writes.POST("/photos/:id/like", photoController.LikePhoto)
	writes.DELETE("/photos/:id", photoController.DeletePhoto)
	writes.POST("/comments", commentController.PostComment)
	writes.POST("/comments/:id/like", commentController.LikeComment)
	writes.DELETE("/comments/:id", commentController.DeleteComment)
	writes.POST("/coupons/unlock", couponController.UnlockCoupons)
	writes.POST("/coupons/:id/redeem", couponController.RedeemCoupon)

	api.GET("/:category", contentController.ListCategory)
	api.GET("/:category/:id", middleware.ContentViewRecorder(d.Views), contentController.GetItem)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || dev {
			utils.Error(ctx, http.StatusNotFound, "route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			utils.Error(ctx, http.StatusNotFound, "static asset not found")
			return
		}
		// built client assets, anything else falls back to the SPA entry
		if asset := filepath.Join(cfg.ClientDir, filepath.Clean("/"+path)); path != "/" {
			if info, err := os.Stat(asset); err == nil && !info.IsDir() {
				ctx.File(asset)
				return
			}
		}
		ctx.Status(http.StatusOK)
		ctx.File(filepath.Join(cfg.ClientDir, "index.html"))
	})

	return r
}
