package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yunlin/oldtown/config"
	"github.com/yunlin/oldtown/metrics"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/routes"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/storage"
	"github.com/yunlin/oldtown/store"
	"github.com/yunlin/oldtown/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		utils.Sugar.Warnf("unknown timezone %q, using local time: %v", cfg.Timezone, err)
		loc = time.Local
	}

	// nil when no database driver is configured
	db := config.InitDatabase(&models.Document{}, &models.ContentView{})

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	opts := store.Options{Driver: cfg.StoreDriver, RedisPrefix: cfg.RedisPrefix, DB: db}
	if cfg.StoreDriver == "redis" {
		if opts.Redis, err = utils.OpenRedis(context.Background(), cfg); err != nil {
			utils.Sugar.Fatalf("connect redis: %v", err)
		}
	}
	base, err := store.Open(opts)
	if err != nil {
		utils.Sugar.Fatalf("open document store: %v", err)
	}
	docs := store.NewObserved(base)
	docs.Subscribe(func(c store.Change) {
		op := "put"
		if c.Body == nil {
			op = "delete"
		}
		m.ObserveStoreWrite(c.Key, op)
	})

	images, err := storage.Open(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Fatalf("open image storage: %v", err)
	}

	var views *services.ViewCounter
	if db != nil {
		if views, err = services.NewViewCounter(db, loc); err != nil {
			utils.Sugar.Fatalf("prepare content views: %v", err)
		}
	}

	content := services.NewContentService(cfg.ContentDir, cfg.StoryMarker)
	game := services.NewGameService(docs,
		services.WithLocation(loc),
		services.WithLevelCurve(cfg.LevelBaseExp, cfg.LevelGrowth),
		services.WithCheckInExp(cfg.CheckInExp),
		services.WithGameMetrics(m),
	)

	r := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		Content:  content,
		Game:     game,
		Coupons:  services.NewCouponService(docs, game, m),
		Photos:   services.NewPhotoWall(docs, images).WithCompression(cfg.PhotoMaxWidth, cfg.PhotoQuality).WithMaxUpload(cfg.PhotoMaxUploadMB),
		Comments: services.NewCommentWall(docs),
		Ranking:  services.NewMockRanking(time.Now().UnixNano()),
		Views:    views,
		Metrics:  m,
	})

	scheduler, err := services.StartScheduler(content, m, views, time.Duration(cfg.ContentRefreshMinutes)*time.Minute)
	if err != nil {
		utils.Sugar.Fatalf("start scheduler: %v", err)
	}

	srv := utils.NewGraceServer(":"+cfg.AppPort, r)
	srv.OnShutdown(func(context.Context) {
		if err := scheduler.Stop(); err != nil {
			utils.Logger.Warn("scheduler shutdown failed", zap.Error(err))
		}
	})

	utils.Logger.Info("starting server",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.String("store", cfg.StoreDriver),
		zap.String("content", cfg.ContentDir))
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
