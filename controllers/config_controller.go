package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yunlin/oldtown/config"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// ConfigController serves the environment driven settings the client needs.
type ConfigController struct {
	cfg config.AppConfig
}

func NewConfigController(cfg config.AppConfig) *ConfigController { return &ConfigController{cfg: cfg} }

// GetGameConfig returns check-in, level and upload settings.
func (c *ConfigController) GetGameConfig(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"categories": models.Categories,
		"gps": gin.H{
			"required":      c.cfg.GPSRequired,
			"radius_meters": c.cfg.GPSRadiusMeters,
		},
		"level": gin.H{
			"base_exp":     c.cfg.LevelBaseExp,
			"growth":       c.cfg.LevelGrowth,
			"check_in_exp": c.cfg.CheckInExp,
		},
		"photos": gin.H{
			"max_upload_mb": c.cfg.PhotoMaxUploadMB,
			"max_width":     c.cfg.PhotoMaxWidth,
			"filters": []models.PhotoFilter{
				models.FilterNone, models.FilterRetro, models.FilterNeon,
				models.FilterVintage, models.FilterCyberpunk, models.FilterVaporwave,
			},
		},
		"roles":     services.Roles,
		"sort_keys": []string{services.SortLevel, services.SortExp, services.SortBadges, services.SortCheckIns},
	})
}
