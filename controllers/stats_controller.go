package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// StatsController reports content counts and view statistics.
type StatsController struct {
	content *services.ContentService
	views   *services.ViewCounter
}

// NewStatsController creates a StatsController. views may be nil when no database is configured.
func NewStatsController(content *services.ContentService, views *services.ViewCounter) *StatsController {
	return &StatsController{content: content, views: views}
}

// GetStats returns item counts per category and, with a database, today's views.
func (s *StatsController) GetStats(ctx *gin.Context) {
	counts := s.content.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}
	data := gin.H{
		"item_counts": counts,
		"item_total":  total,
	}

	if s.views != nil {
		today, err := s.views.DayTotals(ctx.Request.Context(), time.Now())
		if err != nil {
			// fall back to no view data instead of failing the endpoint
			utils.Logger.Warn("load today's views failed", zap.Error(err))
		} else {
			var sum int64
			for _, n := range today {
				sum += n
			}
			data["today_views"] = today
			data["today_view_total"] = sum
		}
	}
	utils.Success(ctx, data)
}

// GetItemStats returns the all time views of one item.
func (s *StatsController) GetItemStats(ctx *gin.Context) {
	category, ok := models.ParseCategory(ctx.Param("category"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Invalid category")
		return
	}
	id := ctx.Param("id")
	if !s.content.Exists(category, id) {
		utils.Error(ctx, http.StatusNotFound, "Item not found")
		return
	}

	var views int64
	if s.views != nil {
		n, err := s.views.ItemTotal(ctx.Request.Context(), category, id)
		if err != nil {
			utils.Logger.Warn("load item views failed", zap.Error(err))
		} else {
			views = n
		}
	}
	utils.Success(ctx, gin.H{"category": category, "id": id, "views": views})
}
