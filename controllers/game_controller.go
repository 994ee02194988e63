package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/middleware"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

const maxImportBytes = 4 << 20

// GameController exposes the progression document of the calling player.
type GameController struct {
	game       *services.GameService
	content    *services.ContentService
	coupons    *services.CouponService
	ranking    services.Ranking
	gate       services.ProximityGate
	requireGPS bool
}

func NewGameController(game *services.GameService, content *services.ContentService, coupons *services.CouponService,
	ranking services.Ranking, gate services.ProximityGate, requireGPS bool) *GameController {
	return &GameController{
		game:       game,
		content:    content,
		coupons:    coupons,
		ranking:    ranking,
		gate:       gate,
		requireGPS: requireGPS,
	}
}

// GetProgress returns the player's progress with badge completion and the next achievement.
func (g *GameController) GetProgress(ctx *gin.Context) {
	p, err := g.game.GetProgress(ctx.Request.Context(), middleware.PlayerID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, services.Summary(p))
}

// ResetProgress discards the player's progress.
func (g *GameController) ResetProgress(ctx *gin.Context) {
	if err := g.game.ResetProgress(ctx.Request.Context(), middleware.PlayerID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"reset": true})
}

// ImportProgress replaces the player's progress with an exported or legacy document.
func (g *GameController) ImportProgress(ctx *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportBytes+1))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(raw) > maxImportBytes {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, "progress document too large")
		return
	}
	p, err := g.game.ImportProgress(ctx.Request.Context(), middleware.PlayerID(ctx), raw)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, services.Summary(p))
}

// UpdatePreferences replaces the player's role and notification settings.
func (g *GameController) UpdatePreferences(ctx *gin.Context) {
	var req models.Preferences
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	p, err := g.game.UpdatePreferences(ctx.Request.Context(), middleware.PlayerID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, p.Preferences)
}

type checkInRequest struct {
	LocationID string          `json:"location_id" binding:"required"`
	Category   models.Category `json:"category" binding:"required"`
	Photo      string          `json:"photo"`
	Note       string          `json:"note"`
	Fix        services.Fix    `json:"fix"`
}

// CheckInResponse is the outcome of a check-in plus any coupons it unlocked.
type CheckInResponse struct {
	*services.Outcome
	Coupons []models.Coupon `json:"coupons"`
}

// CheckIn verifies proximity when required, records the visit and unlocks coupons.
func (g *GameController) CheckIn(ctx *gin.Context) {
	var req checkInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	category, ok := models.ParseCategory(string(req.Category))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Invalid category")
		return
	}
	item, err := g.content.Get(category, req.LocationID)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "Item not found")
		return
	}

	target := item.Coordinates()
	if g.requireGPS {
		if err := g.gate.Verify(target, req.Fix); err != nil {
			respondError(ctx, err)
			return
		}
	}
	coords := req.Fix.Position
	if coords == nil {
		coords = target
	}

	player := middleware.PlayerID(ctx)
	out, err := g.game.RecordCheckIn(ctx.Request.Context(), player, services.CheckInInput{
		LocationID:  req.LocationID,
		Category:    category,
		Coordinates: coords,
		Photo:       req.Photo,
		Note:        utils.StripTags(req.Note),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	unlocked, err := g.coupons.UnlockAvailable(ctx.Request.Context(), player)
	if err != nil {
		// the check-in is already stored; coupons are unlocked again on the next call
		utils.Logger.Warn("unlock coupons after check-in failed", zap.String("player", player), zap.Error(err))
		unlocked = []models.Coupon{}
	}
	utils.Created(ctx, CheckInResponse{Outcome: out, Coupons: unlocked})
}

// CheckInStatus reports whether the player has checked in at a location and how often.
func (g *GameController) CheckInStatus(ctx *gin.Context) {
	locationID := ctx.Param("locationId")
	visited, count, err := g.game.CheckInStatus(ctx.Request.Context(), middleware.PlayerID(ctx), locationID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"location_id": locationID, "checked_in": visited, "count": count})
}

// CheckAchievements settles achievements, quests and daily quests.
func (g *GameController) CheckAchievements(ctx *gin.Context) {
	out, err := g.game.Evaluate(ctx.Request.Context(), middleware.PlayerID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, out)
}

// UnlockBadge unlocks one badge by id.
func (g *GameController) UnlockBadge(ctx *gin.Context) {
	changed, err := g.game.UnlockBadge(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": ctx.Param("id"), "unlocked": true, "changed": changed})
}

// Leaderboard ranks the player among rivals by the sort query parameter.
func (g *GameController) Leaderboard(ctx *gin.Context) {
	p, err := g.game.GetProgress(ctx.Request.Context(), middleware.PlayerID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	me := services.EntryFor(utils.StripTags(ctx.Query("username")), p)
	entries, err := g.ranking.Leaderboard(ctx.Request.Context(), me, ctx.Query("sort"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, entries)
}
