package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/middleware"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// PhotoController manages the player's photo wall.
type PhotoController struct {
	photos *services.PhotoWall
	game   *services.GameService
}

func NewPhotoController(photos *services.PhotoWall, game *services.GameService) *PhotoController {
	return &PhotoController{photos: photos, game: game}
}

// UploadPhoto accepts a multipart "image" file plus location fields, compresses and stores it.
func (p *PhotoController) UploadPhoto(ctx *gin.Context) {
	limit := int64(p.photos.MaxUploadBytes())
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit+1<<20)

	file, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "image file is required")
		return
	}
	if file.Size > limit {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		utils.Error(ctx, http.StatusBadRequest, "file must be an image")
		return
	}
	f, err := file.Open()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "failed to read image")
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "failed to read image")
		return
	}

	player := middleware.PlayerID(ctx)
	progress, err := p.game.GetProgress(ctx.Request.Context(), player)
	if err != nil {
		respondError(ctx, err)
		return
	}

	photo, err := p.photos.Add(ctx.Request.Context(), player, services.PhotoUpload{
		LocationID:   ctx.PostForm("location_id"),
		LocationName: utils.StripTags(ctx.PostForm("location_name")),
		Category:     models.Category(ctx.PostForm("category")),
		Caption:      ctx.PostForm("caption"),
		Username:     utils.StripTags(ctx.PostForm("username")),
		Level:        progress.Level,
		Filter:       models.PhotoFilter(ctx.PostForm("filter")),
		Image:        data,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	out, err := p.game.RecordPhoto(ctx.Request.Context(), player)
	if err != nil {
		utils.Logger.Warn("count photo in progress failed", zap.String("player", player), zap.Error(err))
	}
	utils.Created(ctx, gin.H{"photo": photo, "outcome": out})
}

// ListPhotos returns the wall, optionally narrowed by location_id and category.
func (p *PhotoController) ListPhotos(ctx *gin.Context) {
	q := services.PhotoQuery{LocationID: ctx.Query("location_id")}
	if raw := ctx.Query("category"); raw != "" {
		category, ok := models.ParseCategory(raw)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, "Invalid category")
			return
		}
		q.Category = category
	}
	photos, err := p.photos.List(ctx.Request.Context(), middleware.PlayerID(ctx), q)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, photos)
}

// LikePhoto increments a photo's like counter.
func (p *PhotoController) LikePhoto(ctx *gin.Context) {
	photo, err := p.photos.Like(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, photo)
}

// DeletePhoto removes a photo and its image.
func (p *PhotoController) DeletePhoto(ctx *gin.Context) {
	if err := p.photos.Delete(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"deleted": true})
}
