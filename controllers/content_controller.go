package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// ContentController serves the markdown guide content.
type ContentController struct {
	content *services.ContentService
}

func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

// ListCategory returns every item of the category in the path.
func (c *ContentController) ListCategory(ctx *gin.Context) {
	category, ok := models.ParseCategory(ctx.Param("category"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Invalid category")
		return
	}
	utils.Success(ctx, c.content.List(category))
}

// GetItem returns one item, 404 when it does not exist.
func (c *ContentController) GetItem(ctx *gin.Context) {
	category, ok := models.ParseCategory(ctx.Param("category"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Invalid category")
		return
	}
	item, err := c.content.Get(category, ctx.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, item)
}

// Health reports liveness.
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}
