package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yunlin/oldtown/middleware"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// CommentController manages location comments.
type CommentController struct {
	comments *services.CommentWall
	game     *services.GameService
}

func NewCommentController(comments *services.CommentWall, game *services.GameService) *CommentController {
	return &CommentController{comments: comments, game: game}
}

// PostComment stores a comment signed with the player's current level.
func (c *CommentController) PostComment(ctx *gin.Context) {
	var req struct {
		services.CommentInput
		Username string `json:"username"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	player := middleware.PlayerID(ctx)
	progress, err := c.game.GetProgress(ctx.Request.Context(), player)
	if err != nil {
		respondError(ctx, err)
		return
	}
	in := req.CommentInput
	in.Username = utils.StripTags(req.Username)
	in.Level = progress.Level

	comment, err := c.comments.Post(ctx.Request.Context(), player, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, comment)
}

// ListComments returns comments for location_id newest first, or all when it is empty.
func (c *CommentController) ListComments(ctx *gin.Context) {
	comments, err := c.comments.ListByLocation(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Query("location_id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, comments)
}

func (c *CommentController) LikeComment(ctx *gin.Context) {
	comment, err := c.comments.Like(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

func (c *CommentController) DeleteComment(ctx *gin.Context) {
	if err := c.comments.Delete(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"deleted": true})
}
