package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// respondError maps service errors to status codes. Anything unexpected is attached to
// the context for the error middleware to render as a 500.
func respondError(ctx *gin.Context, err error) {
	var geo *services.GeoError
	switch {
	case errors.As(err, &geo):
		var data interface{}
		if errors.Is(err, services.ErrOutOfRange) {
			data = gin.H{"distance": geo.Distance, "excess": geo.Excess}
		}
		utils.Respond(ctx, http.StatusUnprocessableEntity, false, data, geo.Message)
		ctx.Abort()
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCategory):
		utils.Error(ctx, http.StatusBadRequest, "Invalid category")
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotEligible):
		utils.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadyRedeemed):
		utils.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrExpired):
		utils.Error(ctx, http.StatusGone, err.Error())
	default:
		_ = ctx.Error(err)
	}
}
