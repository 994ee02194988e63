package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yunlin/oldtown/middleware"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// CouponController lists, unlocks and redeems the player's coupons.
type CouponController struct {
	coupons *services.CouponService
}

func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

func (c *CouponController) ListCoupons(ctx *gin.Context) {
	list, err := c.coupons.List(ctx.Request.Context(), middleware.PlayerID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, list)
}

// UnlockCoupons copies every newly eligible coupon into the player's collection.
func (c *CouponController) UnlockCoupons(ctx *gin.Context) {
	unlocked, err := c.coupons.UnlockAvailable(ctx.Request.Context(), middleware.PlayerID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, unlocked)
}

// RedeemCoupon marks a coupon used. Redeeming twice or after expiry fails.
func (c *CouponController) RedeemCoupon(ctx *gin.Context) {
	coupon, err := c.coupons.Redeem(ctx.Request.Context(), middleware.PlayerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, coupon)
}
