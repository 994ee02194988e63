package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/models"
)

func offer(t *testing.T, id string) CouponOffer {
	t.Helper()
	for _, o := range CouponCatalog {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("coupon %s not in catalog", id)
	return CouponOffer{}
}

func TestCheckEligibilityRequiresEveryPredicate(t *testing.T) {
	g := NewGameService(nil)
	p := g.newProgress(wednesdayNoon)
	p.Level = 12
	culture := offer(t, "coupon_culture").Coupon

	ok, reason := CheckEligibility(culture, p)
	assert.False(t, ok)
	assert.Contains(t, reason, "badge_culture_scholar")

	changed, found := g.unlockBadge(p, "badge_culture_scholar", wednesdayNoon)
	require.True(t, found)
	require.True(t, changed)
	ok, reason = CheckEligibility(culture, p)
	assert.True(t, ok)
	assert.Empty(t, reason)

	p.Level = 9
	ok, _ = CheckEligibility(culture, p)
	assert.False(t, ok)

	welcome := offer(t, "coupon_welcome").Coupon
	p.Level = 1
	ok, reason = CheckEligibility(welcome, p)
	assert.False(t, ok)
	assert.Contains(t, reason, "check-ins")
	p.Stats.TotalCheckIns = 1
	ok, _ = CheckEligibility(welcome, p)
	assert.True(t, ok)
}

func newTestCoupons(t *testing.T) (*CouponService, *GameService, *fakeClock) {
	t.Helper()
	g, s, clock := newTestGame(t, wednesdayNoon)
	c := NewCouponService(s, g, nil)
	c.now = clock.Now
	return c, g, clock
}

func TestUnlockAndRedeem(t *testing.T) {
	coupons, game, clock := newTestCoupons(t)
	ctx := context.Background()

	got, err := coupons.UnlockAvailable(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = game.RecordCheckIn(ctx, "p1", CheckInInput{LocationID: "a", Category: models.CategoryFood})
	require.NoError(t, err)

	got, err = coupons.UnlockAvailable(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "coupon_welcome", got[0].ID)
	assert.Equal(t, wednesdayNoon.Add(30*24*time.Hour), got[0].ExpiresAt)
	assert.False(t, got[0].Redeemed)

	again, err := coupons.UnlockAvailable(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, again)

	clock.Advance(time.Hour)
	redeemed, err := coupons.Redeem(ctx, "p1", "coupon_welcome")
	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
	require.NotNil(t, redeemed.RedeemedAt)
	assert.Equal(t, clock.Now(), *redeemed.RedeemedAt)

	_, err = coupons.Redeem(ctx, "p1", "coupon_welcome")
	assert.ErrorIs(t, err, ErrAlreadyRedeemed)

	_, err = coupons.Redeem(ctx, "p1", "coupon_master")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := coupons.List(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, list.Available)
	require.Len(t, list.Redeemed, 1)
	assert.Len(t, list.Locked, len(CouponCatalog)-1)
	for _, l := range list.Locked {
		assert.False(t, l.Eligible)
		assert.NotEmpty(t, l.Reason)
	}
}

func TestRedeemExpiredCoupon(t *testing.T) {
	coupons, game, clock := newTestCoupons(t)
	ctx := context.Background()

	_, err := game.RecordCheckIn(ctx, "p1", CheckInInput{LocationID: "a", Category: models.CategoryFood})
	require.NoError(t, err)
	_, err = coupons.UnlockAvailable(ctx, "p1")
	require.NoError(t, err)

	clock.Advance(31 * 24 * time.Hour)
	_, err = coupons.Redeem(ctx, "p1", "coupon_welcome")
	assert.ErrorIs(t, err, ErrExpired)

	list, err := coupons.List(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, list.Available)
	assert.Empty(t, list.Redeemed)
}
