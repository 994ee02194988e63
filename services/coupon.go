package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yunlin/oldtown/metrics"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/store"
	"github.com/yunlin/oldtown/utils"
)

// CouponService unlocks catalog coupons for eligible players and redeems them.
type CouponService struct {
	store   store.Store
	game    *GameService
	locks   *utils.KeyedMutex
	now     func() time.Time
	catalog []CouponOffer
	metrics *metrics.Metrics
}

func NewCouponService(s store.Store, game *GameService, m *metrics.Metrics) *CouponService {
	return &CouponService{
		store:   s,
		game:    game,
		locks:   utils.NewKeyedMutex(64),
		now:     time.Now,
		catalog: CouponCatalog,
		metrics: m,
	}
}

// Eligibility is the verdict for one catalog coupon.
type Eligibility struct {
	CouponID string `json:"coupon_id"`
	Title    string `json:"title"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// CouponList groups a player's coupons for display.
type CouponList struct {
	Available []models.Coupon `json:"available"`
	Redeemed  []models.Coupon `json:"redeemed"`
	Locked    []Eligibility   `json:"locked"`
}

// CheckEligibility requires every predicate the coupon declares. Undeclared predicates always hold.
func CheckEligibility(c models.Coupon, p *models.UserProgress) (bool, string) {
	if p.Level < c.RequiredLevel {
		return false, fmt.Sprintf("Requires level %d", c.RequiredLevel)
	}
	if c.RequiredCheckIns > 0 && p.Stats.TotalCheckIns < c.RequiredCheckIns {
		return false, fmt.Sprintf("Requires %d check-ins", c.RequiredCheckIns)
	}
	if len(c.RequiredBadges) > 0 {
		unlocked := p.UnlockedBadgeIDs()
		for _, id := range c.RequiredBadges {
			if _, ok := unlocked[id]; !ok {
				return false, fmt.Sprintf("Requires badge %s", id)
			}
		}
	}
	return true, ""
}

// UnlockAvailable copies every eligible catalog coupon the player does not own yet into
// their collection and returns the new ones. Expiry is counted from the unlock.
func (s *CouponService) UnlockAvailable(ctx context.Context, owner string) ([]models.Coupon, error) {
	p, err := s.game.GetProgress(ctx, owner)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(owner)
	defer unlock()

	owned, err := loadList[models.Coupon](ctx, s.store, owner, store.KeyCoupons)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(owned))
	for _, c := range owned {
		have[c.ID] = true
	}

	now := s.now()
	unlocked := []models.Coupon{}
	for _, offer := range s.catalog {
		if have[offer.ID] {
			continue
		}
		if ok, _ := CheckEligibility(offer.Coupon, p); !ok {
			continue
		}
		c := offer.Coupon
		c.RequiredBadges = append([]string(nil), offer.RequiredBadges...)
		c.ExpiresAt = now.Add(offer.ValidFor)
		unlocked = append(unlocked, c)
	}
	if len(unlocked) == 0 {
		return unlocked, nil
	}
	if err := saveList(ctx, s.store, owner, store.KeyCoupons, append(owned, unlocked...)); err != nil {
		return nil, err
	}
	return unlocked, nil
}

// Redeem marks an owned coupon redeemed. It fails when the coupon was redeemed before or has expired.
func (s *CouponService) Redeem(ctx context.Context, owner, id string) (*models.Coupon, error) {
	unlock := s.locks.Lock(owner)
	defer unlock()

	owned, err := loadList[models.Coupon](ctx, s.store, owner, store.KeyCoupons)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range owned {
		c := &owned[i]
		if c.ID != id {
			continue
		}
		if c.Redeemed {
			return nil, ErrAlreadyRedeemed
		}
		if now.After(c.ExpiresAt) {
			return nil, ErrExpired
		}
		c.Redeemed = true
		c.RedeemedAt = &now
		if err := saveList(ctx, s.store, owner, store.KeyCoupons, owned); err != nil {
			return nil, err
		}
		s.metrics.ObserveRedeem(c.ID)
		return c, nil
	}
	return nil, fmt.Errorf("%w: coupon %q", ErrNotFound, id)
}

// List returns usable coupons soonest expiry first, redeemed coupons latest first and
// the catalog coupons still out of reach.
func (s *CouponService) List(ctx context.Context, owner string) (*CouponList, error) {
	p, err := s.game.GetProgress(ctx, owner)
	if err != nil {
		return nil, err
	}
	owned, err := loadList[models.Coupon](ctx, s.store, owner, store.KeyCoupons)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &CouponList{Available: []models.Coupon{}, Redeemed: []models.Coupon{}, Locked: []Eligibility{}}
	have := make(map[string]bool, len(owned))
	for _, c := range owned {
		have[c.ID] = true
		switch {
		case c.Redeemed:
			out.Redeemed = append(out.Redeemed, c)
		case now.Before(c.ExpiresAt):
			out.Available = append(out.Available, c)
		}
	}
	sort.SliceStable(out.Available, func(i, j int) bool {
		return out.Available[i].ExpiresAt.Before(out.Available[j].ExpiresAt)
	})
	sort.SliceStable(out.Redeemed, func(i, j int) bool {
		a, b := out.Redeemed[i].RedeemedAt, out.Redeemed[j].RedeemedAt
		return a != nil && (b == nil || a.After(*b))
	})

	for _, offer := range s.catalog {
		if have[offer.ID] {
			continue
		}
		ok, reason := CheckEligibility(offer.Coupon, p)
		out.Locked = append(out.Locked, Eligibility{CouponID: offer.ID, Title: offer.Title, Eligible: ok, Reason: reason})
	}
	return out, nil
}
