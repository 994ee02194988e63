package models

import "time"

// Coupon is a discount copied into a player's collection once its eligibility predicates hold.
type Coupon struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Discount         string     `json:"discount"`
	LocationID       string     `json:"location_id,omitempty"`
	LocationName     string     `json:"location_name,omitempty"`
	Category         Category   `json:"category,omitempty"`
	RequiredLevel    int        `json:"required_level"`
	RequiredBadges   []string   `json:"required_badges,omitempty"`
	RequiredCheckIns int        `json:"required_check_ins,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	Redeemed         bool       `json:"redeemed"`
	RedeemedAt       *time.Time `json:"redeemed_at,omitempty"`
	Code             string     `json:"code"`
}
