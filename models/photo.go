package models

import "time"

type PhotoFilter string

const (
	FilterNone      PhotoFilter = "none"
	FilterRetro     PhotoFilter = "retro"
	FilterNeon      PhotoFilter = "neon"
	FilterVintage   PhotoFilter = "vintage"
	FilterCyberpunk PhotoFilter = "cyberpunk"
	FilterVaporwave PhotoFilter = "vaporwave"
)

// ParsePhotoFilter maps an empty value to FilterNone and rejects unknown names.
func ParsePhotoFilter(raw string) (PhotoFilter, bool) {
	switch f := PhotoFilter(raw); f {
	case "":
		return FilterNone, true
	case FilterNone, FilterRetro, FilterNeon, FilterVintage, FilterCyberpunk, FilterVaporwave:
		return f, true
	}
	return "", false
}

// Photo is one entry of a player's photo wall. The image itself lives in object storage.
type Photo struct {
	ID           string      `json:"id"`
	LocationID   string      `json:"location_id"`
	LocationName string      `json:"location_name"`
	Category     Category    `json:"category"`
	ImageKey     string      `json:"image_key,omitempty"`
	ImageURL     string      `json:"image_url"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	Caption      string      `json:"caption,omitempty"`
	Username     string      `json:"username"`
	Level        int         `json:"level"`
	Timestamp    time.Time   `json:"timestamp"`
	Likes        int         `json:"likes"`
	Filter       PhotoFilter `json:"filter"`
}
