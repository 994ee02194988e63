package models

import "time"

// Comment is a short message left on a location.
type Comment struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	Username   string    `json:"username"`
	Level      int       `json:"level"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      int       `json:"likes"`
}
