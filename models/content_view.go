package models

import "time"

// ContentView stores aggregated item view counts per day.
type ContentView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index:idx_cv_date_item,unique;type:date;not null" json:"date"`
	Category  string    `gorm:"index:idx_cv_date_item,unique;size:32;not null" json:"category"`
	ItemID    string    `gorm:"index;index:idx_cv_date_item,unique;size:191;not null" json:"item_id"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
