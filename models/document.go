package models

import "time"

// Document is one persisted JSON blob, addressed by player and concern key.
type Document struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Owner     string    `gorm:"index:idx_doc_owner_key,unique;size:64;not null" json:"owner"`
	Key       string    `gorm:"column:doc_key;index:idx_doc_owner_key,unique;size:32;not null" json:"key"`
	Body      []byte    `gorm:"type:longblob;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
