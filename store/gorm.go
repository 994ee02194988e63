package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yunlin/oldtown/models"
)

// GormStore keeps documents in the documents table, one row per (owner, key).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the documents table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, owner, key string) ([]byte, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).Where("owner = ? AND doc_key = ?", owner, key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Body, nil
}

func (s *GormStore) Put(ctx context.Context, owner, key string, body []byte) error {
	now := time.Now()
	doc := models.Document{Owner: owner, Key: key, Body: body, CreatedAt: now, UpdatedAt: now}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "doc_key"}},
		DoUpdates: clause.Assignments(map[string]any{"body": body, "updated_at": now}),
	}).Create(&doc).Error
}

func (s *GormStore) Delete(ctx context.Context, owner, key string) error {
	return s.db.WithContext(ctx).Where("owner = ? AND doc_key = ?", owner, key).Delete(&models.Document{}).Error
}
