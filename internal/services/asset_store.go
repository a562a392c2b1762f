package services

import (
	"context"
	"errors"

	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/models"
	"gorm.io/gorm"
)

// AssetStore persists video assets and keeps the Redis cache coherent
type AssetStore struct {
	db *gorm.DB
}

func NewAssetStore(db *gorm.DB) *AssetStore {
	return &AssetStore{db: db}
}

// Get returns the asset or nil when no record exists
func (s *AssetStore) Get(ctx context.Context, id string) (*models.VideoAsset, error) {
	var asset models.VideoAsset
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Save upserts the asset record with merge semantics
func (s *AssetStore) Save(ctx context.Context, asset *models.VideoAsset) error {
	if err := s.db.WithContext(ctx).Save(asset).Error; err != nil {
		return err
	}
	database.InvalidateVideoCache(asset.ID)
	return nil
}
