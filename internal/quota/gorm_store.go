package quota

import (
	"context"

	"github.com/Reainz/Snapflow-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists quota records in Postgres. Each Mutate call runs inside
// one transaction holding a row lock on the user's record, which makes the
// limiter's check-then-increment linearizable per user.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Mutate(ctx context.Context, userID string, fn func(rec *models.QuotaRecord) (bool, error)) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ensure the row exists so FOR UPDATE has something to lock even for
		// a user's very first action
		blank := models.QuotaRecord{UserID: userID, Actions: models.ActionUsageMap{}}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&blank).Error; err != nil {
			return err
		}

		var rec models.QuotaRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&rec).Error; err != nil {
			return err
		}

		commit, err := fn(&rec)
		if err != nil {
			return err
		}
		if !commit {
			// Denied: abort without writing
			return nil
		}

		return tx.Save(&rec).Error
	})
}
