package rollback

import (
	"context"
	"fmt"

	"github.com/Reainz/Snapflow-sub000/internal/models"
	"gorm.io/gorm"
)

// GormArtifactStore deletes artifacts and reverses denormalized counters in
// one transaction. The decrement only runs when the delete removed a row, so
// a redelivered event cannot double-decrement.
type GormArtifactStore struct {
	db *gorm.DB
}

func NewGormArtifactStore(db *gorm.DB) *GormArtifactStore {
	return &GormArtifactStore{db: db}
}

func (s *GormArtifactStore) DeleteWithCounter(ctx context.Context, evt ArtifactEvent) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res *gorm.DB
		var decrement func() error

		switch evt.Kind {
		case KindLike:
			res = tx.Where("id = ?", evt.ArtifactID).Delete(&models.Like{})
			decrement = func() error {
				return tx.Model(&models.VideoAsset{}).
					Where("id = ? AND like_count > 0", evt.ParentID).
					UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
			}
		case KindComment:
			res = tx.Where("id = ?", evt.ArtifactID).Delete(&models.Comment{})
			decrement = func() error {
				return tx.Model(&models.VideoAsset{}).
					Where("id = ? AND comment_count > 0", evt.ParentID).
					UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
			}
		case KindFollow:
			res = tx.Where("id = ?", evt.ArtifactID).Delete(&models.Follow{})
			decrement = func() error {
				return tx.Model(&models.Profile{}).
					Where("user_id = ? AND follower_count > 0", evt.ParentID).
					UpdateColumn("follower_count", gorm.Expr("follower_count - 1")).Error
			}
		default:
			return fmt.Errorf("unknown artifact kind %q", evt.Kind)
		}

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already gone: leave the counter alone
			return nil
		}
		deleted = true

		return decrement()
	})
	return deleted, err
}
