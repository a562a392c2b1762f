package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NotificationService hands finished videos to the notification fan-out:
// a log row for the delivery workers plus a Redis publish for live listeners.
// Strictly fire-and-forget; failures are logged and never block the pipeline.
type NotificationService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewNotificationService(db *gorm.DB, rdb *redis.Client) *NotificationService {
	return &NotificationService{db: db, redis: rdb}
}

type notificationPayload struct {
	OwnerID string `json:"owner_id"`
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
	Title   string `json:"title"`
}

// VideoReady notifies the owner that their video finished processing
func (n *NotificationService) VideoReady(ctx context.Context, asset *models.VideoAsset) {
	n.send(ctx, asset, string(models.VideoStatusReady))
}

// VideoFailed notifies the owner that processing failed
func (n *NotificationService) VideoFailed(ctx context.Context, asset *models.VideoAsset) {
	n.send(ctx, asset, string(models.VideoStatusFailed))
}

func (n *NotificationService) send(ctx context.Context, asset *models.VideoAsset, status string) {
	entry := models.NotificationLog{
		ID:        uuid.New().String(),
		OwnerID:   asset.OwnerID,
		AssetID:   asset.ID,
		Status:    status,
		Title:     asset.Title,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("Notifications: failed to log %s notification for asset=%s: %v", status, asset.ID, err)
	}

	payload, err := json.Marshal(notificationPayload{
		OwnerID: asset.OwnerID,
		AssetID: asset.ID,
		Status:  status,
		Title:   asset.Title,
	})
	if err != nil {
		log.Printf("Notifications: failed to encode payload for asset=%s: %v", asset.ID, err)
		return
	}
	if err := n.redis.Publish(ctx, database.NotificationsChannel, payload).Err(); err != nil {
		log.Printf("Notifications: failed to publish %s for asset=%s: %v", status, asset.ID, err)
	}
}
