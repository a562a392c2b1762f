package models

import (
	"time"
)

// AlertType classifies admin alerts
type AlertType string

const (
	AlertRateLimitViolation AlertType = "rate_limit_violation"
)

// AlertRecord is an append-only document consumed by the external admin
// surface. The core only writes these.
type AlertRecord struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Type       AlertType `gorm:"size:50;not null;index" json:"type"`
	Severity   string    `gorm:"size:20;default:warning" json:"severity"`
	UserID     string    `gorm:"size:128;index" json:"user_id"`
	ResourceID string    `gorm:"size:128" json:"resource_id"`
	Action     string    `gorm:"size:50" json:"action"`
	Message    string    `gorm:"size:500" json:"message"`
	RetryAfter int       `json:"retry_after"` // seconds until the quota window resets
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (AlertRecord) TableName() string {
	return "alert_records"
}

// NotificationLog records a fan-out handoff to the notification collaborator
type NotificationLog struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	OwnerID   string    `gorm:"size:128;index" json:"owner_id"`
	AssetID   string    `gorm:"size:128" json:"asset_id"`
	Status    string    `gorm:"size:20" json:"status"` // ready, failed
	Title     string    `gorm:"size:255" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
