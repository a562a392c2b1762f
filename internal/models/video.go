package models

import (
	"time"
)

// VideoStatus represents the processing lifecycle of a video asset
type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
)

// VideoAsset represents an uploaded video and its processing state.
// The record is created by the upstream draft step; the ingestion pipeline is
// its only writer afterwards.
type VideoAsset struct {
	ID      string `gorm:"primaryKey;size:128" json:"id"`
	OwnerID string `gorm:"size:128;not null;index" json:"owner_id"`
	Title   string `gorm:"size:255" json:"title"`
	Privacy string `gorm:"size:20;default:public" json:"privacy"` // public, unlisted, private

	Status      VideoStatus `gorm:"size:20;not null;default:processing;index" json:"status"`
	Error       string      `gorm:"type:text" json:"error,omitempty"`
	ErrorCode   string      `gorm:"size:50" json:"error_code,omitempty"`
	LastErrorAt *time.Time  `json:"last_error_at,omitempty"`

	// Raw upload location, kept until transcoding succeeds or fails terminally
	RawPath   string `gorm:"size:500" json:"raw_path"`
	RawBucket string `gorm:"size:255" json:"raw_bucket"`

	// Transcoder output
	HLSURL          string     `gorm:"size:500" json:"hls_url"`
	ThumbnailURL    string     `gorm:"size:500" json:"thumbnail_url"`
	DurationSeconds float64    `json:"duration_seconds"`
	AssetProviderID string     `gorm:"size:255" json:"asset_provider_id"`
	DeliveryMode    string     `gorm:"size:20;default:hls" json:"delivery_mode"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`

	ProcessingDurationMs int64 `json:"processing_duration_ms"`

	// Transcode attempts consumed so far, persisted so the budget holds even
	// if the platform kills and re-runs an invocation mid-pipeline
	Attempts int `gorm:"default:0" json:"attempts"`

	// Denormalized engagement counters
	LikeCount    int64 `gorm:"default:0" json:"like_count"`
	CommentCount int64 `gorm:"default:0" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VideoAsset) TableName() string {
	return "video_assets"
}

// IsTerminal reports whether the asset has reached a final state
func (v *VideoAsset) IsTerminal() bool {
	return v.Status == VideoStatusReady || v.Status == VideoStatusFailed
}
