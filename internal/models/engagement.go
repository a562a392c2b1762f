package models

import (
	"time"
)

// Like is written optimistically by clients; the rollback trigger validates
// quota after the fact and may delete it again.
type Like struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	VideoID   string    `gorm:"size:128;not null;index" json:"video_id"`
	UserID    string    `gorm:"size:128;not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// Comment on a video, optimistic write like Like
type Comment struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	VideoID   string    `gorm:"size:128;not null;index" json:"video_id"`
	UserID    string    `gorm:"size:128;not null;index" json:"user_id"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Follow edge in the social graph, optimistic write
type Follow struct {
	ID         string    `gorm:"primaryKey;size:128" json:"id"`
	FollowerID string    `gorm:"size:128;not null;index" json:"follower_id"`
	FolloweeID string    `gorm:"size:128;not null;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}

// Profile carries the denormalized follower counter reversed by the
// follow rollback trigger
type Profile struct {
	UserID        string    `gorm:"primaryKey;size:128" json:"user_id"`
	DisplayName   string    `gorm:"size:255" json:"display_name"`
	FollowerCount int64     `gorm:"default:0" json:"follower_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
