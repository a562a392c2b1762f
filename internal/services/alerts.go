package services

import (
	"context"
	"log"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertService appends alert records for the external admin surface
type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// RateLimitViolation records one quota denial. Alert writes are best-effort:
// a failed insert is logged and never propagates into the caller's path.
func (s *AlertService) RateLimitViolation(ctx context.Context, userID, resourceID, action string, retryAfter int) {
	alert := models.AlertRecord{
		ID:         uuid.New().String(),
		Type:       models.AlertRateLimitViolation,
		Severity:   "warning",
		UserID:     userID,
		ResourceID: resourceID,
		Action:     action,
		Message:    "Rate limit exceeded for action " + action,
		RetryAfter: retryAfter,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		log.Printf("Alerts: failed to record rate limit violation for user=%s: %v", userID, err)
	}
}
