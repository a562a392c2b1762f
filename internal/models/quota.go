package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActionUsage is the per-action sub-record inside a user's quota document.
// Bucket identifies the UTC window the count belongs to; ResetAt is the start
// of the next window in epoch milliseconds.
type ActionUsage struct {
	Count   int    `json:"count"`
	Bucket  string `json:"bucket"`
	ResetAt int64  `json:"reset_at"`
}

// ActionUsageMap maps action name -> usage, stored as a single JSONB column.
type ActionUsageMap map[string]ActionUsage

func (m ActionUsageMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *ActionUsageMap) Scan(value interface{}) error {
	if value == nil {
		*m = ActionUsageMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ActionUsageMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// QuotaRecord holds all rate-limit counters for one user. One row per user;
// every read and mutation happens inside the limiter's transaction.
type QuotaRecord struct {
	UserID    string         `gorm:"primaryKey;size:128" json:"user_id"`
	Actions   ActionUsageMap `gorm:"type:jsonb;not null;default:'{}'" json:"actions"`
	ExpiresAt time.Time      `gorm:"index" json:"expires_at"` // retention sweep deadline
	UpdatedAt time.Time      `json:"updated_at"`
}

func (QuotaRecord) TableName() string {
	return "quota_records"
}
