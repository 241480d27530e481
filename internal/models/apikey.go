package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey is the stored record for an issued key. Only the SHA-256 hash of the
// secret is persisted; issuance itself happens outside this service.
type APIKey struct {
	gorm.Model
	Name          string     `json:"name"`
	KeyHash       string     `json:"-" gorm:"uniqueIndex;not null"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	RequestsCount int        `json:"requests_count" gorm:"default:0"`
	LastUsedAt    *time.Time `json:"last_used_at"`
}
