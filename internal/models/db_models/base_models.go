package db_models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileRecord is one named key-value row; the user profile lives in a single record.
type ProfileRecord struct {
	Key       string `gorm:"primaryKey;size:64"`
	Blob      []byte `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (ProfileRecord) TableName() string { return "profile_records" }

// Hooks to manage int64 timestamps
func (r *ProfileRecord) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Unix()
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	return nil
}

func (r *ProfileRecord) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = time.Now().Unix()
	return nil
}
