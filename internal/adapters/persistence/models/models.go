package models

import (
	"time"

	"gorm.io/gorm"
)

// StorageEntry represents kv_entries table.
// It backs browser sessions and the store configuration when STORAGE_DRIVER=mysql.
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:mediumtext;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "kv_entries"
}

// AutoMigrate creates the tables used by the console
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&StorageEntry{})
}
