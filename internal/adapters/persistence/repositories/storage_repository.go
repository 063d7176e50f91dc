package repositories

import (
	"context"
	"errors"
	"time"

	"tienda-console/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storageRepository implements KeyValueStore on the kv_entries table
type storageRepository struct {
	db *gorm.DB
}

// NewStorageRepository creates a MySQL backed key/value store
func NewStorageRepository(db *gorm.DB) SweepingStore {
	return &storageRepository{db: db}
}

// Get gets a value by key
func (r *storageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.StorageEntry
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// GetMany gets several keys with one query so the result is a consistent snapshot
func (r *storageRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var entries []models.StorageEntry
	if err := r.db.WithContext(ctx).Where("`key` IN ?", keys).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Set upserts a value
func (r *storageRepository) Set(ctx context.Context, key, value string) error {
	return r.upsert(r.db.WithContext(ctx), []models.StorageEntry{{Key: key, Value: value}})
}

// SetMany upserts all values inside one transaction
func (r *storageRepository) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	entries := make([]models.StorageEntry, 0, len(values))
	for k, v := range values {
		entries = append(entries, models.StorageEntry{Key: k, Value: v})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.upsert(tx, entries)
	})
}

func (r *storageRepository) upsert(db *gorm.DB, entries []models.StorageEntry) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entries).Error
}

// Remove deletes keys
func (r *storageRepository) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("`key` IN ?", keys).
		Delete(&models.StorageEntry{}).Error
}

// Ping checks the database connection
func (r *storageRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DeleteOlderThan deletes idle entries under prefix (cleanup job)
func (r *storageRepository) DeleteOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("`key` LIKE ?", prefix+"%").
		Where("updated_at < ?", cutoff).
		Delete(&models.StorageEntry{})
	return res.RowsAffected, res.Error
}
