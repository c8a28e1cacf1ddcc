package repositories

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripcraft/internal/models/db_models"
)

// ProfileRepository stores named blobs. Get returns nil, nil for a missing key.
type ProfileRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

func (p *profileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var record db_models.ProfileRecord
	err := p.db.WithContext(ctx).First(&record, "key = ?", key).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return record.Blob, nil
}

func (p *profileRepository) Put(ctx context.Context, key string, blob []byte) error {
	record := db_models.ProfileRecord{Key: key, Blob: blob}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&record).Error
}

func (p *profileRepository) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Delete(&db_models.ProfileRecord{}, "key = ?", key).Error
}

type inMemoryProfileRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryProfileRepository is used when no database is configured.
func NewInMemoryProfileRepository() ProfileRepository {
	return &inMemoryProfileRepository{data: make(map[string][]byte)}
}

func (r *inMemoryProfileRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (r *inMemoryProfileRepository) Put(_ context.Context, key string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), blob...)
	return nil
}

func (r *inMemoryProfileRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
