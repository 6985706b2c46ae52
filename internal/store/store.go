package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tapid-connect/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RecordEvent(ctx context.Context, ev model.ConnectionEvent) error
	RecentEvents(ctx context.Context, limit int) ([]model.ConnectionEvent, error)
	SaveCredential(ctx context.Context, cred model.OAuthCredential) error
	Credential(ctx context.Context, provider string) (model.OAuthCredential, error)
	DeleteCredential(ctx context.Context, provider string) error
	DB() *gorm.DB
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// GetItem returns the value stored under key. The boolean is false when
// the key has never been written.
func (s *gormStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var entry model.StorageEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read storage key %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// SetItem upserts the value stored under key.
func (s *gormStore) SetItem(ctx context.Context, key, value string) error {
	entry := model.StorageEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write storage key %q: %w", key, err)
	}
	return nil
}

// RecordEvent appends to the connection event log, assigning an id and
// timestamp when missing.
func (s *gormStore) RecordEvent(ctx context.Context, ev model.ConnectionEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("failed to record %s event for %s: %w", ev.Kind, ev.ProviderID, err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (s *gormStore) RecentEvents(ctx context.Context, limit int) ([]model.ConnectionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []model.ConnectionEvent
	if err := s.db.WithContext(ctx).Order("occurred_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list connection events: %w", err)
	}
	return events, nil
}

// SaveCredential replaces the stored credential of a provider.
func (s *gormStore) SaveCredential(ctx context.Context, cred model.OAuthCredential) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"merchant_code", "merchant_name", "access_token", "refresh_token",
			"token_type", "scope", "expires_at", "updated_at",
		}),
	}).Create(&cred).Error
	if err != nil {
		return fmt.Errorf("failed to save %s credential: %w", cred.Provider, err)
	}
	return nil
}

func (s *gormStore) Credential(ctx context.Context, provider string) (model.OAuthCredential, error) {
	var cred model.OAuthCredential
	err := s.db.WithContext(ctx).Where("provider = ?", provider).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cred, ErrNotFound
	}
	if err != nil {
		return cred, fmt.Errorf("failed to read %s credential: %w", provider, err)
	}
	return cred, nil
}

// DeleteCredential drops the stored credential of a provider. Deleting a
// provider without one is not an error.
func (s *gormStore) DeleteCredential(ctx context.Context, provider string) error {
	err := s.db.WithContext(ctx).Where("provider = ?", provider).Delete(&model.OAuthCredential{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s credential: %w", provider, err)
	}
	return nil
}
