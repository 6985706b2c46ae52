package model

import "time"

// StorageEntry is a key/value record mirroring what the dashboard kept in
// browser local storage.
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
