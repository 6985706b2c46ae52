package model

import "time"

// ConnectionEvent is an audit record of a terminal connection change.
type ConnectionEvent struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Kind       string    `gorm:"size:32;index;not null" json:"kind"`
	ProviderID string    `gorm:"size:64;index" json:"providerId"`
	Name       string    `gorm:"size:128" json:"name"`
	Error      string    `gorm:"size:512" json:"error,omitempty"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurredAt"`
}
