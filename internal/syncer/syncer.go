package syncer

import (
	"context"
	"errors"
	"log"
	"time"

	"tapid-connect/internal/connect"
)

// Refresher is the part of the connect store the sync loop drives.
type Refresher interface {
	Refresh(ctx context.Context) error
	ConnectedTerminals() []connect.Terminal
}

// Service periodically refreshes the analytics of connected terminals.
type Service struct {
	interval time.Duration
	store    Refresher
}

// NewService creates a sync service. A non-positive interval disables it.
func NewService(interval time.Duration, store Refresher) *Service {
	return &Service{interval: interval, store: store}
}

// Run starts the sync loop and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if s.interval <= 0 {
		log.Println("Terminal sync is disabled. Not starting.")
		return
	}
	log.Printf("Starting terminal sync every %s...", s.interval)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Terminal sync shutting down.")
			return
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SyncOnce refreshes once when at least one terminal is connected. It
// reports whether a refresh completed.
func (s *Service) SyncOnce(ctx context.Context) bool {
	terminals := s.store.ConnectedTerminals()
	if len(terminals) == 0 {
		return false
	}

	log.Printf("Syncing %d connected terminal(s)...", len(terminals))
	if err := s.store.Refresh(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("Error refreshing terminal data: %v", err)
		}
		return false
	}
	log.Println("Sync cycle finished.")
	return true
}
