package connect

import (
	"time"

	"tapid-connect/internal/analytics"
	"tapid-connect/internal/fixture"
)

// ConnectedTerminals returns a copy of the connected terminal list.
func (s *Store) ConnectedTerminals() []Terminal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Terminal{}, s.terminals...)
}

// ConnectionStatus returns the per-provider connection states.
func (s *Store) ConnectionStatus() map[string]ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusesLocked()
}

// State returns the connection state of one provider. Providers never
// touched report disconnected.
func (s *Store) State(providerID string) ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[providerID]; ok {
		return st
	}
	return ConnectionState{Status: StatusDisconnected}
}

func (s *Store) ShowAnalytics() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showAnalytics
}

// Analytics returns the current bundle, or nil when analytics are hidden.
// The bundle is replaced, never mutated, so callers may read it freely.
func (s *Store) Analytics() *analytics.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

func (s *Store) SelectedDay() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDay
}

func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Loading reports whether a refresh is in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshing > 0
}

// Connecting returns the provider currently being connected, if any.
func (s *Store) Connecting() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connecting
}

// Err returns the last recorded error message, empty when none.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Terminals lists every provider merged with its connection state.
func (s *Store) Terminals() []analytics.TerminalView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	connected := make(map[string]bool, len(s.terminals))
	for _, t := range s.terminals {
		connected[t.ID] = true
	}
	statuses := make(map[string]string, len(s.states))
	for id, st := range s.states {
		statuses[id] = string(st.Status)
	}
	return analytics.TransformTerminals(s.data, connected, statuses)
}

// HourlyForDay returns the hourly series of a weekday, falling back to
// Monday for unknown names.
func (s *Store) HourlyForDay(day string) []fixture.HourlyPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.HourlyForDay(s.data, day)
}
