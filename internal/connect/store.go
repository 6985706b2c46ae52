package connect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tapid-connect/internal/analytics"
	"tapid-connect/internal/fixture"
	"tapid-connect/internal/format"
)

// Options tunes the store.
type Options struct {
	StorageKey     string
	ConnectTimeout time.Duration
	Ticks          int
	RefreshDelay   time.Duration
	SingleTerminal bool
	Formatter      *format.Formatter
	Events         EventSink
	Now            func() time.Time
}

// DefaultOptions returns the dashboard defaults: a 3 s connect animation
// in 30 ticks, a 1 s refresh and one terminal at a time.
func DefaultOptions() Options {
	return Options{
		StorageKey:     "connectedTerminals",
		ConnectTimeout: 3 * time.Second,
		Ticks:          30,
		RefreshDelay:   time.Second,
		SingleTerminal: true,
	}
}

// Store owns the connected terminals of the merchant and the analytics
// derived from the connect fixture.
type Store struct {
	opts    Options
	storage Storage

	mu            sync.RWMutex
	data          *fixture.ConnectData
	terminals     []Terminal
	states        map[string]ConnectionState
	connecting    string
	showAnalytics bool
	bundle        *analytics.Bundle
	selectedDay   string
	lastUpdated   time.Time
	refreshing    int
	lastErr       string
}

// New creates a store and rehydrates the connected terminal list from
// storage. Unreadable or malformed stored data is logged and ignored.
func New(ctx context.Context, data *fixture.ConnectData, storage Storage, opts Options) *Store {
	def := DefaultOptions()
	if opts.StorageKey == "" {
		opts.StorageKey = def.StorageKey
	}
	if opts.Ticks <= 0 {
		opts.Ticks = def.Ticks
	}
	if opts.ConnectTimeout < 0 {
		opts.ConnectTimeout = 0
	}
	if opts.Formatter == nil {
		opts.Formatter = format.New(format.DefaultLocale, format.DefaultCurrency)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	s := &Store{
		opts:        opts,
		storage:     storage,
		data:        data,
		states:      make(map[string]ConnectionState),
		selectedDay: opts.Now().Weekday().String(),
	}
	s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	raw, found, err := s.storage.GetItem(ctx, s.opts.StorageKey)
	if err != nil {
		log.Printf("Error loading connected terminals: %v", err)
		return
	}
	if !found {
		return
	}

	var terminals []Terminal
	if err := json.Unmarshal([]byte(raw), &terminals); err != nil {
		log.Printf("Error parsing stored connected terminals: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminals = terminals
	for _, t := range terminals {
		s.states[t.ID] = ConnectionState{Status: StatusConnected, Progress: 100}
	}
	s.showAnalytics = len(terminals) > 0
	s.regenerateLocked()
	log.Printf("Restored %d connected terminal(s)", len(terminals))
}

// Connect links the provider with the given id. It runs the connection
// sequence to completion unless ctx is cancelled first, in which case
// nothing is recorded and the provider returns to disconnected.
func (s *Store) Connect(ctx context.Context, providerID string) Result {
	run, err := s.Start(providerID)
	if err != nil {
		return failure(err)
	}
	return run(ctx)
}

// Start reserves the connection slot for providerID and returns the
// function that runs the sequence. When Start fails nothing is reserved
// and run is nil. A non-nil run must be called exactly once.
func (s *Store) Start(providerID string) (run func(ctx context.Context) Result, err error) {
	desc, err := s.beginConnect(providerID)
	if err != nil {
		s.publish(Event{Kind: EventConnectFailed, ProviderID: providerID, At: s.opts.Now(), Error: err.Error()})
		return nil, err
	}
	return func(ctx context.Context) Result {
		return s.runConnect(ctx, desc)
	}, nil
}

func (s *Store) runConnect(ctx context.Context, desc fixture.TerminalDescriptor) Result {
	providerID := desc.ID
	if err := s.runProgress(ctx, providerID); err != nil {
		s.mu.Lock()
		s.states[providerID] = ConnectionState{Status: StatusDisconnected}
		s.connecting = ""
		s.mu.Unlock()
		log.Printf("Connection to %s abandoned: %v", providerID, err)
		s.publish(Event{Kind: EventConnectFailed, ProviderID: providerID, Name: desc.Name, At: s.opts.Now(), Error: err.Error()})
		return failure(err)
	}

	now := s.opts.Now()
	terminal := Terminal{
		ID:          desc.ID,
		Name:        desc.Name,
		ConnectedAt: now,
		Status:      StatusConnected,
		LastSync:    now,
	}

	s.mu.Lock()
	next := append(append([]Terminal(nil), s.terminals...), terminal)
	// The sequence has finished; a late cancellation must not leave
	// storage and memory out of step.
	if err := s.persistLocked(context.WithoutCancel(ctx), next); err != nil {
		s.states[providerID] = ConnectionState{Status: StatusError}
		s.connecting = ""
		s.lastErr = err.Error()
		s.mu.Unlock()
		log.Printf("Error saving connection to %s: %v", providerID, err)
		s.publish(Event{Kind: EventConnectFailed, ProviderID: providerID, Name: desc.Name, At: now, Error: err.Error()})
		return failure(err)
	}
	s.terminals = next
	s.states[providerID] = ConnectionState{Status: StatusConnected, Progress: 100}
	s.connecting = ""
	s.showAnalytics = true
	s.regenerateLocked()
	s.mu.Unlock()

	log.Printf("Terminal %s connected", providerID)
	s.publish(Event{Kind: EventConnected, ProviderID: providerID, Name: desc.Name, At: now})
	return Result{Success: true, Terminal: &terminal}
}

func (s *Store) checkConnectLocked(providerID string) (fixture.TerminalDescriptor, error) {
	desc, ok := s.data.FindAvailable(providerID)
	if !ok {
		return desc, ErrTerminalNotFound
	}
	if s.connecting != "" {
		return desc, ErrConnectInProgress
	}
	for _, t := range s.terminals {
		if t.ID == providerID {
			return desc, ErrAlreadyConnected
		}
	}
	if s.opts.SingleTerminal && len(s.terminals) > 0 {
		return desc, ErrAlreadyConnected
	}
	return desc, nil
}

func (s *Store) beginConnect(providerID string) (fixture.TerminalDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := s.checkConnectLocked(providerID)
	if errors.Is(err, ErrTerminalNotFound) && s.data.Known(providerID) {
		s.states[providerID] = ConnectionState{Status: StatusError}
	}
	if err != nil {
		return desc, err
	}

	s.connecting = providerID
	s.states[providerID] = ConnectionState{Status: StatusConnecting, Progress: 0}
	return desc, nil
}

func (s *Store) runProgress(ctx context.Context, providerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	interval := s.opts.ConnectTimeout / time.Duration(s.opts.Ticks)
	if interval <= 0 {
		s.setProgress(providerID, 100)
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; i <= s.opts.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.setProgress(providerID, i*100/s.opts.Ticks)
		}
	}
	return nil
}

func (s *Store) setProgress(providerID string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[providerID] = ConnectionState{Status: StatusConnecting, Progress: progress}
}

// Disconnect removes the provider from the connected list. Disconnecting
// a provider that is not connected is a successful no-op.
func (s *Store) Disconnect(ctx context.Context, providerID string) Result {
	s.mu.Lock()
	next := make([]Terminal, 0, len(s.terminals))
	var removed *Terminal
	for _, t := range s.terminals {
		if t.ID == providerID {
			removed = &t
			continue
		}
		next = append(next, t)
	}

	if err := s.persistLocked(ctx, next); err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		log.Printf("Error saving disconnection of %s: %v", providerID, err)
		return failure(err)
	}

	changed := len(next) != len(s.terminals)
	s.terminals = next
	if s.data.Known(providerID) {
		s.states[providerID] = ConnectionState{Status: StatusDisconnected}
	} else {
		delete(s.states, providerID)
	}
	if len(next) == 0 {
		s.showAnalytics = false
		s.bundle = nil
	} else if changed && s.showAnalytics {
		s.regenerateLocked()
	}
	s.mu.Unlock()

	if removed != nil {
		log.Printf("Terminal %s disconnected", providerID)
		s.publish(Event{Kind: EventDisconnected, ProviderID: providerID, Name: removed.Name, At: s.opts.Now()})
	}
	return Result{Success: true, Terminal: removed}
}

// Refresh simulates a data refresh: it waits for the configured delay,
// then stamps every connected terminal as synced and regenerates the
// analytics.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshing++
	s.mu.Unlock()

	timer := time.NewTimer(s.opts.RefreshDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.mu.Lock()
		s.refreshing--
		s.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
	}

	now := s.opts.Now()
	s.mu.Lock()
	s.refreshing--
	if len(s.terminals) > 0 {
		next := append([]Terminal(nil), s.terminals...)
		for i := range next {
			next[i].LastSync = now
		}
		if err := s.persistLocked(context.WithoutCancel(ctx), next); err != nil {
			s.lastErr = err.Error()
			s.mu.Unlock()
			return err
		}
		s.terminals = next
	}
	s.regenerateLocked()
	s.lastUpdated = now
	s.mu.Unlock()

	s.publish(Event{Kind: EventRefreshed, At: now})
	return nil
}

// SelectDay changes the weekday used for the hourly activity series.
func (s *Store) SelectDay(day string) {
	s.mu.Lock()
	s.selectedDay = day
	if s.bundle != nil {
		s.regenerateLocked()
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventDaySelected, Name: day, At: s.opts.Now()})
}

// ReplaceData swaps the fixture, regenerating analytics when shown.
func (s *Store) ReplaceData(data *fixture.ConnectData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.regenerateLocked()
}

// Export deep-copies the current state for external consumption.
func (s *Store) Export() (*Snapshot, error) {
	s.mu.RLock()
	snap, err := s.snapshotLocked()
	s.mu.RUnlock()
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		log.Printf("Error exporting connect data: %v", err)
		return nil, err
	}
	return snap, nil
}

func (s *Store) snapshotLocked() (*Snapshot, error) {
	snap := &Snapshot{
		ConnectedTerminals: append([]Terminal{}, s.terminals...),
		ConnectionStatus:   s.statusesLocked(),
		SelectedDay:        s.selectedDay,
		LastUpdated:        s.lastUpdated,
		ExportedAt:         s.opts.Now(),
	}
	if s.bundle != nil {
		raw, err := json.Marshal(s.bundle)
		if err != nil {
			return nil, fmt.Errorf("failed to copy analytics: %w", err)
		}
		var copied analytics.Bundle
		if err := json.Unmarshal(raw, &copied); err != nil {
			return nil, fmt.Errorf("failed to copy analytics: %w", err)
		}
		snap.AnalyticsData = &copied
	}
	return snap, nil
}

// regenerateLocked rebuilds the analytics bundle. It clears the bundle
// when analytics are hidden or nothing is connected, and keeps the
// previous bundle when generation fails.
func (s *Store) regenerateLocked() {
	if !s.showAnalytics || len(s.terminals) == 0 {
		s.bundle = nil
		return
	}
	bundle, err := analytics.Generate(s.data, s.opts.Formatter, s.selectedDay, s.opts.Now())
	if err != nil {
		s.lastErr = err.Error()
		log.Printf("Error generating analytics: %v", err)
		return
	}
	s.bundle = bundle
	s.lastUpdated = bundle.LastUpdated
	s.lastErr = ""
}

func (s *Store) persistLocked(ctx context.Context, terminals []Terminal) error {
	if terminals == nil {
		terminals = []Terminal{}
	}
	raw, err := json.Marshal(terminals)
	if err != nil {
		return fmt.Errorf("failed to encode connected terminals: %w", err)
	}
	return s.storage.SetItem(ctx, s.opts.StorageKey, string(raw))
}

func (s *Store) statusesLocked() map[string]ConnectionState {
	out := make(map[string]ConnectionState, len(s.states))
	for id, st := range s.states {
		out[id] = st
	}
	return out
}

func (s *Store) publish(ev Event) {
	if s.opts.Events != nil {
		s.opts.Events.Publish(ev)
	}
}
