package connect

import (
	"context"
	"errors"
	"time"

	"tapid-connect/internal/analytics"
)

// Status is the connection lifecycle state of one provider.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
	StatusDisconnected Status = "disconnected"
)

var (
	ErrTerminalNotFound  = errors.New("terminal not found")
	ErrConnectInProgress = errors.New("another terminal connection is in progress")
	ErrAlreadyConnected  = errors.New("a terminal is already connected")
)

// Terminal is a user's link to one provider. It is the element type of
// the persisted connected terminal list.
type Terminal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ConnectedAt time.Time `json:"connectedAt"`
	Status      Status    `json:"status"`
	LastSync    time.Time `json:"lastSync"`
}

// ConnectionState is the transient state of a provider; Progress runs
// from 0 to 100 while connecting.
type ConnectionState struct {
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
}

// Result reports the outcome of a connect or disconnect.
type Result struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Terminal *Terminal `json:"terminal,omitempty"`
	Err      error     `json:"-"`
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}

// Snapshot is a point-in-time export of the store.
type Snapshot struct {
	ConnectedTerminals []Terminal                 `json:"connectedTerminals"`
	AnalyticsData      *analytics.Bundle          `json:"analyticsData"`
	ConnectionStatus   map[string]ConnectionState `json:"connectionStatus"`
	SelectedDay        string                     `json:"selectedDay"`
	LastUpdated        time.Time                  `json:"lastUpdated"`
	ExportedAt         time.Time                  `json:"exportedAt"`
}

// Storage persists string values by key, the way the dashboard used
// browser local storage.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

type EventKind string

const (
	EventConnected     EventKind = "connected"
	EventDisconnected  EventKind = "disconnected"
	EventConnectFailed EventKind = "connect_failed"
	EventRefreshed     EventKind = "refreshed"
	EventDaySelected   EventKind = "day_selected"
)

// Event describes a state change of the store.
type Event struct {
	Kind       EventKind `json:"kind"`
	ProviderID string    `json:"providerId,omitempty"`
	Name       string    `json:"name,omitempty"`
	At         time.Time `json:"at"`
	Error      string    `json:"error,omitempty"`
}

// EventSink receives store events. Publish is called without the store
// lock held and must not block for long.
type EventSink interface {
	Publish(Event)
}

// SinkFunc adapts a function to an EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(ev Event) { f(ev) }

// Sinks fans an event out to several sinks in order.
type Sinks []EventSink

func (s Sinks) Publish(ev Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(ev)
		}
	}
}
