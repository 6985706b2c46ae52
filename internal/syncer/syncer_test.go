package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"tapid-connect/internal/connect"
)

// mockStore is a mock implementation of the Refresher interface.
type mockStore struct {
	RefreshFunc func(ctx context.Context) error
	terminals   []connect.Terminal
	calls       atomic.Int32
}

func (m *mockStore) Refresh(ctx context.Context) error {
	m.calls.Add(1)
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return nil
}

func (m *mockStore) ConnectedTerminals() []connect.Terminal {
	return m.terminals
}

func TestSyncOnce(t *testing.T) {
	t.Run("skips when nothing is connected", func(t *testing.T) {
		m := &mockStore{}
		assert.False(t, NewService(time.Second, m).SyncOnce(context.Background()))
		assert.Zero(t, m.calls.Load())
	})

	t.Run("refreshes connected terminals", func(t *testing.T) {
		m := &mockStore{terminals: []connect.Terminal{{ID: "sumup"}}}
		assert.True(t, NewService(time.Second, m).SyncOnce(context.Background()))
		assert.Equal(t, int32(1), m.calls.Load())
	})

	t.Run("reports refresh failure", func(t *testing.T) {
		m := &mockStore{
			terminals:   []connect.Terminal{{ID: "sumup"}},
			RefreshFunc: func(context.Context) error { return errors.New("storage offline") },
		}
		assert.False(t, NewService(time.Second, m).SyncOnce(context.Background()))
	})
}

func TestRunTicksUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := &mockStore{terminals: []connect.Terminal{{ID: "sumup"}}}
	svc := NewService(10*time.Millisecond, m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRunDisabled(t *testing.T) {
	m := &mockStore{terminals: []connect.Terminal{{ID: "sumup"}}}
	NewService(0, m).Run(context.Background())
	assert.Zero(t, m.calls.Load())
}
