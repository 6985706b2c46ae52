package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tapid-connect/internal/connect"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func response(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func subscriptionRows(endpoints ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"})
	for _, e := range endpoints {
		rows.AddRow(e, "test_p256dh", "test_auth", time.Now())
	}
	return rows
}

const selectSubscriptions = `SELECT \* FROM "push_subscriptions"`

func TestWorkerPool_Publish(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.Publish(connect.Event{Kind: connect.EventRefreshed})
	wp.Publish(connect.Event{Kind: connect.EventConnectFailed, ProviderID: "clover"})
	assert.Empty(t, wp.Jobs(), "only connection changes are queued")

	wp.Publish(connect.Event{Kind: connect.EventConnected, ProviderID: "sumup"})
	wp.Publish(connect.Event{Kind: connect.EventDisconnected, ProviderID: "sumup"})
	require.Len(t, wp.Jobs(), 1, "a full queue drops instead of blocking")
	assert.Equal(t, connect.EventConnected, (<-wp.Jobs()).Kind)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(connect.Event{Kind: connect.EventConnected, ProviderID: "sumup", Name: "SumUp"})
	assert.Equal(t, "Terminal connected", msg.Title)
	assert.Contains(t, msg.Body, "SumUp is now linked")

	msg = NewMessage(connect.Event{Kind: connect.EventDisconnected, ProviderID: "square"})
	assert.Equal(t, "Terminal disconnected", msg.Title)
	assert.Equal(t, "square has been unlinked.", msg.Body)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sent := make(chan string, 4)
	var gotPayload []byte
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			gotPayload = payload
			sent <- sub.Endpoint
			if sub.Endpoint == "https://example.com/expired" {
				return response(http.StatusGone), nil
			}
			return response(http.StatusCreated), nil
		},
	}
	wp.Start(ctx)

	t.Run("sends notification to every subscription", func(t *testing.T) {
		mock.ExpectQuery(selectSubscriptions).
			WillReturnRows(subscriptionRows("https://example.com/a", "https://example.com/b"))

		wp.Publish(connect.Event{Kind: connect.EventConnected, ProviderID: "sumup", Name: "SumUp"})
		assert.Equal(t, "https://example.com/a", <-sent)
		assert.Equal(t, "https://example.com/b", <-sent)

		var msg Message
		require.NoError(t, json.Unmarshal(gotPayload, &msg))
		assert.Equal(t, "sumup", msg.ProviderID)
		assert.Equal(t, "connected", msg.Kind)
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		mock.ExpectQuery(selectSubscriptions).
			WillReturnRows(subscriptionRows("https://example.com/expired"))
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		// A second job on the single worker runs only after the delete.
		mock.ExpectQuery(selectSubscriptions).
			WillReturnRows(subscriptionRows("https://example.com/a"))

		wp.Publish(connect.Event{Kind: connect.EventDisconnected, ProviderID: "sumup"})
		assert.Equal(t, "https://example.com/expired", <-sent)
		// The worker has taken the first job, so the queue has room.
		wp.Publish(connect.Event{Kind: connect.EventConnected, ProviderID: "square"})
		assert.Equal(t, "https://example.com/a", <-sent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
