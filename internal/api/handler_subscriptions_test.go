package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tapid-connect/internal/store"
)

func newMockStore(t *testing.T) (store.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return store.NewGormStore(gormDB), mock
}

func setupSubscriptionRouter(s store.Store, opts *webpush.Options) *gin.Engine {
	r := gin.New()
	handler := NewHandler(context.Background(), nil, s, opts, nil)
	r.GET("/api/subscriptions", handler.GetSubscription)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	r.GET("/api/vapid_public_key", handler.GetVAPIDPublicKey)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPutSubscription(t *testing.T) {
	t.Run("rejects a missing body", func(t *testing.T) {
		router := setupSubscriptionRouter(nil, nil)
		w := doRequest(router, http.MethodPut, "/api/subscriptions", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
	})

	t.Run("upserts the subscription", func(t *testing.T) {
		s, mock := newMockStore(t)
		router := setupSubscriptionRouter(s, nil)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "push_subscriptions"`) + `.*ON CONFLICT \("endpoint"\) DO UPDATE`).
			WithArgs("https://push.example/abc", "key", "secret", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		w := doRequest(router, http.MethodPut, "/api/subscriptions",
			`{"endpoint":"https://push.example/abc","p256dh":"key","auth":"secret"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetSubscription(t *testing.T) {
	selectSub := regexp.QuoteMeta(`SELECT * FROM "push_subscriptions" WHERE endpoint = $1`)

	t.Run("requires an endpoint", func(t *testing.T) {
		router := setupSubscriptionRouter(nil, nil)
		w := doRequest(router, http.MethodGet, "/api/subscriptions", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("keeps the endpoint escaped", func(t *testing.T) {
		s, mock := newMockStore(t)
		router := setupSubscriptionRouter(s, nil)

		created := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery(selectSub).
			WithArgs("https%3A%2F%2Fpush.example%2Fabc", 1).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https%3A%2F%2Fpush.example%2Fabc", "key", "secret", created))

		w := doRequest(router, http.MethodGet, "/api/subscriptions?endpoint=https%3A%2F%2Fpush.example%2Fabc", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"endpoint":"https%3A%2F%2Fpush.example%2Fabc","created_at":"2026-03-06T09:00:00Z"}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		s, mock := newMockStore(t)
		router := setupSubscriptionRouter(s, nil)

		mock.ExpectQuery(selectSub).
			WithArgs("missing", 1).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}))

		w := doRequest(router, http.MethodGet, "/api/subscriptions?endpoint=missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteSubscription(t *testing.T) {
	s, mock := newMockStore(t)
	router := setupSubscriptionRouter(s, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = $1`)).
		WithArgs("https://push.example/abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doRequest(router, http.MethodDelete, "/api/subscriptions", `{"endpoint":"https://push.example/abc"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVAPIDPublicKey(t *testing.T) {
	w := doRequest(setupSubscriptionRouter(nil, nil), http.MethodGet, "/api/vapid_public_key", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(setupSubscriptionRouter(nil, &webpush.Options{VAPIDPublicKey: "BPub"}), http.MethodGet, "/api/vapid_public_key", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"BPub"}`, w.Body.String())
}
