package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"

	"tapid-connect/internal/connect"
	"tapid-connect/internal/oauth"
	"tapid-connect/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	connect *connect.Store
	store   store.Store
	webpush *webpush.Options
	oauth   *oauth.Service

	// ctx bounds connection attempts that outlive their request.
	ctx context.Context
	wg  sync.WaitGroup
}

// NewHandler creates a new API handler. The store, webpush and oauth
// dependencies may be nil; the routes needing them then answer 503.
func NewHandler(ctx context.Context, cs *connect.Store, s store.Store, webpushOptions *webpush.Options, oauthService *oauth.Service) *Handler {
	return &Handler{
		connect: cs,
		store:   s,
		webpush: webpushOptions,
		oauth:   oauthService,
		ctx:     ctx,
	}
}

// Wait blocks until every background connection attempt has returned.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// connectInBackground reserves the connection slot for providerID and
// runs the sequence on the handler context. The slot is held before it
// returns, so a second caller sees ErrConnectInProgress.
func (h *Handler) connectInBackground(providerID string) error {
	run, err := h.connect.Start(providerID)
	if err != nil {
		return err
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		run(h.ctx)
	}()
	return nil
}

// connectErrorStatus maps a connection failure to an HTTP status.
func connectErrorStatus(err error) int {
	switch {
	case errors.Is(err, connect.ErrTerminalNotFound):
		return http.StatusNotFound
	case errors.Is(err, connect.ErrConnectInProgress), errors.Is(err, connect.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
