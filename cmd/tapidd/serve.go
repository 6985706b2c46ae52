package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"

	"tapid-connect/config"
	"tapid-connect/internal/api"
	"tapid-connect/internal/connect"
	"tapid-connect/internal/db"
	"tapid-connect/internal/fixture"
	"tapid-connect/internal/format"
	"tapid-connect/internal/notification"
	"tapid-connect/internal/oauth"
	"tapid-connect/internal/store"
	"tapid-connect/internal/syncer"
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

// eventQueueSize bounds the connection events waiting to be written.
const eventQueueSize = 64

// connectOptions maps the config onto connect store options.
func connectOptions(cfg *config.Config, events connect.EventSink) connect.Options {
	opts := connect.DefaultOptions()
	opts.StorageKey = cfg.Connect.StorageKey
	opts.ConnectTimeout = cfg.Connect.ConnectTimeout
	opts.Ticks = cfg.Connect.ConnectTicks
	opts.RefreshDelay = cfg.Connect.RefreshDelay
	opts.SingleTerminal = *cfg.Connect.SingleTerminal
	opts.Formatter = format.New(cfg.Connect.Locale, cfg.Connect.Currency)
	opts.Events = events
	return opts
}

func serve(cfg *config.Config) error {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Println("database initialized successfully")
	appStore := store.NewGormStore(gormDB)

	data, err := fixture.Load(cfg.Connect.FixturePath)
	if err != nil {
		return fmt.Errorf("failed to load connect data: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	responses := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)
	recorder := store.NewRecorder(appStore, eventQueueSize, 5*time.Second)
	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		recorder.Run(ctx)
	}()
	sinks := connect.Sinks{
		recorder,
		connect.SinkFunc(func(connect.Event) { responses.Flush() }),
	}

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		workerPool.Start(ctx)
		sinks = append(sinks, workerPool)
	} else {
		logger.Println("VAPID keys are not configured; push notifications are disabled")
	}

	connectStore := connect.New(ctx, data, appStore, connectOptions(cfg, sinks))
	logger.Printf("connect store ready with %d connected terminal(s)", len(connectStore.ConnectedTerminals()))

	if cfg.Connect.WatchFixture && cfg.Connect.FixturePath != "" {
		go func() {
			err := fixture.Watch(ctx, cfg.Connect.FixturePath, func(d *fixture.ConnectData) {
				connectStore.ReplaceData(d)
				responses.Flush()
				logger.Printf("connect data reloaded from %s", cfg.Connect.FixturePath)
			})
			if err != nil {
				logger.Printf("fixture watcher stopped: %v", err)
			}
		}()
	}

	go syncer.NewService(cfg.Connect.SyncInterval, connectStore).Run(ctx)

	handler := api.NewHandler(ctx, connectStore, appStore, webpushOptions, oauth.NewService(cfg.OAuth))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server, responses),
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	// Abandon connection sequences still in flight.
	cancel()
	handler.Wait()
	<-recorderDone

	logger.Println("Server gracefully stopped")
	return nil
}
