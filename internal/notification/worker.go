package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"tapid-connect/internal/connect"
	"tapid-connect/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Message is the JSON payload delivered to the service worker.
type Message struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ProviderID string `json:"providerId"`
	Kind       string `json:"kind"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan connect.Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan connect.Event, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			log.Printf("Worker %d processing %s event for %s", id, ev.Kind, ev.ProviderID)
			wp.broadcast(ctx, ev)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Publish implements connect.EventSink. Only connection changes are
// queued, and an event is dropped rather than stalling the store when
// the queue is full.
func (wp *WorkerPool) Publish(ev connect.Event) {
	if ev.Kind != connect.EventConnected && ev.Kind != connect.EventDisconnected {
		return
	}
	select {
	case wp.jobs <- ev:
	default:
		log.Printf("Notification queue full; dropping %s event for %s", ev.Kind, ev.ProviderID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan connect.Event {
	return wp.jobs
}

// NewMessage builds the push payload for a connection event.
func NewMessage(ev connect.Event) Message {
	name := ev.Name
	if name == "" {
		name = ev.ProviderID
	}
	msg := Message{ProviderID: ev.ProviderID, Kind: string(ev.Kind)}
	switch ev.Kind {
	case connect.EventConnected:
		msg.Title = "Terminal connected"
		msg.Body = fmt.Sprintf("%s is now linked. Analytics are available.", name)
	case connect.EventDisconnected:
		msg.Title = "Terminal disconnected"
		msg.Body = fmt.Sprintf("%s has been unlinked.", name)
	default:
		msg.Title = "Terminal update"
		msg.Body = fmt.Sprintf("%s: %s", name, ev.Kind)
	}
	return msg
}

func (wp *WorkerPool) broadcast(ctx context.Context, ev connect.Event) {
	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for %s: %v", ev.ProviderID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(NewMessage(ev))
	if err != nil {
		log.Printf("Error encoding notification for %s: %v", ev.ProviderID, err)
		return
	}

	log.Printf("Sending %d notifications for %s", len(subscriptions), ev.ProviderID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
