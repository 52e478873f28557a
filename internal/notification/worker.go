package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"condo-maintain-backend/internal/model"
)

// AlertSender defines the interface for sending a web push notification.
type AlertSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of AlertSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers delivering anomaly alerts to the
// subscriptions attached to an equipment's condominium.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  AlertSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
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

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Alert worker %d started", id)
	for {
		select {
		case equipmentID := <-wp.jobs:
			log.Printf("Alert worker %d processing equipment %d", id, equipmentID)
			wp.sendAlertsForEquipment(ctx, equipmentID)
		case <-ctx.Done():
			log.Printf("Alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(equipmentID int64) {
	wp.jobs <- equipmentID
}

// sendAlertsForEquipment fetches the subscriptions of the equipment's
// condominium and sends an alert to each.
func (wp *WorkerPool) sendAlertsForEquipment(ctx context.Context, equipmentID int64) {
	var equipment model.Equipment
	if err := wp.db.WithContext(ctx).First(&equipment, equipmentID).Error; err != nil {
		log.Printf("Error fetching equipment %d: %v", equipmentID, err)
		return
	}

	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_condominium_mapping scm ON scm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("scm.condominium_id = ?", equipment.CondominiumID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for condominium %d: %v", equipment.CondominiumID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d alerts for equipment %d", len(subscriptions), equipmentID)

	message := fmt.Sprintf("Anomalia detectada: equipamento %s em estado crítico!", equipment.Name)
	for _, sub := range subscriptions {
		wp.sendAlert(ctx, sub, []byte(message))
	}
}

// sendAlert sends a single web push notification.
func (wp *WorkerPool) sendAlert(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending alert to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
