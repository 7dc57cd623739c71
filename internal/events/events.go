// Package events publishes storefront domain events (subscriptions, orders,
// cart activity) to Kafka, or to the log when no broker is configured.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	applog "shopfront/internal/log"
)

const (
	NewsletterSubscribed = "newsletter.subscribed"
	OrderPlaced          = "order.placed"
	OrderStatusChanged   = "order.status_changed"
	CartItemAdded        = "cart.item_added"
	WishlistToggled      = "wishlist.toggled"
)

type Event struct {
	Type    string         `json:"type"`
	StoreID string         `json:"store_id"`
	At      time.Time      `json:"at"`
	Data    map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Writer is the subset of *kafka.Writer used here.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka keys messages by store so one store's events stay ordered.
type Kafka struct {
	w Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return NewKafkaWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			applog.Error(nil, "events.kafka", fmt.Errorf(msg, args...), nil)
		}),
	})
}

func NewKafkaWriter(w Writer) *Kafka { return &Kafka{w: w} }

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", e.Type, err)
	}
	msg := kafka.Message{
		Key:     []byte(e.StoreID),
		Value:   b,
		Headers: []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish %s: %w", e.Type, err)
	}
	return nil
}

func (k *Kafka) Close() error { return k.w.Close() }

// Log writes events as info entries.
type Log struct{}

func (Log) Publish(_ context.Context, e Event) error {
	applog.Info(nil, "event."+e.Type, map[string]any{"store_id": e.StoreID, "data": e.Data})
	return nil
}

func (Log) Close() error { return nil }

// New returns a Kafka publisher for a comma separated broker list, or Log.
func New(brokers, topic string) Publisher {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	if len(list) == 0 {
		return Log{}
	}
	return NewKafka(list, topic)
}
