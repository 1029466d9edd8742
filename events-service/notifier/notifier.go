package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/model"
)

// Publisher sends workflow notifications to interested services
type Publisher interface {
	Publish(ctx context.Context, notification model.NotificationRequest) error
}

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// NewKafkaWriter builds the writer for the notification topic
func NewKafkaWriter(cfg *config.Kafka) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.NotificationTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
}

// Publish keys the message by event id so notifications for one event stay ordered
func (p *KafkaPublisher) Publish(ctx context.Context, notification model.NotificationRequest) error {
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now()
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(notification.EventID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(notification.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", notification.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards notifications
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.NotificationRequest) error { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NopPublisher{}
)
