package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/arunvm123/thamco-events/internal/logger"
	"github.com/arunvm123/thamco-events/notification-service/config"
	"github.com/arunvm123/thamco-events/notification-service/model"
)

// MessageReader is the subset of *kafka.Reader the worker consumes from
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Mailer delivers a rendered e-mail
type Mailer interface {
	Send(ctx context.Context, email *model.EmailTemplate) error
}

// LogMailer writes e-mails to the log instead of sending them
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, email *model.EmailTemplate) error {
	logger.Info("Mock email sent",
		zap.String("from", email.From),
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body),
	)
	return nil
}

func NewKafkaReader(cfg *config.Kafka) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.NotificationTopic,
		GroupID: cfg.ConsumerGroup,
	})
}

type Processor struct {
	mailer    Mailer
	email     config.Email
	processed atomic.Int64
}

func NewProcessor(mailer Mailer, email config.Email) *Processor {
	return &Processor{mailer: mailer, email: email}
}

// Processed reports how many messages have been consumed
func (p *Processor) Processed() int64 {
	return p.processed.Load()
}

// Run consumes notifications until ctx is cancelled. A message that cannot be
// handled is logged and skipped.
func (p *Processor) Run(ctx context.Context, reader MessageReader) error {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			logger.Error("Error reading message", zap.Error(err))
			continue
		}

		if err := p.Handle(ctx, msg); err != nil {
			logger.Error("Error processing notification",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
		p.processed.Add(1)
	}
}

// Handle decodes one message and sends the matching e-mail. Unknown types are
// ignored.
func (p *Processor) Handle(ctx context.Context, msg kafka.Message) error {
	var notification model.NotificationRequest
	if err := json.Unmarshal(msg.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification request: %w", err)
	}

	email, err := notification.GenerateEmail(p.email.FromEmail, p.email.StaffEmail)
	if errors.Is(err, model.ErrUnknownNotification) {
		logger.Warn("Unknown notification type", zap.String("type", notification.Type))
		return nil
	}
	if err != nil {
		return err
	}

	if err := p.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Notification processed",
		zap.String("type", notification.Type),
		zap.String("event_id", notification.EventID),
		zap.String("reference", notification.Reference),
	)
	return nil
}
