package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/model"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)

	err := publisher.Publish(context.Background(), model.NotificationRequest{
		Type:      model.NotificationEventBooked,
		EventID:   "event-1",
		Title:     "Conference",
		VenueCode: "HALL1",
		EventDate: "2023-11-05",
		Reference: "RES-001",
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "event-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, model.NotificationEventBooked, string(msg.Headers[0].Value))

	var decoded model.NotificationRequest
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "RES-001", decoded.Reference)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestKafkaPublisher_KeepsTimestamp(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)
	ts := time.Date(2023, 11, 5, 12, 0, 0, 0, time.UTC)

	require.NoError(t, publisher.Publish(context.Background(), model.NotificationRequest{
		Type: model.NotificationEventCancelled, EventID: "event-1", Timestamp: ts,
	}))

	var decoded model.NotificationRequest
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.True(t, ts.Equal(decoded.Timestamp))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := NewKafkaPublisher(writer)

	err := publisher.Publish(context.Background(), model.NotificationRequest{Type: model.NotificationReservationOrphaned})
	assert.ErrorContains(t, err, "reservation_orphaned")

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestNewKafkaWriter(t *testing.T) {
	writer := NewKafkaWriter(&config.Kafka{Brokers: []string{"kafka:9092"}, NotificationTopic: "event-notifications"})
	assert.Equal(t, "event-notifications", writer.Topic)
	assert.Equal(t, "kafka:9092", writer.Addr.String())
}
