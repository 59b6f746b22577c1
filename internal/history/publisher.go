// Package history publishes delivery-history events as recipients reach
// their final state. Events feed downstream statistics; publishing is
// best-effort and never fails a dispatch.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Event is one recipient reaching a final delivery state.
type Event struct {
	MunicipalityID string    `json:"municipalityId"`
	MessageID      string    `json:"messageId"`
	RecipientID    string    `json:"recipientId"`
	PartyID        string    `json:"partyId,omitempty"`
	MessageType    string    `json:"messageType"`
	Status         string    `json:"status"`
	StatusDetail   string    `json:"statusDetail,omitempty"`
	ExternalID     string    `json:"externalId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher emits delivery-history events.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// KafkaPublisher produces events to a Kafka topic. Produce errors are logged
// and dropped; delivery history is not part of the dispatch contract.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal delivery event failed", "error", err)
		return
	}

	record := &kgo.Record{Key: []byte(event.MessageID), Value: payload}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.ErrorContext(ctx, "publish delivery event failed",
				"message_id", event.MessageID,
				"recipient_id", event.RecipientID,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// Noop discards events. Used when no broker is configured and in tests that
// don't assert on history.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}
