// Package events publishes domain events (registrations, payments,
// notifications) to Kafka for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Envelope is the wire shape of every published event.
type Envelope struct {
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Publisher emits domain events. Publishing is best effort: callers log the
// error and carry on.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType, key string, payload interface{}) error
	Close() error
}

func newEnvelope(eventType, key string, payload interface{}) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// KafkaPublisher writes envelopes asynchronously; delivery failures are
// reported through the writer's completion callback.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Kafka delivery failed").
					Int("messages", len(messages)).
					String("topic", cfg.Topic).
					Err(err).
					Log()
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishEvent(ctx context.Context, eventType, key string, payload interface{}) error {
	env, err := newEnvelope(eventType, key, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s: %w", eventType, err)
	}

	logger.DebugWithContext(ctx, "Domain event queued").
		String("type", eventType).
		String("key", key).
		Log()
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                                    { return nil }

// MemoryPublisher keeps events in memory; tests assert against it.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Envelope
}

func (m *MemoryPublisher) PublishEvent(_ context.Context, eventType, key string, payload interface{}) error {
	env, err := newEnvelope(eventType, key, payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.events = append(m.events, env)
	m.mu.Unlock()
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *MemoryPublisher) Events() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Envelope(nil), m.events...)
}

// Types lists the published event types in order.
func (m *MemoryPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

// New picks the Kafka publisher when enabled.
func New(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}
