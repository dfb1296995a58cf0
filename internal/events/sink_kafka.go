package events

import (
	"context"
	"encoding/json"
	"fmt"

	"privacygate/internal/platform/kafka/producer"
)

// DefaultTopic is where privacy lifecycle events land unless overridden.
const DefaultTopic = "privacy.events"

// KafkaSink delivers events to a Kafka topic, keyed by user so per-user
// ordering survives partitioning.
type KafkaSink struct {
	producer *producer.Producer
	topic    string
}

func NewKafkaSink(p *producer.Producer, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Deliver(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.UserID.String()),
		Value: value,
		Headers: map[string]string{
			"action": event.Action,
		},
	})
}
