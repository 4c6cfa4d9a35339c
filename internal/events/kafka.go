package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"credex/internal/platform/kafka/producer"
	"credex/pkg/requestcontext"
)

// AsyncProducer is the slice of the Kafka producer the publisher needs.
type AsyncProducer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaPublisher serializes events as JSON onto a single topic.
type KafkaPublisher struct {
	producer AsyncProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(p AsyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) {
	if evt.RequestID == "" {
		evt.RequestID = requestcontext.RequestID(ctx)
	}
	value, err := json.Marshal(evt)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode domain event", "error", err, "event_type", evt.Type)
		return
	}
	msg := &producer.Message{
		Topic: p.topic,
		Key:   []byte(evt.Key),
		Value: value,
		Headers: map[string]string{
			"event_type": string(evt.Type),
			"event_id":   evt.ID,
		},
	}
	if err := p.producer.ProduceAsync(msg); err != nil {
		p.logger.WarnContext(ctx, "domain event dropped", "error", err, "event_type", evt.Type, "event_id", evt.ID)
	}
}

var _ Publisher = (*KafkaPublisher)(nil)
