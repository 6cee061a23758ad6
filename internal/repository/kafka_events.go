package repository

import (
	"context"

	"SteelDash/internal/domain/models"
	pkgkafka "SteelDash/pkg/kafka"
)

type eventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEventPublisher publishes page views keyed by page id.
type KafkaEventPublisher struct {
	producer eventProducer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishPageView(ctx context.Context, ev *models.PageViewEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Page), ev)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
