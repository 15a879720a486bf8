package repository

import (
	"context"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	pkgkafka "SharkScan/pkg/kafka"
)

// KafkaSignalPublisher emits trade signals keyed by symbol.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
}

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)

func NewKafkaSignalPublisher(p *pkgkafka.Producer) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: p}
}

func (k *KafkaSignalPublisher) PublishSignal(ctx context.Context, ev *models.SignalEvent) error {
	return k.producer.Publish(ctx, ev.Symbol, ev)
}

func (k *KafkaSignalPublisher) Close() error { return k.producer.Close() }
