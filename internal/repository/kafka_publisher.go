package repository

import (
	"context"
	"fmt"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	pkgkafka "RetailPulse/pkg/kafka"
)

// KafkaPublisher forwards sales records to the ingest topic. Records
// are keyed by product/location so per-series order survives
// partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, r *models.SalesRecord) error {
	if err := p.producer.Publish(ctx, p.topic, recordKey(r), r); err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, recs []*models.SalesRecord) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(recs))
	for _, r := range recs {
		msgs = append(msgs, pkgkafka.Message{Key: recordKey(r), Value: r})
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return fmt.Errorf("publish batch: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

func recordKey(r *models.SalesRecord) []byte {
	return []byte(r.ProductID + ":" + r.LocationID)
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)
