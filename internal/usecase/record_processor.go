package usecase

import (
	"context"
	"fmt"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	"RetailPulse/internal/services/features"
)

// RecordProcessor validates incoming sales records and routes them to the
// configured backend. Invalid records are rejected here, before anything
// downstream sees them.
type RecordProcessor struct {
	pub     domrepo.Publisher
	store   domrepo.Storage
	metrics domrepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

func NewRecordProcessor(
	pub domrepo.Publisher,
	store domrepo.Storage,
	metrics domrepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *RecordProcessor {
	return &RecordProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process validates and routes a single record.
func (p *RecordProcessor) Process(ctx context.Context, r *models.SalesRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if err := features.ValidateRecord(*r); err != nil {
		p.metrics.RecordError("validate")
		return err
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, r)
	case "clickhouse":
		err = p.store.Store(ctx, r)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process record: %w", err)
	}

	p.metrics.RecordIngested(p.backend, r.LocationID)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch validates and routes multiple records in one call.
func (p *RecordProcessor) ProcessBatch(ctx context.Context, recs []*models.SalesRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, r := range recs {
		if r == nil {
			continue
		}
		if err := features.ValidateRecord(*r); err != nil {
			p.metrics.RecordError("validate")
			return err
		}
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, recs)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, recs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, r := range recs {
		if r != nil {
			p.metrics.RecordIngested(p.backend, r.LocationID)
		}
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close releases the publisher if one is attached.
func (p *RecordProcessor) Close() error {
	if p.pub != nil {
		return p.pub.Close()
	}
	return nil
}
