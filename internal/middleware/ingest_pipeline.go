package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, r *models.SalesRecord) error
}

// IngestPipeline sits between the context feed and the ingest backend.
// It throttles per location, buffers when downstream is unavailable, and
// flushes with backoff.
type IngestPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.SalesRecord
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-location last accepted time
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max records per second per location.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   20,
		bufSize:  1000,
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.SalesRecord, p.bufSize)
	return p
}

// Start launches background flushing of buffered records.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case r := <-p.bufCh:
				if r == nil {
					continue
				}
				if err := p.proc.Process(ctx, r); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- r:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process throttles and enqueues one record.
func (p *IngestPipeline) Process(ctx context.Context, r *models.SalesRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}

	// per-location throttle
	p.mu.Lock()
	now := time.Now()
	if last, ok := p.lastSeen[r.LocationID]; ok {
		minGap := time.Second / time.Duration(p.maxRPS)
		if now.Sub(last) < minGap {
			p.mu.Unlock()
			p.metrics.RecordError("pipeline_throttle")
			return nil // throttled, intentionally dropped
		}
	}
	p.lastSeen[r.LocationID] = now
	p.mu.Unlock()

	select {
	case p.bufCh <- r:
		p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		return nil
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		return fmt.Errorf("ingest buffer full")
	}
}
