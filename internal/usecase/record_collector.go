package usecase

import (
	"context"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	mid "RetailPulse/internal/middleware"
)

// defaultBackfillDays bounds how far back the REST replay reaches when
// the config leaves it unset.
const defaultBackfillDays = 7

// BackfillSource replays daily observations over REST for a span the
// live stream may have missed.
type BackfillSource interface {
	Fetch(ctx context.Context, location string, from, to time.Time) ([]*models.SalesRecord, error)
}

// RecordCollector drains the live context stream and hands records to the
// ingest pipeline (or directly to the processor when no pipeline is wired).
// With a backfill source attached it replays recent observations on connect
// and after every reconnect, closing the gap an outage leaves.
type RecordCollector struct {
	stream  domrepo.ContextStream
	proc    *RecordProcessor
	metrics domrepo.Metrics
	pipe    *mid.IngestPipeline

	backfill     BackfillSource
	locations    []string
	backfillDays int
}

func NewRecordCollector(stream domrepo.ContextStream, proc *RecordProcessor, metrics domrepo.Metrics, pipe *mid.IngestPipeline) *RecordCollector {
	return &RecordCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// SetBackfill attaches a REST replay source covering the given locations.
// days <= 0 falls back to the default span.
func (c *RecordCollector) SetBackfill(src BackfillSource, locations []string, days int) {
	c.backfill = src
	c.locations = locations
	c.backfillDays = days
}

// IsConnected returns true if the context stream is connected.
func (c *RecordCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *RecordCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	c.backfillRecent(ctx)
	recCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, recCh, errCh)
	return nil
}

// consume pumps the stream channels. The feed closes both channels after
// a read error; once both are drained we reconnect, replay the gap, and
// take fresh channels from Read. A failed reconnect ends the collector.
func (c *RecordCollector) consume(ctx context.Context, recCh <-chan *models.SalesRecord, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				break
			}
			if err != nil {
				c.metrics.RecordError("stream")
			}
		case r, ok := <-recCh:
			if !ok {
				recCh = nil
				break
			}
			if r == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, r)
			} else {
				_ = c.proc.Process(ctx, r)
			}
		}

		if errCh == nil && recCh == nil {
			if err := c.stream.Reconnect(ctx); err != nil {
				c.metrics.RecordError("reconnect")
				return
			}
			c.backfillRecent(ctx)
			recCh, errCh = c.stream.Read(ctx)
		}
	}
}

// backfillRecent replays the trailing span per location through the
// processor in one batch each. Failures are counted, not fatal: the live
// stream continues regardless.
func (c *RecordCollector) backfillRecent(ctx context.Context) {
	if c.backfill == nil {
		return
	}
	days := c.backfillDays
	if days <= 0 {
		days = defaultBackfillDays
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	for _, loc := range c.locations {
		recs, err := c.backfill.Fetch(ctx, loc, from, to)
		if err != nil {
			c.metrics.RecordError("backfill")
			continue
		}
		if len(recs) == 0 {
			continue
		}
		if err := c.proc.ProcessBatch(ctx, recs); err != nil {
			c.metrics.RecordError("backfill")
		}
	}
}

// Processor returns the underlying RecordProcessor for lifecycle management.
func (c *RecordCollector) Processor() *RecordProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *RecordCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
