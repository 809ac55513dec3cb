package repository

import (
	"context"
	"time"

	"RetailPulse/internal/domain/models"
)

// HistoryStore provides read-only access to ingested sales history.
type HistoryStore interface {
	GetHistory(ctx context.Context, productID, locationID string, from, to time.Time) ([]models.SalesRecord, error)
	GetLatestN(ctx context.Context, productID, locationID string, n int) ([]models.SalesRecord, error)
	Products(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
}

// ContextStream is a live feed of context observations (weather,
// congestion) per location.
type ContextStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SalesRecord, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher forwards records to the ingest topic.
type Publisher interface {
	Publish(ctx context.Context, r *models.SalesRecord) error
	PublishBatch(ctx context.Context, recs []*models.SalesRecord) error
	Close() error
}

// Storage persists validated sales records.
type Storage interface {
	Store(ctx context.Context, r *models.SalesRecord) error
	StoreBatch(ctx context.Context, recs []*models.SalesRecord) error
	Health(ctx context.Context) error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordIngested(backend, location string)
	RecordError(kind string)
	RecordDemand(productID, locationID string, demand float64)
	RecordLatency(op string, seconds float64)
}
