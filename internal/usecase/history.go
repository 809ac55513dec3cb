package usecase

import (
	"context"
	"fmt"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
)

// HistoryUseCase provides read access to ingested sales history for the
// presentation layer (plain structured data, no rendering concerns).
type HistoryUseCase struct {
	store domrepo.HistoryStore
}

func NewHistoryUseCase(store domrepo.HistoryStore) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

type GetHistoryParams struct {
	ProductID  string
	LocationID string
	From       time.Time
	To         time.Time
	Limit      int
}

type GetHistoryResult struct {
	ProductID  string               `json:"product_id"`
	LocationID string               `json:"location_id"`
	From       time.Time            `json:"from"`
	To         time.Time            `json:"to"`
	Count      int                  `json:"count"`
	Records    []models.SalesRecord `json:"records"`
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	if p.ProductID == "" || p.LocationID == "" {
		return nil, fmt.Errorf("product and location required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 365
	}
	if p.Limit > 5000 {
		p.Limit = 5000
	}

	recs, err := uc.store.GetHistory(ctx, p.ProductID, p.LocationID, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if len(recs) > p.Limit {
		recs = recs[:p.Limit]
	}

	return &GetHistoryResult{
		ProductID:  p.ProductID,
		LocationID: p.LocationID,
		From:       p.From,
		To:         p.To,
		Count:      len(recs),
		Records:    recs,
	}, nil
}

// Vocabulary returns the known product and location lists.
func (uc *HistoryUseCase) Vocabulary(ctx context.Context) (products, locations []string, err error) {
	products, err = uc.store.Products(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("products: %w", err)
	}
	locations, err = uc.store.Locations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("locations: %w", err)
	}
	return products, locations, nil
}
