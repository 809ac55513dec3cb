package usecase

import (
	"context"
	"testing"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/services/features"
	"RetailPulse/internal/services/predict"
)

type stubPred func(x []float64) (float64, error)

func (f stubPred) PredictOne(x []float64) (float64, error) { return f(x) }

// fakeStore serves a fixed in-memory history for one pair.
type fakeStore struct {
	history []models.SalesRecord
}

func (s *fakeStore) GetHistory(ctx context.Context, productID, locationID string, from, to time.Time) ([]models.SalesRecord, error) {
	out := []models.SalesRecord{}
	for _, r := range s.history {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) GetLatestN(ctx context.Context, productID, locationID string, n int) ([]models.SalesRecord, error) {
	if len(s.history) > n {
		return s.history[len(s.history)-n:], nil
	}
	return s.history, nil
}

func (s *fakeStore) Products(ctx context.Context) ([]string, error)  { return []string{"Chairs"}, nil }
func (s *fakeStore) Locations(ctx context.Context) ([]string, error) { return []string{"Hanoi"}, nil }

type nopMetrics struct{}

func (nopMetrics) RecordIngested(backend, location string)                 {}
func (nopMetrics) RecordError(kind string)                                 {}
func (nopMetrics) RecordDemand(productID, locationID string, demand float64) {}
func (nopMetrics) RecordLatency(op string, seconds float64)                {}

var pipeVocab = features.Vocabulary{Products: []string{"Chairs"}, Locations: []string{"Hanoi"}}

func flatHistory(end time.Time, n int) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, models.SalesRecord{
			Date: end.AddDate(0, 0, -i), ProductID: "Chairs", LocationID: "Hanoi",
			UnitsSold: 100, Temperature: 20, Rainfall: 5, CongestionIndex: 0.4,
		})
	}
	return out
}

func newTestPipeline(store *fakeStore, riskPred stubPred) *DecisionPipeline {
	builder := features.NewBuilder(pipeVocab)
	forecaster := predict.NewForecaster(
		stubPred(func(x []float64) (float64, error) { return x[0], nil }),
		[]string{"roll_mean_28"}, builder)
	classifier := predict.NewRisk(riskPred, []string{"heavy_rain"})
	return NewDecisionPipeline(store, builder, forecaster, classifier, nopMetrics{})
}

func TestPipelineRun(t *testing.T) {
	last := day(2024, 10, 6)
	store := &fakeStore{history: flatHistory(last, 40)}
	p := newTestPipeline(store, func(x []float64) (float64, error) { return 0.1, nil })

	res, err := p.Run(context.Background(), RunParams{ProductID: "Chairs", LocationID: "Hanoi", Horizon: 7, Threshold: 0.3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Recommendations) != 7 {
		t.Fatalf("got %d recommendations, want 7", len(res.Recommendations))
	}
	if res.SafeCount() != 7 || res.Mitigation != nil {
		t.Fatalf("all days should be safe: %+v", res)
	}
	seen := map[time.Time]bool{}
	for i, r := range res.Recommendations {
		if r.Rank != i+1 {
			t.Fatalf("rank at %d = %d", i, r.Rank)
		}
		if r.Demand != 100 {
			t.Fatalf("demand = %v, want rolling mean 100", r.Demand)
		}
		if r.Date.Before(last.AddDate(0, 0, 1)) || r.Date.After(last.AddDate(0, 0, 7)) {
			t.Fatalf("date %v outside horizon", r.Date)
		}
		seen[r.Date] = true
	}
	if len(seen) != 7 {
		t.Fatalf("duplicate horizon dates")
	}
}

func TestPipelineRejectsBadHorizon(t *testing.T) {
	store := &fakeStore{history: flatHistory(day(2024, 10, 6), 40)}
	p := newTestPipeline(store, func(x []float64) (float64, error) { return 0.1, nil })
	if _, err := p.Run(context.Background(), RunParams{ProductID: "Chairs", LocationID: "Hanoi", Horizon: 0, Threshold: 0.3}); err == nil {
		t.Fatalf("horizon 0 should be rejected")
	}
}

func TestEstimateHorizonContext(t *testing.T) {
	last := day(2024, 10, 6)
	hist := flatHistory(last, 40)
	out := EstimateHorizonContext(hist, 3)
	if len(out) != 3 {
		t.Fatalf("got %d days, want 3", len(out))
	}
	for i, c := range out {
		if !c.Date.Equal(last.AddDate(0, 0, i+1)) {
			t.Fatalf("day %d date = %v", i, c.Date)
		}
		if c.Temperature != 20 || c.Rainfall != 5 || c.CongestionIndex != 0.4 {
			t.Fatalf("day %d context = %+v, want trailing means", i, c)
		}
		if c.HolidayFlag != 0 || c.PromotionFlag != 0 {
			t.Fatalf("flags must default to 0")
		}
	}
	if EstimateHorizonContext(nil, 3) != nil {
		t.Fatalf("empty history should yield nil")
	}
}
