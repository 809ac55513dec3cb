package usecase

import (
	"context"
	"reflect"
	"testing"

	"RetailPulse/internal/domain/models"
)

func TestApplyDeltasClonesInputs(t *testing.T) {
	last := day(2024, 10, 6)
	hist := flatHistory(last, 5)
	hz := EstimateHorizonContext(hist, 2)
	histCopy := make([]models.SalesRecord, len(hist))
	copy(histCopy, hist)
	hzCopy := make([]models.DayContext, len(hz))
	copy(hzCopy, hz)

	applyDeltas(hist, hz, []models.ScenarioDelta{
		{Field: "rainfall", Op: models.DeltaAdd, Value: 50},
		{Field: "units_sold", Op: models.DeltaMul, Value: 0},
	})
	if !reflect.DeepEqual(hist, histCopy) || !reflect.DeepEqual(hz, hzCopy) {
		t.Fatalf("baseline inputs were mutated")
	}
}

func TestApplyDeltasOps(t *testing.T) {
	last := day(2024, 10, 6)
	hist := flatHistory(last, 1) // rainfall 5, units 100, congestion 0.4
	hz := EstimateHorizonContext(hist, 1)

	gotHist, gotHz := applyDeltas(hist, hz, []models.ScenarioDelta{
		{Field: "rainfall", Op: models.DeltaAdd, Value: 50},
		{Field: "units_sold", Op: models.DeltaMul, Value: 1.5},
		{Field: "congestion_index", Op: models.DeltaSet, Value: 0.9},
		{Field: "promotion_flag", Op: models.DeltaSet, Value: 1},
	})
	if gotHist[0].Rainfall != 55 || gotHz[0].Rainfall != 55 {
		t.Fatalf("rainfall = %v / %v, want 55", gotHist[0].Rainfall, gotHz[0].Rainfall)
	}
	if gotHist[0].UnitsSold != 150 {
		t.Fatalf("units = %v, want 150", gotHist[0].UnitsSold)
	}
	if gotHist[0].CongestionIndex != 0.9 || gotHz[0].CongestionIndex != 0.9 {
		t.Fatalf("congestion = %v / %v, want 0.9", gotHist[0].CongestionIndex, gotHz[0].CongestionIndex)
	}
	if gotHist[0].PromotionFlag != 1 || gotHz[0].PromotionFlag != 1 {
		t.Fatalf("promotion flag not set")
	}
}

func TestApplyDeltasLastWriteWins(t *testing.T) {
	last := day(2024, 10, 6)
	hist := flatHistory(last, 1)
	hz := EstimateHorizonContext(hist, 1)

	_, gotHz := applyDeltas(hist, hz, []models.ScenarioDelta{
		{Field: "temperature", Op: models.DeltaSet, Value: 10},
		{Field: "temperature", Op: models.DeltaSet, Value: 20},
	})
	if gotHz[0].Temperature != 20 {
		t.Fatalf("temperature = %v, want last write 20", gotHz[0].Temperature)
	}
}

func TestApplyDeltasClamps(t *testing.T) {
	last := day(2024, 10, 6)
	hist := flatHistory(last, 1)
	hz := EstimateHorizonContext(hist, 1)

	gotHist, gotHz := applyDeltas(hist, hz, []models.ScenarioDelta{
		{Field: "rainfall", Op: models.DeltaAdd, Value: -100},
		{Field: "congestion_index", Op: models.DeltaAdd, Value: 5},
		{Field: "units_sold", Op: models.DeltaAdd, Value: -1000},
		{Field: "holiday_flag", Op: models.DeltaSet, Value: 0.4},
	})
	if gotHz[0].Rainfall != 0 {
		t.Fatalf("rainfall = %v, want clamp 0", gotHz[0].Rainfall)
	}
	if gotHz[0].CongestionIndex != 1 {
		t.Fatalf("congestion = %v, want clamp 1", gotHz[0].CongestionIndex)
	}
	if gotHist[0].UnitsSold != 0 {
		t.Fatalf("units = %v, want clamp 0", gotHist[0].UnitsSold)
	}
	if gotHz[0].HolidayFlag != 0 {
		t.Fatalf("holiday flag = %d, want rounded 0", gotHz[0].HolidayFlag)
	}
}

func TestSimulateBaselineUnchangedByEmptyDeltas(t *testing.T) {
	store := &fakeStore{history: flatHistory(day(2024, 10, 6), 40)}
	p := newTestPipeline(store, func(x []float64) (float64, error) { return 0.1, nil })
	sim := NewScenarioSimulator(p)

	res, err := sim.Simulate(context.Background(), RunParams{ProductID: "Chairs", LocationID: "Hanoi", Horizon: 5, Threshold: 0.3}, nil)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !reflect.DeepEqual(res.Baseline, res.Scenario) {
		t.Fatalf("empty deltas must reproduce the baseline")
	}
}

func TestSimulateHeavyRainRaisesRisk(t *testing.T) {
	store := &fakeStore{history: flatHistory(day(2024, 10, 6), 40)}
	// classifier keyed on the heavy_rain indicator
	p := newTestPipeline(store, func(x []float64) (float64, error) { return 0.05 + 0.9*x[0], nil })
	sim := NewScenarioSimulator(p)

	res, err := sim.Simulate(context.Background(),
		RunParams{ProductID: "Chairs", LocationID: "Hanoi", Horizon: 5, Threshold: 0.3},
		[]models.ScenarioDelta{{Field: "rainfall", Op: models.DeltaSet, Value: 60}})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if res.Baseline.SafeCount() != 5 {
		t.Fatalf("baseline safe count = %d, want 5", res.Baseline.SafeCount())
	}
	if res.Scenario.SafeCount() != 0 {
		t.Fatalf("scenario safe count = %d, want 0 under heavy rain", res.Scenario.SafeCount())
	}
	if res.Scenario.Mitigation == nil {
		t.Fatalf("scenario with no safe day must carry a mitigation")
	}
	// both runs cover the same horizon dates
	dates := func(recs []models.Recommendation) map[string]bool {
		m := map[string]bool{}
		for _, r := range recs {
			m[r.Date.Format("2006-01-02")] = true
		}
		return m
	}
	if !reflect.DeepEqual(dates(res.Baseline.Recommendations), dates(res.Scenario.Recommendations)) {
		t.Fatalf("baseline and scenario cover different dates")
	}
}

func TestSimulateRejectsBadHorizon(t *testing.T) {
	store := &fakeStore{history: flatHistory(day(2024, 10, 6), 40)}
	p := newTestPipeline(store, func(x []float64) (float64, error) { return 0.1, nil })
	sim := NewScenarioSimulator(p)
	if _, err := sim.Simulate(context.Background(), RunParams{ProductID: "Chairs", LocationID: "Hanoi", Horizon: 0}, nil); err == nil {
		t.Fatalf("horizon 0 should be rejected")
	}
}
