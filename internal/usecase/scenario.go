package usecase

import (
	"context"
	"fmt"
	"sync"

	"RetailPulse/internal/domain/models"
)

// ScenarioSimulator re-runs the decision pipeline against perturbed copies
// of its raw inputs and pairs the outcome with the unperturbed baseline.
// Both runs use identical horizon dates and threshold so results compare
// directly. Deltas apply in caller order; conflicting deltas on the same
// field resolve last-write-wins.
type ScenarioSimulator struct {
	pipeline *DecisionPipeline
}

func NewScenarioSimulator(pipeline *DecisionPipeline) *ScenarioSimulator {
	return &ScenarioSimulator{pipeline: pipeline}
}

// Simulate runs baseline and scenario concurrently. The baseline inputs
// are never mutated: deltas apply to cloned history and horizon context.
func (s *ScenarioSimulator) Simulate(ctx context.Context, params RunParams, deltas []models.ScenarioDelta) (*models.ScenarioResult, error) {
	if params.Horizon <= 0 {
		return nil, fmt.Errorf("horizon must be >= 1")
	}
	history, err := s.pipeline.store.GetLatestN(ctx, params.ProductID, params.LocationID, historyFetchDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	horizon := EstimateHorizonContext(history, params.Horizon)

	perturbedHist, perturbedHorizon := applyDeltas(history, horizon, deltas)

	var (
		wg       sync.WaitGroup
		baseline *models.DecisionResult
		scenario *models.DecisionResult
		bErr     error
		sErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		baseline, bErr = s.pipeline.RunWith(ctx, history, horizon, params)
	}()
	go func() {
		defer wg.Done()
		scenario, sErr = s.pipeline.RunWith(ctx, perturbedHist, perturbedHorizon, params)
	}()
	wg.Wait()

	if bErr != nil {
		return nil, fmt.Errorf("baseline run: %w", bErr)
	}
	if sErr != nil {
		return nil, fmt.Errorf("scenario run: %w", sErr)
	}
	return &models.ScenarioResult{Baseline: baseline, Scenario: scenario}, nil
}

// applyDeltas clones both input sequences and interprets each delta over
// every cloned row, in order.
func applyDeltas(history []models.SalesRecord, horizon []models.DayContext, deltas []models.ScenarioDelta) ([]models.SalesRecord, []models.DayContext) {
	hist := make([]models.SalesRecord, len(history))
	copy(hist, history)
	hz := make([]models.DayContext, len(horizon))
	copy(hz, horizon)
	for _, d := range deltas {
		for i := range hist {
			applyToRecord(&hist[i], d)
		}
		for i := range hz {
			applyToContext(&hz[i], d)
		}
	}
	return hist, hz
}

func applyToRecord(r *models.SalesRecord, d models.ScenarioDelta) {
	switch d.Field {
	case "units_sold":
		r.UnitsSold = applyOp(r.UnitsSold, d)
		if r.UnitsSold < 0 {
			r.UnitsSold = 0
		}
	default:
		c := r.Context()
		applyToContext(&c, d)
		r.Temperature = c.Temperature
		r.Rainfall = c.Rainfall
		r.CongestionIndex = c.CongestionIndex
		r.HolidayFlag = c.HolidayFlag
		r.PromotionFlag = c.PromotionFlag
	}
}

func applyToContext(c *models.DayContext, d models.ScenarioDelta) {
	switch d.Field {
	case "temperature":
		c.Temperature = applyOp(c.Temperature, d)
	case "rainfall":
		c.Rainfall = applyOp(c.Rainfall, d)
		if c.Rainfall < 0 {
			c.Rainfall = 0
		}
	case "congestion_index":
		c.CongestionIndex = clamp01(applyOp(c.CongestionIndex, d))
	case "holiday_flag":
		c.HolidayFlag = asFlag(applyOp(float64(c.HolidayFlag), d))
	case "promotion_flag":
		c.PromotionFlag = asFlag(applyOp(float64(c.PromotionFlag), d))
	}
}

func applyOp(v float64, d models.ScenarioDelta) float64 {
	switch d.Op {
	case models.DeltaAdd:
		return v + d.Value
	case models.DeltaMul:
		return v * d.Value
	case models.DeltaSet:
		return d.Value
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func asFlag(v float64) int {
	if v >= 0.5 {
		return 1
	}
	return 0
}
