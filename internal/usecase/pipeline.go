package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	domsvc "RetailPulse/internal/domain/service"
	"RetailPulse/internal/services/features"
)

// historyFetchDays is how much history the pipeline pulls per run. Rolling
// features need 28 prior days; the context estimate uses the last 60.
const historyFetchDays = 120

// contextEstimateDays is the trailing span used to estimate weather and
// congestion for horizon days with no observations yet.
const contextEstimateDays = 60

// DecisionPipeline orchestrates one decision run: history fetch, future
// context estimation, feature building, the two prediction adapters on
// independent goroutines, and the decision fusion.
type DecisionPipeline struct {
	store      domrepo.HistoryStore
	builder    *features.Builder
	forecaster domsvc.DemandForecaster
	classifier domsvc.RiskClassifier
	metrics    domrepo.Metrics
}

func NewDecisionPipeline(
	store domrepo.HistoryStore,
	builder *features.Builder,
	forecaster domsvc.DemandForecaster,
	classifier domsvc.RiskClassifier,
	metrics domrepo.Metrics,
) *DecisionPipeline {
	return &DecisionPipeline{store: store, builder: builder, forecaster: forecaster, classifier: classifier, metrics: metrics}
}

// RunParams are the caller-supplied knobs for one run. The threshold is
// per call; the pipeline holds no mutable configuration between calls.
type RunParams struct {
	ProductID  string
	LocationID string
	Horizon    int
	Threshold  float64
}

// Run fetches history for the pair and decides over the horizon starting
// the day after the last known sales date.
func (p *DecisionPipeline) Run(ctx context.Context, params RunParams) (*models.DecisionResult, error) {
	if params.Horizon <= 0 {
		return nil, fmt.Errorf("horizon must be >= 1")
	}
	history, err := p.store.GetLatestN(ctx, params.ProductID, params.LocationID, historyFetchDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	horizon := EstimateHorizonContext(history, params.Horizon)
	return p.RunWith(ctx, history, horizon, params)
}

// RunWith decides over explicit inputs. The scenario simulator calls this
// directly so baseline and scenario runs see identical horizon dates.
func (p *DecisionPipeline) RunWith(ctx context.Context, history []models.SalesRecord, horizon []models.DayContext, params RunParams) (*models.DecisionResult, error) {
	start := time.Now()

	var (
		wg        sync.WaitGroup
		forecasts []models.ForecastPoint
		risks     []models.RiskPoint
		fErr      error
		rErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		forecasts, fErr = p.forecaster.Forecast(ctx, history, params.ProductID, params.LocationID, horizon)
	}()
	go func() {
		defer wg.Done()
		var fvs []models.FeatureVector
		fvs, rErr = p.riskFeatures(history, params.ProductID, params.LocationID, horizon)
		if rErr != nil {
			return
		}
		risks, rErr = p.classifier.PredictRisk(ctx, fvs)
	}()
	wg.Wait()

	if fErr != nil {
		p.metrics.RecordError("forecast")
		return nil, fErr
	}
	if rErr != nil {
		p.metrics.RecordError("risk")
		return nil, rErr
	}

	result, err := Decide(forecasts, risks, params.Threshold)
	if err != nil {
		p.metrics.RecordError("decide")
		return nil, err
	}
	if len(forecasts) > 0 {
		p.metrics.RecordDemand(params.ProductID, params.LocationID, forecasts[0].Demand)
	}
	p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())
	return result, nil
}

// riskFeatures builds the classifier's vectors. The window is extended past
// the end of history with the trailing 28-day mean, an explicit projection
// that keeps the classifier free of any data dependency on the forecaster;
// shipped risk schemas consume context and calendar features only.
func (p *DecisionPipeline) riskFeatures(history []models.SalesRecord, productID, locationID string, horizon []models.DayContext) ([]models.FeatureVector, error) {
	win, err := p.builder.Seed(history, productID, locationID)
	if err != nil {
		return nil, err
	}
	projected := win.TrailingMean(28)
	out := make([]models.FeatureVector, 0, len(horizon))
	for _, day := range horizon {
		fv, err := p.builder.BuildOne(win, productID, locationID, day)
		if err != nil {
			return nil, err
		}
		out = append(out, fv)
		win.Append(fv.Date, projected)
	}
	return out, nil
}

// EstimateHorizonContext builds context rows for the n days after the last
// record: weather and congestion from trailing means, flags zero unless a
// scenario sets them.
func EstimateHorizonContext(history []models.SalesRecord, n int) []models.DayContext {
	if len(history) == 0 || n <= 0 {
		return nil
	}
	last := history[len(history)-1].Date
	tail := history
	if len(tail) > contextEstimateDays {
		tail = tail[len(tail)-contextEstimateDays:]
	}
	var temp, rain, cong float64
	for _, r := range tail {
		temp += r.Temperature
		rain += r.Rainfall
		cong += r.CongestionIndex
	}
	m := float64(len(tail))
	temp, rain, cong = temp/m, rain/m, cong/m

	out := make([]models.DayContext, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.DayContext{
			Date:            last.AddDate(0, 0, i),
			Temperature:     temp,
			Rainfall:        rain,
			CongestionIndex: cong,
		})
	}
	return out
}
