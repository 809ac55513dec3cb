// Package predict wraps trained single-step predictors as the demand
// forecaster and risk classifier adapters. Predictors are opaque: the
// adapters know only a feature-name schema and the PredictOne capability.
package predict

import (
	"context"

	"RetailPulse/internal/domain/errs"
	"RetailPulse/internal/domain/models"
	domsvc "RetailPulse/internal/domain/service"
	"RetailPulse/internal/services/features"
)

// Forecaster adapts a trained regression predictor into the demand
// forecasting contract. It closes the iterative feedback loop: each
// horizon day's prediction is appended to the sales window before the
// next day's features are assembled.
type Forecaster struct {
	pred    domsvc.StepPredictor
	schema  []string
	builder *features.Builder
}

func NewForecaster(pred domsvc.StepPredictor, schema []string, builder *features.Builder) *Forecaster {
	return &Forecaster{pred: pred, schema: schema, builder: builder}
}

// Forecast produces one ForecastPoint per horizon day, in order, with
// demand clamped to >= 0.
func (f *Forecaster) Forecast(ctx context.Context, history []models.SalesRecord, productID, locationID string, horizon []models.DayContext) ([]models.ForecastPoint, error) {
	if f.pred == nil {
		return nil, &errs.PredictorUnavailableError{Role: "forecaster"}
	}
	win, err := f.builder.Seed(history, productID, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ForecastPoint, 0, len(horizon))
	for _, day := range horizon {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fv, err := f.builder.BuildOne(win, productID, locationID, day)
		if err != nil {
			return nil, err
		}
		x, err := Vectorize(fv, f.schema, "forecaster")
		if err != nil {
			return nil, err
		}
		yhat, err := f.pred.PredictOne(x)
		if err != nil {
			return nil, err
		}
		if yhat < 0 {
			yhat = 0
		}
		out = append(out, models.ForecastPoint{Date: fv.Date, Demand: yhat})
		// feed the prediction back for the next day's lags and rollings
		win.Append(fv.Date, yhat)
	}
	return out, nil
}

// Vectorize projects a feature vector through a schema into the ordered
// slice a predictor consumes.
func Vectorize(fv models.FeatureVector, schema []string, role string) ([]float64, error) {
	if len(schema) == 0 {
		return nil, &errs.FeatureMismatchError{Role: role, Want: 1, Got: 0}
	}
	x := make([]float64, len(schema))
	for i, name := range schema {
		v, ok := fv.Value(name)
		if !ok {
			return nil, &errs.FeatureMismatchError{Role: role, Feature: name}
		}
		x[i] = v
	}
	return x, nil
}

var _ domsvc.DemandForecaster = (*Forecaster)(nil)
