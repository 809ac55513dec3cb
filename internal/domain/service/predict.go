package service

import (
	"context"

	"RetailPulse/internal/domain/models"
)

// StepPredictor is the single capability a trained model must provide:
// one numeric prediction over an ordered feature slice. Implementations
// hold only immutable state and are safe for concurrent use.
type StepPredictor interface {
	PredictOne(features []float64) (float64, error)
}

// DemandForecaster produces a demand series for a horizon. The adapter owns
// the iterative feedback of each day's prediction into the next day's lag
// and rolling features; the predictor itself is stateless across calls.
type DemandForecaster interface {
	Forecast(ctx context.Context, history []models.SalesRecord, productID, locationID string, horizon []models.DayContext) ([]models.ForecastPoint, error)
}

// RiskClassifier produces a disruption-probability series. Each day is
// independent given its feature vector; no feedback loop.
type RiskClassifier interface {
	PredictRisk(ctx context.Context, features []models.FeatureVector) ([]models.RiskPoint, error)
}
