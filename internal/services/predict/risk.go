package predict

import (
	"context"

	"RetailPulse/internal/domain/errs"
	"RetailPulse/internal/domain/models"
	domsvc "RetailPulse/internal/domain/service"
)

// Risk adapts a trained probability predictor into the disruption risk
// contract. Unlike the forecaster there is no feedback loop: each day is
// independent given its feature vector.
type Risk struct {
	pred   domsvc.StepPredictor
	schema []string
}

func NewRisk(pred domsvc.StepPredictor, schema []string) *Risk {
	return &Risk{pred: pred, schema: schema}
}

// PredictRisk produces one RiskPoint per input vector, in order, with
// probabilities clamped to [0,1].
func (r *Risk) PredictRisk(ctx context.Context, fvs []models.FeatureVector) ([]models.RiskPoint, error) {
	if r.pred == nil {
		return nil, &errs.PredictorUnavailableError{Role: "classifier"}
	}
	out := make([]models.RiskPoint, 0, len(fvs))
	for _, fv := range fvs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, err := Vectorize(fv, r.schema, "classifier")
		if err != nil {
			return nil, err
		}
		p, err := r.pred.PredictOne(x)
		if err != nil {
			return nil, err
		}
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		out = append(out, models.RiskPoint{Date: fv.Date, Probability: p})
	}
	return out, nil
}

var _ domsvc.RiskClassifier = (*Risk)(nil)
