package predict

import (
	"context"
	"errors"
	"testing"
	"time"

	"RetailPulse/internal/domain/errs"
	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/services/features"
)

// stepFunc adapts a plain function to the StepPredictor contract.
type stepFunc func(x []float64) (float64, error)

func (f stepFunc) PredictOne(x []float64) (float64, error) { return f(x) }

var predVocab = features.Vocabulary{Products: []string{"Chairs"}, Locations: []string{"Hanoi"}}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func constantHistory(end time.Time, n int, units float64) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, n)
	for i := n; i >= 1; i-- {
		out = append(out, models.SalesRecord{
			Date: end.AddDate(0, 0, -i), ProductID: "Chairs", LocationID: "Hanoi",
			UnitsSold: units, CongestionIndex: 0.3,
		})
	}
	return out
}

func horizonDays(start time.Time, n int) []models.DayContext {
	out := make([]models.DayContext, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.DayContext{Date: start.AddDate(0, 0, i), Temperature: 20, CongestionIndex: 0.3})
	}
	return out
}

func TestForecastNilPredictor(t *testing.T) {
	f := NewForecaster(nil, []string{"lag_7"}, features.NewBuilder(predVocab))
	_, err := f.Forecast(context.Background(), nil, "Chairs", "Hanoi", nil)
	var pu *errs.PredictorUnavailableError
	if !errors.As(err, &pu) || pu.Role != "forecaster" {
		t.Fatalf("err = %v, want PredictorUnavailableError{forecaster}", err)
	}
}

func TestVectorizeUnknownFeature(t *testing.T) {
	_, err := Vectorize(models.FeatureVector{}, []string{"lag_7", "nope"}, "forecaster")
	var fm *errs.FeatureMismatchError
	if !errors.As(err, &fm) || fm.Feature != "nope" {
		t.Fatalf("err = %v, want FeatureMismatchError{nope}", err)
	}
	if _, err := Vectorize(models.FeatureVector{}, nil, "forecaster"); !errors.As(err, &fm) {
		t.Fatalf("empty schema should mismatch, got %v", err)
	}
}

func TestForecastClampsNegative(t *testing.T) {
	pred := stepFunc(func(x []float64) (float64, error) { return -5, nil })
	f := NewForecaster(pred, []string{"lag_7"}, features.NewBuilder(predVocab))
	start := day(2024, 10, 7)
	pts, err := f.Forecast(context.Background(), constantHistory(start, 28, 10), "Chairs", "Hanoi", horizonDays(start, 1))
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if pts[0].Demand != 0 {
		t.Fatalf("demand = %v, want clamped 0", pts[0].Demand)
	}
}

// The feedback loop must make later horizon days see earlier predictions
// through their lag features.
func TestForecastFeedback(t *testing.T) {
	// predictor returns lag_7 + 1
	pred := stepFunc(func(x []float64) (float64, error) { return x[0] + 1, nil })
	f := NewForecaster(pred, []string{"lag_7"}, features.NewBuilder(predVocab))
	start := day(2024, 10, 7)
	pts, err := f.Forecast(context.Background(), constantHistory(start, 28, 10), "Chairs", "Hanoi", horizonDays(start, 8))
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	// days 1..7 each see historical 10 -> 11
	for i := 0; i < 7; i++ {
		if pts[i].Demand != 11 {
			t.Fatalf("day %d demand = %v, want 11", i, pts[i].Demand)
		}
	}
	// day 8's lag_7 is day 1's prediction (11) -> 12
	if pts[7].Demand != 12 {
		t.Fatalf("day 8 demand = %v, want 12 (fed back from day 1)", pts[7].Demand)
	}
	if !pts[7].Date.Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("day 8 date = %v", pts[7].Date)
	}
}

func TestForecastCancelled(t *testing.T) {
	pred := stepFunc(func(x []float64) (float64, error) { return 1, nil })
	f := NewForecaster(pred, []string{"lag_7"}, features.NewBuilder(predVocab))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := day(2024, 10, 7)
	_, err := f.Forecast(ctx, constantHistory(start, 28, 10), "Chairs", "Hanoi", horizonDays(start, 3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPredictRiskClamps(t *testing.T) {
	cases := []struct{ raw, want float64 }{{1.7, 1}, {-0.2, 0}, {0.45, 0.45}}
	for _, tc := range cases {
		pred := stepFunc(func(x []float64) (float64, error) { return tc.raw, nil })
		r := NewRisk(pred, []string{"rainfall"})
		pts, err := r.PredictRisk(context.Background(), []models.FeatureVector{{Date: day(2024, 10, 7), Rainfall: 3}})
		if err != nil {
			t.Fatalf("risk: %v", err)
		}
		if pts[0].Probability != tc.want {
			t.Fatalf("raw %v: probability = %v, want %v", tc.raw, pts[0].Probability, tc.want)
		}
	}
}

func TestPredictRiskNilPredictor(t *testing.T) {
	r := NewRisk(nil, []string{"rainfall"})
	_, err := r.PredictRisk(context.Background(), []models.FeatureVector{{}})
	var pu *errs.PredictorUnavailableError
	if !errors.As(err, &pu) || pu.Role != "classifier" {
		t.Fatalf("err = %v, want PredictorUnavailableError{classifier}", err)
	}
}
