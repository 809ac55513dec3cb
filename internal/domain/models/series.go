package models

import "time"

// ForecastPoint is one day of predicted demand. Demand is clamped >= 0.
type ForecastPoint struct {
	Date   time.Time `json:"date"`
	Demand float64   `json:"predicted_demand"`
}

// RiskPoint is one day of predicted disruption probability in [0,1].
type RiskPoint struct {
	Date        time.Time `json:"date"`
	Probability float64   `json:"disruption_probability"`
}

// Recommendation is one ranked day of the purchase-window decision.
// Recomputed on every decision run, never mutated in place.
type Recommendation struct {
	Date        time.Time `json:"date"`
	Demand      float64   `json:"predicted_demand"`
	Probability float64   `json:"disruption_probability"`
	Safe        bool      `json:"is_safe_window"`
	Rank        int       `json:"rank"`
}

// Mitigation is the signal emitted when no day in the horizon is safe.
// It carries the single lowest-risk day and how far it exceeds the
// threshold. This is a normal result, not an error.
type Mitigation struct {
	Date        time.Time `json:"date"`
	Probability float64   `json:"disruption_probability"`
	Exceedance  float64   `json:"exceedance"`
}

// DecisionResult is the output of one decision run.
type DecisionResult struct {
	Threshold       float64          `json:"risk_threshold"`
	Recommendations []Recommendation `json:"recommendations"`
	Mitigation      *Mitigation      `json:"mitigation,omitempty"`
}

// SafeCount returns the number of safe-window days.
func (r *DecisionResult) SafeCount() int {
	n := 0
	for _, rec := range r.Recommendations {
		if rec.Safe {
			n++
		}
	}
	return n
}
