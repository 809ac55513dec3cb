package usecase

import (
	"fmt"
	"sort"

	"RetailPulse/internal/domain/errs"
	"RetailPulse/internal/domain/models"
)

// Decide fuses a demand forecast and a disruption-risk series into ranked
// purchase-window recommendations. Pure function of its inputs: no state
// is held between calls and identical inputs produce identical output.
//
// A day is a safe window iff its probability <= threshold. Safe days rank
// ascending by probability, ties broken by higher demand; unsafe days are
// kept for visibility after all safe days, ordered by date. When no day is
// safe the result carries a Mitigation naming the lowest-risk day, so
// callers always receive at least one actionable data point.
func Decide(forecasts []models.ForecastPoint, risks []models.RiskPoint, threshold float64) (*models.DecisionResult, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("risk threshold %v outside [0,1]", threshold)
	}
	if len(forecasts) == 0 {
		return nil, &errs.MisalignedSeriesError{Reason: "empty series", ForecastLen: 0, RiskLen: len(risks)}
	}
	if len(forecasts) != len(risks) {
		return nil, &errs.MisalignedSeriesError{Reason: "length mismatch", ForecastLen: len(forecasts), RiskLen: len(risks)}
	}
	for i := range forecasts {
		if !forecasts[i].Date.Equal(risks[i].Date) {
			return nil, &errs.MisalignedSeriesError{
				Reason:      fmt.Sprintf("date mismatch at index %d: %s vs %s", i, forecasts[i].Date.Format("2006-01-02"), risks[i].Date.Format("2006-01-02")),
				ForecastLen: len(forecasts),
				RiskLen:     len(risks),
			}
		}
	}

	recs := make([]models.Recommendation, len(forecasts))
	for i := range forecasts {
		recs[i] = models.Recommendation{
			Date:        forecasts[i].Date,
			Demand:      forecasts[i].Demand,
			Probability: risks[i].Probability,
			Safe:        risks[i].Probability <= threshold,
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Safe != b.Safe {
			return a.Safe
		}
		if !a.Safe {
			return a.Date.Before(b.Date)
		}
		if a.Probability != b.Probability {
			return a.Probability < b.Probability
		}
		if a.Demand != b.Demand {
			return a.Demand > b.Demand
		}
		return a.Date.Before(b.Date)
	})
	for i := range recs {
		recs[i].Rank = i + 1
	}

	result := &models.DecisionResult{Threshold: threshold, Recommendations: recs}
	if result.SafeCount() == 0 {
		best := recs[0] // unsafe days are date-ordered; find the true minimum
		for _, r := range recs[1:] {
			if r.Probability < best.Probability {
				best = r
			}
		}
		result.Mitigation = &models.Mitigation{
			Date:        best.Date,
			Probability: best.Probability,
			Exceedance:  best.Probability - threshold,
		}
	}
	return result, nil
}
