// Package errs defines the decision engine's error taxonomy. Data defects
// (bad input records, categories, history gaps) are kept distinct from
// model-wiring defects (missing predictor, schema mismatch) so operators
// can tell "bad data" from "bad model wiring" apart. None of these are
// retried inside the engine: they are deterministic given the same inputs.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// InsufficientHistoryError reports a lag or rolling window that cannot be
// computed because days are missing from history. The engine never
// substitutes zero for missing history.
type InsufficientHistoryError struct {
	ProductID  string
	LocationID string
	Window     int       // window length in days, or 0 for a single lag day
	From       time.Time // first missing day
	To         time.Time // last missing day
}

func (e *InsufficientHistoryError) Error() string {
	if e.From.Equal(e.To) {
		return fmt.Sprintf("insufficient history for %s/%s: missing %s",
			e.ProductID, e.LocationID, e.From.Format("2006-01-02"))
	}
	return fmt.Sprintf("insufficient history for %s/%s: missing %s..%s (window %dd)",
		e.ProductID, e.LocationID, e.From.Format("2006-01-02"), e.To.Format("2006-01-02"), e.Window)
}

// UnknownCategoryError reports a product or location outside the encoding
// vocabulary. Unseen categories are never coerced.
type UnknownCategoryError struct {
	Kind  string // "product" or "location"
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

// InvalidRecordError reports a record field outside its valid range.
type InvalidRecordError struct {
	Date   time.Time
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record %s: %s=%v (%s)",
		e.Date.Format("2006-01-02"), e.Field, e.Value, e.Reason)
}

// PredictorUnavailableError reports an adapter whose wrapped predictor is
// not loaded. The caller, not the engine, may retry with backoff if the
// condition is transient.
type PredictorUnavailableError struct {
	Role string // "forecaster" or "classifier"
}

func (e *PredictorUnavailableError) Error() string {
	return fmt.Sprintf("%s predictor not loaded", e.Role)
}

// FeatureMismatchError reports a feature vector that does not match the
// shape or naming the predictor expects.
type FeatureMismatchError struct {
	Role    string
	Feature string // offending feature name, if any
	Want    int    // expected width, if widths disagree
	Got     int
}

func (e *FeatureMismatchError) Error() string {
	if e.Feature != "" {
		return fmt.Sprintf("%s feature mismatch: vector cannot serve %q", e.Role, e.Feature)
	}
	return fmt.Sprintf("%s feature mismatch: want %d features, got %d", e.Role, e.Want, e.Got)
}

// MisalignedSeriesError reports forecast and risk series that do not cover
// identical, aligned date ranges. This indicates a bug in series
// construction and is always fatal, never patched.
type MisalignedSeriesError struct {
	Reason      string
	ForecastLen int
	RiskLen     int
}

func (e *MisalignedSeriesError) Error() string {
	return fmt.Sprintf("misaligned series: %s (forecast=%d risk=%d)", e.Reason, e.ForecastLen, e.RiskLen)
}

// IsDataDefect reports whether err is an input/data defect that the caller
// must fix before retrying.
func IsDataDefect(err error) bool {
	var ih *InsufficientHistoryError
	var uc *UnknownCategoryError
	var ir *InvalidRecordError
	return errors.As(err, &ih) || errors.As(err, &uc) || errors.As(err, &ir)
}

// IsModelDefect reports whether err is an integration defect between the
// feature builder and a predictor.
func IsModelDefect(err error) bool {
	var pu *PredictorUnavailableError
	var fm *FeatureMismatchError
	return errors.As(err, &pu) || errors.As(err, &fm)
}
