// Package artifact loads trained model artifacts from disk. An artifact is
// a JSON file declaring the model kind, its feature schema, and its
// coefficients; the loader turns it into a StepPredictor plus the schema
// the adapters feed it with. Training and persistence format migrations
// happen outside this service.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	domsvc "RetailPulse/internal/domain/service"
)

const (
	KindLinear   = "linear"
	KindLogistic = "logistic"
)

// Artifact is the on-disk model description.
type Artifact struct {
	Kind     string    `json:"kind"`
	Features []string  `json:"features"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

// Load reads and checks one artifact file and returns the predictor and
// its feature schema. Any read or parse failure, including a missing
// file, is an error; use LoadOptional when an absent artifact should
// ship as a degraded adapter instead.
func Load(dir, file string) (domsvc.StepPredictor, []string, error) {
	b, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return nil, nil, fmt.Errorf("read artifact %s: %w", file, err)
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, nil, fmt.Errorf("parse artifact %s: %w", file, err)
	}
	pred, err := a.Predictor()
	if err != nil {
		return nil, nil, fmt.Errorf("artifact %s: %w", file, err)
	}
	return pred, a.Features, nil
}

// LoadOptional is Load, except a missing file yields a nil predictor and
// no error. An adapter built over a nil predictor refuses every request
// with PredictorUnavailableError, the one condition callers may retry.
func LoadOptional(dir, file string) (domsvc.StepPredictor, []string, error) {
	pred, schema, err := Load(dir, file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	return pred, schema, err
}

// Predictor builds the StepPredictor the artifact describes.
func (a Artifact) Predictor() (domsvc.StepPredictor, error) {
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("empty feature schema")
	}
	if len(a.Weights) != len(a.Features) {
		return nil, fmt.Errorf("weights/features length mismatch: %d vs %d", len(a.Weights), len(a.Features))
	}
	switch a.Kind {
	case KindLinear:
		return &linearModel{weights: a.Weights, bias: a.Bias}, nil
	case KindLogistic:
		return &logisticModel{weights: a.Weights, bias: a.Bias}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}
}

// linearModel is a dot-product regressor. Immutable, safe for concurrent use.
type linearModel struct {
	weights []float64
	bias    float64
}

func (m *linearModel) PredictOne(x []float64) (float64, error) {
	if len(x) != len(m.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.weights), len(x))
	}
	y := m.bias
	for i, w := range m.weights {
		y += w * x[i]
	}
	return y, nil
}

// logisticModel squashes the linear score through a sigmoid.
type logisticModel struct {
	weights []float64
	bias    float64
}

func (m *logisticModel) PredictOne(x []float64) (float64, error) {
	if len(x) != len(m.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.weights), len(x))
	}
	z := m.bias
	for i, w := range m.weights {
		z += w * x[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}
