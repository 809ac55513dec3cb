package artifact

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, dir, file, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", file, err)
	}
}

func TestLoadLinear(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "demand.json",
		`{"kind":"linear","features":["lag_7","roll_mean_7"],"weights":[0.5,2.0],"bias":3.0}`)

	pred, schema, err := Load(dir, "demand.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(schema) != 2 || schema[0] != "lag_7" || schema[1] != "roll_mean_7" {
		t.Fatalf("schema = %v", schema)
	}
	y, err := pred.PredictOne([]float64{10, 4})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if y != 3.0+0.5*10+2.0*4 {
		t.Fatalf("y = %v, want 16", y)
	}
}

func TestLoadLogistic(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "risk.json",
		`{"kind":"logistic","features":["heavy_rain"],"weights":[2.0],"bias":-1.0}`)

	pred, _, err := Load(dir, "risk.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := pred.PredictOne([]float64{1})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := 1 / (1 + math.Exp(-1.0))
	if math.Abs(p-want) > 1e-12 {
		t.Fatalf("p = %v, want %v", p, want)
	}
	if p <= 0 || p >= 1 {
		t.Fatalf("logistic output %v outside (0,1)", p)
	}
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"mismatch.json": `{"kind":"linear","features":["a","b"],"weights":[1.0],"bias":0}`,
		"kind.json":     `{"kind":"quadratic","features":["a"],"weights":[1.0],"bias":0}`,
		"empty.json":    `{"kind":"linear","features":[],"weights":[],"bias":0}`,
		"garbage.json":  `not json`,
	}
	for file, body := range cases {
		writeArtifact(t, dir, file, body)
		if _, _, err := Load(dir, file); err == nil {
			t.Fatalf("%s: expected error", file)
		}
	}
	if _, _, err := Load(dir, "absent.json"); err == nil {
		t.Fatalf("missing file should error")
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	dir := t.TempDir()
	pred, schema, err := LoadOptional(dir, "demand.json")
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if pred != nil || schema != nil {
		t.Fatalf("missing file must yield nil predictor, got %v / %v", pred, schema)
	}

	// anything other than absence still fails
	writeArtifact(t, dir, "garbage.json", `not json`)
	if _, _, err := LoadOptional(dir, "garbage.json"); err == nil {
		t.Fatalf("parse failure must propagate")
	}

	writeArtifact(t, dir, "demand.json",
		`{"kind":"linear","features":["lag_7"],"weights":[1.0],"bias":0}`)
	pred, schema, err = LoadOptional(dir, "demand.json")
	if err != nil || pred == nil || len(schema) != 1 {
		t.Fatalf("present file: %v / %v / %v", pred, schema, err)
	}
}

func TestPredictOneWidthCheck(t *testing.T) {
	m := &linearModel{weights: []float64{1, 2}, bias: 0}
	if _, err := m.PredictOne([]float64{1}); err == nil {
		t.Fatalf("expected width mismatch error")
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "vocabulary.json",
		`{"products":["Chairs","Tables"],"locations":["Hanoi"]}`)

	v, err := LoadVocabulary(dir, "vocabulary.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !v.HasProduct("Tables") || v.HasProduct("Sofas") {
		t.Fatalf("products = %v", v.Products)
	}
	if !v.HasLocation("Hanoi") {
		t.Fatalf("locations = %v", v.Locations)
	}

	writeArtifact(t, dir, "empty.json", `{"products":[],"locations":["Hanoi"]}`)
	if _, err := LoadVocabulary(dir, "empty.json"); err == nil {
		t.Fatalf("empty products should error")
	}
}
