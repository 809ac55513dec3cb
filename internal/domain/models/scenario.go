package models

// DeltaOp is the kind of adjustment a ScenarioDelta applies.
type DeltaOp string

const (
	DeltaAdd DeltaOp = "add"
	DeltaMul DeltaOp = "mul"
	DeltaSet DeltaOp = "set"
)

// ScenarioDelta is a named adjustment to one raw input field, e.g.
// rainfall += 50 or promotion_flag := 1. Deltas are owned by the caller
// and treated as read-only by the engine. Multiple deltas compose in the
// caller-specified order; conflicting deltas on the same field resolve
// last-write-wins.
type ScenarioDelta struct {
	Field string  `json:"field" validate:"required,oneof=units_sold temperature rainfall congestion_index holiday_flag promotion_flag"`
	Op    DeltaOp `json:"op" validate:"required,oneof=add mul set"`
	Value float64 `json:"value"`
}

// ScenarioResult pairs the unperturbed and perturbed decision runs.
// Both runs use identical horizon dates and risk threshold.
type ScenarioResult struct {
	Baseline *DecisionResult `json:"baseline"`
	Scenario *DecisionResult `json:"scenario"`
}
