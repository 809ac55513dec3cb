package models

// Requests for decision HTTP endpoints. Defined in domain for consistency and reuse.

type RecommendationsRequest struct {
	Product   string  `query:"product" json:"product" validate:"required"`
	Location  string  `query:"location" json:"location" validate:"required"`
	Horizon   int     `query:"horizon" json:"horizon" default:"7" validate:"gte=1,lte=90"`
	Threshold float64 `query:"threshold" json:"threshold" default:"0.3" validate:"gte=0,lte=1"`
}

type ScenarioRequest struct {
	Product   string          `json:"product" validate:"required"`
	Location  string          `json:"location" validate:"required"`
	Horizon   int             `json:"horizon" default:"7" validate:"gte=1,lte=90"`
	Threshold float64         `json:"threshold" default:"0.3" validate:"gte=0,lte=1"`
	Deltas    []ScenarioDelta `json:"deltas" validate:"dive"`
}

type HistoryRequest struct {
	Product  string `query:"product" json:"product" validate:"required"`
	Location string `query:"location" json:"location" validate:"required"`
	From     string `query:"from" json:"from"`
	To       string `query:"to" json:"to"`
	Limit    int    `query:"limit" json:"limit" default:"365" validate:"gte=1,lte=5000"`
}
