package models

import (
	"strings"
	"time"
)

// FeatureVector is the model-ready representation of one target day for a
// (product, location) pair. Lag and rolling values reference sales strictly
// before Date. Vectors are computed per request and never persisted.
type FeatureVector struct {
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Date       time.Time `json:"date"`

	// calendar
	DOW   int `json:"dow"`
	Week  int `json:"week"`
	Month int `json:"month"`
	Year  int `json:"year"`

	// lags and rolling stats of units_sold
	Lag7       float64 `json:"lag_7"`
	Lag14      float64 `json:"lag_14"`
	Lag28      float64 `json:"lag_28"`
	RollMean7  float64 `json:"roll_mean_7"`
	RollStd7   float64 `json:"roll_std_7"`
	RollMean28 float64 `json:"roll_mean_28"`
	RollStd28  float64 `json:"roll_std_28"`

	// numeric context
	Temperature     float64 `json:"temperature"`
	Rainfall        float64 `json:"rainfall"`
	CongestionIndex float64 `json:"congestion_index"`

	// categorical flags
	HolidayFlag   int `json:"holiday_flag"`
	PromotionFlag int `json:"promotion_flag"`
}

// One-hot feature name prefixes. A schema entry "product_Chairs" resolves
// to 1.0 when the vector's ProductID is "Chairs".
const (
	ProductPrefix  = "product_"
	LocationPrefix = "location_"
)

// Value resolves a feature by its schema name. The name set covers calendar,
// lag, rolling and context features, product/location one-hot indicators,
// and the derived disruption indicators used by risk models.
func (v FeatureVector) Value(name string) (float64, bool) {
	switch name {
	case "dow":
		return float64(v.DOW), true
	case "week":
		return float64(v.Week), true
	case "month":
		return float64(v.Month), true
	case "year":
		return float64(v.Year), true
	case "lag_7":
		return v.Lag7, true
	case "lag_14":
		return v.Lag14, true
	case "lag_28":
		return v.Lag28, true
	case "roll_mean_7":
		return v.RollMean7, true
	case "roll_std_7":
		return v.RollStd7, true
	case "roll_mean_28":
		return v.RollMean28, true
	case "roll_std_28":
		return v.RollStd28, true
	case "temperature":
		return v.Temperature, true
	case "rainfall":
		return v.Rainfall, true
	case "congestion_index":
		return v.CongestionIndex, true
	case "holiday_flag":
		return float64(v.HolidayFlag), true
	case "promotion_flag":
		return float64(v.PromotionFlag), true
	case "extreme_temp":
		return boolFeature(v.Temperature < 0 || v.Temperature > 35), true
	case "heavy_rain":
		return boolFeature(v.Rainfall > 50), true
	case "high_congestion":
		return boolFeature(v.CongestionIndex > 0.7), true
	case "is_weekend":
		return boolFeature(v.DOW >= 5), true
	}
	if id, ok := strings.CutPrefix(name, ProductPrefix); ok {
		return boolFeature(v.ProductID == id), true
	}
	if id, ok := strings.CutPrefix(name, LocationPrefix); ok {
		return boolFeature(v.LocationID == id), true
	}
	return 0, false
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
