package models

import "time"

// SalesRecord is one observed day of sales and context for a
// (product, location) pair. Records are immutable once ingested.
type SalesRecord struct {
	Date            time.Time `json:"date"`
	ProductID       string    `json:"product_id"`
	LocationID      string    `json:"location_id"`
	UnitsSold       float64   `json:"units_sold"`
	Temperature     float64   `json:"temperature"`
	Rainfall        float64   `json:"rainfall"`
	HolidayFlag     int       `json:"holiday_flag"`
	PromotionFlag   int       `json:"promotion_flag"`
	CongestionIndex float64   `json:"congestion_index"`
}

// Context returns the context-only view of the record.
func (r SalesRecord) Context() DayContext {
	return DayContext{
		Date:            r.Date,
		Temperature:     r.Temperature,
		Rainfall:        r.Rainfall,
		HolidayFlag:     r.HolidayFlag,
		PromotionFlag:   r.PromotionFlag,
		CongestionIndex: r.CongestionIndex,
	}
}

// DayContext describes a day that may not have observed sales yet
// (forecast horizon days). Same validation rules as SalesRecord.
type DayContext struct {
	Date            time.Time `json:"date"`
	Temperature     float64   `json:"temperature"`
	Rainfall        float64   `json:"rainfall"`
	HolidayFlag     int       `json:"holiday_flag"`
	PromotionFlag   int       `json:"promotion_flag"`
	CongestionIndex float64   `json:"congestion_index"`
}
