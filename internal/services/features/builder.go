// Package features turns raw daily sales records into model-ready feature
// vectors. Lag and rolling features only ever reference days strictly
// before the target date.
package features

import (
	"RetailPulse/internal/domain/errs"
	"RetailPulse/internal/domain/models"
	"RetailPulse/pkg/util"
)

// Vocabulary is the fixed category encoding agreed with the trained
// predictors. Unseen categories fail, they are never coerced.
type Vocabulary struct {
	Products  []string `json:"products"`
	Locations []string `json:"locations"`
}

// HasProduct reports whether p is a known product.
func (v Vocabulary) HasProduct(p string) bool { return contains(v.Products, p) }

// HasLocation reports whether l is a known location.
func (v Vocabulary) HasLocation(l string) bool { return contains(v.Locations, l) }

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// Builder computes feature vectors for (product, location, date) contexts.
type Builder struct {
	vocab Vocabulary
}

func NewBuilder(vocab Vocabulary) *Builder {
	return &Builder{vocab: vocab}
}

// Vocabulary returns the encoding vocabulary the builder was built with.
func (b *Builder) Vocabulary() Vocabulary { return b.vocab }

// Build produces one vector per target, in order. history must be the
// ordered record sequence for (productID, locationID); targets carry the
// per-day context (for past days, typically the record's own context; for
// horizon days, the caller's estimate).
func (b *Builder) Build(history []models.SalesRecord, productID, locationID string, targets []models.DayContext) ([]models.FeatureVector, error) {
	win, err := b.Seed(history, productID, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]models.FeatureVector, 0, len(targets))
	for _, tgt := range targets {
		fv, err := b.BuildOne(win, productID, locationID, tgt)
		if err != nil {
			return nil, err
		}
		out = append(out, fv)
	}
	return out, nil
}

// Seed validates history and loads it into a fresh SalesWindow.
func (b *Builder) Seed(history []models.SalesRecord, productID, locationID string) (*SalesWindow, error) {
	if !b.vocab.HasProduct(productID) {
		return nil, &errs.UnknownCategoryError{Kind: "product", Value: productID}
	}
	if !b.vocab.HasLocation(locationID) {
		return nil, &errs.UnknownCategoryError{Kind: "location", Value: locationID}
	}
	win := NewSalesWindow()
	for _, r := range history {
		if err := ValidateRecord(r); err != nil {
			return nil, err
		}
		win.Append(r.Date, r.UnitsSold)
	}
	return win, nil
}

// BuildOne computes the vector for a single target day against the current
// window state. The window is not modified; appending predictions between
// calls is the forecaster adapter's job.
func (b *Builder) BuildOne(win *SalesWindow, productID, locationID string, tgt models.DayContext) (models.FeatureVector, error) {
	if err := validateContext(tgt); err != nil {
		return models.FeatureVector{}, err
	}
	d := util.Day(tgt.Date)
	_, week := d.ISOWeek()
	fv := models.FeatureVector{
		ProductID:       productID,
		LocationID:      locationID,
		Date:            d,
		DOW:             util.DOW(d),
		Week:            week,
		Month:           int(d.Month()),
		Year:            d.Year(),
		Temperature:     tgt.Temperature,
		Rainfall:        tgt.Rainfall,
		CongestionIndex: tgt.CongestionIndex,
		HolidayFlag:     tgt.HolidayFlag,
		PromotionFlag:   tgt.PromotionFlag,
	}

	for _, lag := range []int{7, 14, 28} {
		v, ok := win.Lag(d, lag)
		if !ok {
			day := d.AddDate(0, 0, -lag)
			return models.FeatureVector{}, &errs.InsufficientHistoryError{
				ProductID: productID, LocationID: locationID,
				From: day, To: day,
			}
		}
		switch lag {
		case 7:
			fv.Lag7 = v
		case 14:
			fv.Lag14 = v
		case 28:
			fv.Lag28 = v
		}
	}

	for _, window := range []int{7, 28} {
		mean, std, from, to, ok := win.Stats(d, window)
		if !ok {
			return models.FeatureVector{}, &errs.InsufficientHistoryError{
				ProductID: productID, LocationID: locationID,
				Window: window, From: from, To: to,
			}
		}
		if window == 7 {
			fv.RollMean7, fv.RollStd7 = mean, std
		} else {
			fv.RollMean28, fv.RollStd28 = mean, std
		}
	}

	return fv, nil
}

// ValidateRecord checks value ranges the engine owns: congestion in [0,1],
// flags in {0,1}, non-negative sales and rainfall.
func ValidateRecord(r models.SalesRecord) error {
	if r.UnitsSold < 0 {
		return &errs.InvalidRecordError{Date: r.Date, Field: "units_sold", Value: r.UnitsSold, Reason: "must be >= 0"}
	}
	return validateContext(r.Context())
}

func validateContext(c models.DayContext) error {
	if c.CongestionIndex < 0 || c.CongestionIndex > 1 {
		return &errs.InvalidRecordError{Date: c.Date, Field: "congestion_index", Value: c.CongestionIndex, Reason: "must be in [0,1]"}
	}
	if c.Rainfall < 0 {
		return &errs.InvalidRecordError{Date: c.Date, Field: "rainfall", Value: c.Rainfall, Reason: "must be >= 0"}
	}
	if c.HolidayFlag != 0 && c.HolidayFlag != 1 {
		return &errs.InvalidRecordError{Date: c.Date, Field: "holiday_flag", Value: float64(c.HolidayFlag), Reason: "must be 0 or 1"}
	}
	if c.PromotionFlag != 0 && c.PromotionFlag != 1 {
		return &errs.InvalidRecordError{Date: c.Date, Field: "promotion_flag", Value: float64(c.PromotionFlag), Reason: "must be 0 or 1"}
	}
	return nil
}
