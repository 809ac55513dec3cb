package features

import (
	"errors"
	"testing"
	"time"

	"RetailPulse/internal/domain/errs"
	"RetailPulse/internal/domain/models"
)

var testVocab = Vocabulary{
	Products:  []string{"Chairs", "Tables"},
	Locations: []string{"Hanoi", "Danang"},
}

// makeHistory builds n consecutive valid days ending the day before target.
func makeHistory(target time.Time, n int, units float64) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, n)
	for i := n; i >= 1; i-- {
		out = append(out, models.SalesRecord{
			Date:            target.AddDate(0, 0, -i),
			ProductID:       "Chairs",
			LocationID:      "Hanoi",
			UnitsSold:       units,
			Temperature:     20,
			Rainfall:        5,
			CongestionIndex: 0.4,
		})
	}
	return out
}

func ctxFor(d time.Time) models.DayContext {
	return models.DayContext{Date: d, Temperature: 22, Rainfall: 0, CongestionIndex: 0.3}
}

func TestBuildOneWithSufficientHistory(t *testing.T) {
	b := NewBuilder(testVocab)
	target := day(2024, 10, 7) // a Monday
	hist := makeHistory(target, 28, 50)

	win, err := b.Seed(hist, "Chairs", "Hanoi")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	fv, err := b.BuildOne(win, "Chairs", "Hanoi", ctxFor(target))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if fv.DOW != 0 {
		t.Fatalf("dow = %d, want 0 for Monday", fv.DOW)
	}
	if fv.Lag7 != 50 || fv.Lag14 != 50 || fv.Lag28 != 50 {
		t.Fatalf("lags = %v/%v/%v, want 50", fv.Lag7, fv.Lag14, fv.Lag28)
	}
	if fv.RollMean7 != 50 || fv.RollMean28 != 50 {
		t.Fatalf("roll means = %v/%v, want 50", fv.RollMean7, fv.RollMean28)
	}
	if fv.RollStd7 != 0 || fv.RollStd28 != 0 {
		t.Fatalf("roll stds = %v/%v, want 0 for constant series", fv.RollStd7, fv.RollStd28)
	}
	if fv.Temperature != 22 || fv.CongestionIndex != 0.3 {
		t.Fatalf("context not carried: %+v", fv)
	}
}

func TestBuildOneInsufficientHistory(t *testing.T) {
	b := NewBuilder(testVocab)
	target := day(2024, 10, 7)
	hist := makeHistory(target, 27, 50) // one day short of lag_28

	win, err := b.Seed(hist, "Chairs", "Hanoi")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err = b.BuildOne(win, "Chairs", "Hanoi", ctxFor(target))
	var ih *errs.InsufficientHistoryError
	if !errors.As(err, &ih) {
		t.Fatalf("err = %v, want InsufficientHistoryError", err)
	}
	missing := target.AddDate(0, 0, -28)
	if !ih.From.Equal(missing) {
		t.Fatalf("missing day = %v, want %v", ih.From, missing)
	}
	if !errs.IsDataDefect(err) {
		t.Fatalf("insufficient history should classify as data defect")
	}
}

func TestBuildOneNeverReadsTargetOrLater(t *testing.T) {
	b := NewBuilder(testVocab)
	target := day(2024, 10, 7)
	hist := makeHistory(target, 28, 50)
	// corrupt the target day and a later day; neither may leak
	hist = append(hist,
		models.SalesRecord{Date: target, ProductID: "Chairs", LocationID: "Hanoi", UnitsSold: 1e9, CongestionIndex: 0.4},
		models.SalesRecord{Date: target.AddDate(0, 0, 1), ProductID: "Chairs", LocationID: "Hanoi", UnitsSold: 1e9, CongestionIndex: 0.4},
	)

	win, err := b.Seed(hist, "Chairs", "Hanoi")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	fv, err := b.BuildOne(win, "Chairs", "Hanoi", ctxFor(target))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if fv.Lag7 != 50 || fv.RollMean7 != 50 || fv.RollMean28 != 50 {
		t.Fatalf("future values leaked: %+v", fv)
	}
}

func TestSeedUnknownCategory(t *testing.T) {
	b := NewBuilder(testVocab)
	target := day(2024, 10, 7)
	hist := makeHistory(target, 28, 50)

	_, err := b.Seed(hist, "Sofas", "Hanoi")
	var uc *errs.UnknownCategoryError
	if !errors.As(err, &uc) || uc.Kind != "product" {
		t.Fatalf("err = %v, want UnknownCategoryError{product}", err)
	}
	_, err = b.Seed(hist, "Chairs", "Hue")
	if !errors.As(err, &uc) || uc.Kind != "location" {
		t.Fatalf("err = %v, want UnknownCategoryError{location}", err)
	}
}

func TestSeedRejectsInvalidRecord(t *testing.T) {
	b := NewBuilder(testVocab)
	target := day(2024, 10, 7)
	hist := makeHistory(target, 28, 50)
	hist[3].CongestionIndex = 1.5

	_, err := b.Seed(hist, "Chairs", "Hanoi")
	var ir *errs.InvalidRecordError
	if !errors.As(err, &ir) || ir.Field != "congestion_index" {
		t.Fatalf("err = %v, want InvalidRecordError{congestion_index}", err)
	}
}

func TestBuildOneRejectsInvalidContext(t *testing.T) {
	b := NewBuilder(testVocab)
	target := day(2024, 10, 7)
	hist := makeHistory(target, 28, 50)

	win, err := b.Seed(hist, "Chairs", "Hanoi")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	bad := ctxFor(target)
	bad.Rainfall = -1
	if _, err := b.BuildOne(win, "Chairs", "Hanoi", bad); err == nil {
		t.Fatalf("expected invalid context error")
	}
	bad = ctxFor(target)
	bad.HolidayFlag = 2
	if _, err := b.BuildOne(win, "Chairs", "Hanoi", bad); err == nil {
		t.Fatalf("expected invalid flag error")
	}
}

func TestFeatureVectorOneHotAndDerived(t *testing.T) {
	fv := models.FeatureVector{ProductID: "Chairs", LocationID: "Hanoi", Rainfall: 60, CongestionIndex: 0.9, DOW: 6}

	cases := map[string]float64{
		"product_Chairs":  1,
		"product_Tables":  0,
		"location_Hanoi":  1,
		"location_Danang": 0,
		"heavy_rain":      1,
		"high_congestion": 1,
		"is_weekend":      1,
		"extreme_temp":    0,
	}
	for name, want := range cases {
		got, ok := fv.Value(name)
		if !ok || got != want {
			t.Fatalf("Value(%q) = %v (ok=%v), want %v", name, got, ok, want)
		}
	}
	if _, ok := fv.Value("bogus"); ok {
		t.Fatalf("unknown feature name should not resolve")
	}
}
