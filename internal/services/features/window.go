package features

import (
	"math"
	"time"

	"RetailPulse/pkg/util"
)

// SalesWindow is a mutable rolling buffer of daily sales, seeded from
// history and extended one value at a time. It is the accumulator behind
// the iterative forecast loop: appending a predicted day makes it available
// to the next day's lag and rolling features, keeping the pipeline a pure
// function of its initial inputs.
type SalesWindow struct {
	sales map[time.Time]float64
	last  time.Time
}

// NewSalesWindow builds a window over pre-validated history.
func NewSalesWindow() *SalesWindow {
	return &SalesWindow{sales: make(map[time.Time]float64)}
}

// Append records the sales value for a day, overwriting any prior value.
func (w *SalesWindow) Append(d time.Time, v float64) {
	d = util.Day(d)
	w.sales[d] = v
	if d.After(w.last) {
		w.last = d
	}
}

// Lag returns sales at d minus n days.
func (w *SalesWindow) Lag(d time.Time, n int) (float64, bool) {
	v, ok := w.sales[util.Day(d).AddDate(0, 0, -n)]
	return v, ok
}

// Last returns the most recent day in the window.
func (w *SalesWindow) Last() time.Time { return w.last }

// Stats returns mean and sample standard deviation over the `window` days
// strictly preceding d. missing is the sub-range of absent days when the
// window cannot be computed.
func (w *SalesWindow) Stats(d time.Time, window int) (mean, std float64, missingFrom, missingTo time.Time, ok bool) {
	d = util.Day(d)
	var sum, sum2 float64
	var firstMissing, lastMissing time.Time
	for i := window; i >= 1; i-- {
		day := d.AddDate(0, 0, -i)
		v, present := w.sales[day]
		if !present {
			if firstMissing.IsZero() {
				firstMissing = day
			}
			lastMissing = day
			continue
		}
		sum += v
		sum2 += v * v
	}
	if !firstMissing.IsZero() {
		return 0, 0, firstMissing, lastMissing, false
	}
	n := float64(window)
	mean = sum / n
	variance := 0.0
	if window > 1 {
		variance = (sum2 - n*mean*mean) / (n - 1)
		if variance < 0 {
			variance = 0
		}
	}
	return mean, math.Sqrt(variance), time.Time{}, time.Time{}, true
}

// TrailingMean returns the mean over up to n most recent days ending at the
// window's last day. Used to project context-independent placeholders past
// the end of history.
func (w *SalesWindow) TrailingMean(n int) float64 {
	if w.last.IsZero() || n <= 0 {
		return 0
	}
	var sum float64
	count := 0
	for i := 0; i < n; i++ {
		if v, ok := w.sales[w.last.AddDate(0, 0, -i)]; ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
