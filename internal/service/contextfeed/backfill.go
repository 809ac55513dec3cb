package contextfeed

import (
	"context"
	"fmt"
	"time"

	"RetailPulse/internal/domain/models"
	xhttp "RetailPulse/pkg/http"
	"RetailPulse/pkg/util"
)

// Backfill fetches historical observations over REST for the gap
// between the last stored day and now, for replay after an outage.
type Backfill struct {
	client  *xhttp.Client
	baseURL string
	apiKey  string
}

func NewBackfill(baseURL, apiKey string, timeout time.Duration) *Backfill {
	return &Backfill{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Fetch returns daily observations for a location in [from, to].
func (b *Backfill) Fetch(ctx context.Context, location string, from, to time.Time) ([]*models.SalesRecord, error) {
	var payload struct {
		Data []feedObservation `json:"data"`
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    b.baseURL + "/observations",
		Headers: map[string]string{
			"X-Api-Key": b.apiKey,
		},
		QueryParams: map[string][]string{
			"location": {location},
			"from":     {util.Day(from).Format(util.DateLayout)},
			"to":       {util.Day(to).Format(util.DateLayout)},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("backfill %s: %w", location, err)
	}

	out := make([]*models.SalesRecord, 0, len(payload.Data))
	for _, d := range payload.Data {
		date, ok := util.ParseTime(d.Date)
		if !ok {
			continue
		}
		out = append(out, &models.SalesRecord{
			Date:            util.Day(date),
			ProductID:       d.Product,
			LocationID:      d.Location,
			UnitsSold:       d.Units,
			Temperature:     d.Temp,
			Rainfall:        d.Rain,
			HolidayFlag:     d.Holiday,
			PromotionFlag:   d.Promotion,
			CongestionIndex: d.Congestion,
		})
	}
	return out, nil
}
