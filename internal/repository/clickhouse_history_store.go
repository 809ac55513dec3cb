package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	pkgch "RetailPulse/pkg/clickhouse"
	applogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/util"
)

// CHHistoryStore implements HistoryStore backed by ClickHouse.
type CHHistoryStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHHistoryStore(ch *pkgch.Client, table string) *CHHistoryStore {
	return &CHHistoryStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHHistoryStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHHistoryStore) GetHistory(ctx context.Context, productID, locationID string, from, to time.Time) ([]models.SalesRecord, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, product_id, location_id, units_sold, temperature, rainfall, holiday_flag, promotion_flag, congestion_index
        FROM %s
        WHERE product_id = ? AND location_id = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, productID, locationID, util.Day(from), util.Day(to))
	if err != nil {
		s.logErr("get_history query error", productID, locationID, err)
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	out, err := s.scanRecords(rows)
	if err != nil {
		s.logErr("get_history scan error", productID, locationID, err)
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse get_history ok",
			applogger.String("product", productID),
			applogger.String("location", locationID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHHistoryStore) GetLatestN(ctx context.Context, productID, locationID string, n int) ([]models.SalesRecord, error) {
	if n <= 0 {
		n = 1
	}
	q := fmt.Sprintf(`
        SELECT date, product_id, location_id, units_sold, temperature, rainfall, holiday_flag, promotion_flag, congestion_index
        FROM %s
        WHERE product_id = ? AND location_id = ?
        ORDER BY date DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, productID, locationID, n)
	if err != nil {
		s.logErr("get_latest_n query error", productID, locationID, err)
		return nil, fmt.Errorf("get latest: %w", err)
	}
	defer rows.Close()

	out, err := s.scanRecords(rows)
	if err != nil {
		s.logErr("get_latest_n scan error", productID, locationID, err)
		return nil, err
	}
	// query is DESC for the LIMIT; callers expect ascending order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *CHHistoryStore) Products(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "product_id")
}

func (s *CHHistoryStore) Locations(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "location_id")
}

func (s *CHHistoryStore) distinct(ctx context.Context, col string) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", col, s.table, col)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", col, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *CHHistoryStore) scanRecords(rows *sql.Rows) ([]models.SalesRecord, error) {
	out := make([]models.SalesRecord, 0, 128)
	for rows.Next() {
		var r models.SalesRecord
		var date time.Time
		if err := rows.Scan(&date, &r.ProductID, &r.LocationID, &r.UnitsSold, &r.Temperature, &r.Rainfall, &r.HolidayFlag, &r.PromotionFlag, &r.CongestionIndex); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Date = util.Day(date)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHHistoryStore) logErr(msg, productID, locationID string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("table", s.table),
		applogger.String("product", productID),
		applogger.String("location", locationID),
		applogger.Error(err),
	)
}

var _ domrepo.HistoryStore = (*CHHistoryStore)(nil)
