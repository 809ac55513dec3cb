package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	pkgch "RetailPulse/pkg/clickhouse"
	applogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/util"
)

const insertChunk = 500

// CHStorage writes sales records into ClickHouse.
type CHStorage struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHStorage(ch *pkgch.Client, table string) *CHStorage {
	return &CHStorage{db: ch.DB(), table: table}
}

func (s *CHStorage) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHStorage) Store(ctx context.Context, rec *models.SalesRecord) error {
	return s.StoreBatch(ctx, []*models.SalesRecord{rec})
}

func (s *CHStorage) StoreBatch(ctx context.Context, recs []*models.SalesRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for i := 0; i < len(recs); i += insertChunk {
		end := i + insertChunk
		if end > len(recs) {
			end = len(recs)
		}
		if err := s.insert(ctx, recs[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *CHStorage) insert(ctx context.Context, recs []*models.SalesRecord) error {
	start := time.Now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (date, product_id, location_id, units_sold, temperature, rainfall, holiday_flag, promotion_flag, congestion_index) VALUES ", s.table)
	args := make([]any, 0, len(recs)*9)
	for i, r := range recs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, util.Day(r.Date), r.ProductID, r.LocationID, r.UnitsSold,
			r.Temperature, r.Rainfall, r.HolidayFlag, r.PromotionFlag, r.CongestionIndex)
	}
	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse insert error",
				applogger.String("table", s.table),
				applogger.Int("rows", len(recs)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert sales batch: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse insert ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(recs)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var _ domrepo.Storage = (*CHStorage)(nil)
