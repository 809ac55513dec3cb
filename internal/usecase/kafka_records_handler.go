package usecase

import (
	"context"
	"encoding/json"
	"time"

	"RetailPulse/internal/domain/models"
	domrepo "RetailPulse/internal/domain/repository"
	"RetailPulse/internal/services/features"
	pkgkafka "RetailPulse/pkg/kafka"
	"RetailPulse/pkg/util"
)

// KafkaRecordsHandler consumes sales records from Kafka and writes them to
// storage, enforcing the same range validation as the HTTP-facing core.
type KafkaRecordsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaRecordsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaRecordsHandler {
	return &KafkaRecordsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaRecordsHandler) Topic() string { return h.topic }

// incoming message schema matches SalesRecord JSON with a string date.
func (h *KafkaRecordsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Date            string  `json:"date"`
		ProductID       string  `json:"product_id"`
		LocationID      string  `json:"location_id"`
		UnitsSold       float64 `json:"units_sold"`
		Temperature     float64 `json:"temperature"`
		Rainfall        float64 `json:"rainfall"`
		HolidayFlag     int     `json:"holiday_flag"`
		PromotionFlag   int     `json:"promotion_flag"`
		CongestionIndex float64 `json:"congestion_index"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	date, ok := util.ParseTime(m.Date)
	if !ok {
		h.metrics.RecordError("consumer_date")
		return &timeParseError{raw: m.Date}
	}

	rec := &models.SalesRecord{
		Date:            util.Day(date),
		ProductID:       m.ProductID,
		LocationID:      m.LocationID,
		UnitsSold:       m.UnitsSold,
		Temperature:     m.Temperature,
		Rainfall:        m.Rainfall,
		HolidayFlag:     m.HolidayFlag,
		PromotionFlag:   m.PromotionFlag,
		CongestionIndex: m.CongestionIndex,
	}
	if err := features.ValidateRecord(*rec); err != nil {
		h.metrics.RecordError("consumer_validate")
		return err
	}

	start := time.Now()
	if err := h.storage.Store(ctx, rec); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	h.metrics.RecordIngested("clickhouse", rec.LocationID)
	return nil
}

type timeParseError struct{ raw string }

func (e *timeParseError) Error() string { return "unparseable record date: " + e.raw }

var _ pkgkafka.MessageHandler = (*KafkaRecordsHandler)(nil)
