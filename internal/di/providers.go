package di

import (
	"context"
	"fmt"
	"time"

	"RetailPulse/internal/domain/repository"
	domsvc "RetailPulse/internal/domain/service"
	"RetailPulse/internal/handler/api"
	mid "RetailPulse/internal/middleware"
	internalrepo "RetailPulse/internal/repository"
	icache "RetailPulse/internal/service/cache"
	"RetailPulse/internal/service/artifact"
	"RetailPulse/internal/service/contextfeed"
	"RetailPulse/internal/services/features"
	"RetailPulse/internal/services/predict"
	"RetailPulse/internal/usecase"
	pkgch "RetailPulse/pkg/clickhouse"
	"RetailPulse/pkg/config"
	xhttp "RetailPulse/pkg/http"
	pkgkafka "RetailPulse/pkg/kafka"
	applogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/metrics"
	"RetailPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// sales schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := salesTable(cfg)
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + table + ` (
            date Date,
            product_id String,
            location_id String,
            units_sold Float64,
            temperature Float64,
            rainfall Float64,
            holiday_flag UInt8,
            promotion_flag UInt8,
            congestion_index Float64
        ) ENGINE=ReplacingMergeTree ORDER BY (product_id, location_id, date)`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

func salesTable(cfg *config.Config) string {
	table := cfg.ClickHouse.SalesTable
	if table == "" {
		table = "sales_daily"
	}
	return cfg.ClickHouse.Database + "." + table
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHistoryStore creates the ClickHouse history reader.
func ProvideHistoryStore(chClient *pkgch.Client, l *applogger.Logger, cfg *config.Config) repository.HistoryStore {
	store := internalrepo.NewCHHistoryStore(chClient, salesTable(cfg))
	store.SetLogger(l)
	return store
}

// ProvideStorage creates the ClickHouse ingest writer.
func ProvideStorage(chClient *pkgch.Client, l *applogger.Logger, cfg *config.Config) repository.Storage {
	storage := internalrepo.NewCHStorage(chClient, salesTable(cfg))
	storage.SetLogger(l)
	return storage
}

// ProvidePublisher creates the Kafka record publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideContextStream creates the WebSocket context feed.
func ProvideContextStream(cfg *config.Config) repository.ContextStream {
	return contextfeed.New(
		cfg.ContextFeed.APIKey,
		cfg.ContextFeed.WebSocketURL,
		cfg.ContextFeed.Locations,
		cfg.ContextFeed.ReconnectDelay,
		cfg.ContextFeed.PingInterval,
	)
}

// ProvideFeatureBuilder loads the encoding vocabulary and creates the
// feature builder the adapters share.
func ProvideFeatureBuilder(cfg *config.Config) (*features.Builder, error) {
	file := cfg.Models.VocabularyFile
	if file == "" {
		file = "vocabulary.json"
	}
	vocab, err := artifact.LoadVocabulary(cfg.Models.Dir, file)
	if err != nil {
		return nil, err
	}
	return features.NewBuilder(vocab), nil
}

// ProvideForecaster loads the demand model artifact. A missing artifact
// is tolerated: the adapter comes up without a predictor and every
// forecast fails with PredictorUnavailableError until one is shipped.
func ProvideForecaster(cfg *config.Config, builder *features.Builder, l *applogger.Logger) (domsvc.DemandForecaster, error) {
	file := cfg.Models.ForecastFile
	if file == "" {
		file = "demand.json"
	}
	pred, schema, err := artifact.LoadOptional(cfg.Models.Dir, file)
	if err != nil {
		return nil, fmt.Errorf("demand artifact: %w", err)
	}
	if pred == nil {
		l.Warn("demand artifact missing, forecaster degraded",
			applogger.String("dir", cfg.Models.Dir), applogger.String("file", file))
	}
	return predict.NewForecaster(pred, schema, builder), nil
}

// ProvideRiskClassifier loads the risk model artifact, with the same
// missing-artifact tolerance as the forecaster.
func ProvideRiskClassifier(cfg *config.Config, l *applogger.Logger) (domsvc.RiskClassifier, error) {
	file := cfg.Models.RiskFile
	if file == "" {
		file = "risk.json"
	}
	pred, schema, err := artifact.LoadOptional(cfg.Models.Dir, file)
	if err != nil {
		return nil, fmt.Errorf("risk artifact: %w", err)
	}
	if pred == nil {
		l.Warn("risk artifact missing, classifier degraded",
			applogger.String("dir", cfg.Models.Dir), applogger.String("file", file))
	}
	return predict.NewRisk(pred, schema), nil
}

// ProvideDecisionPipeline assembles the hybrid decision pipeline.
func ProvideDecisionPipeline(
	store repository.HistoryStore,
	builder *features.Builder,
	forecaster domsvc.DemandForecaster,
	classifier domsvc.RiskClassifier,
	m repository.Metrics,
) *usecase.DecisionPipeline {
	return usecase.NewDecisionPipeline(store, builder, forecaster, classifier, m)
}

// ProvideScenarioSimulator creates the what-if simulator.
func ProvideScenarioSimulator(pipeline *usecase.DecisionPipeline) *usecase.ScenarioSimulator {
	return usecase.NewScenarioSimulator(pipeline)
}

// ProvideHistoryUseCase creates the history read use case.
func ProvideHistoryUseCase(store repository.HistoryStore) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideRecordProcessor creates the ingest record processor.
func ProvideRecordProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.RecordProcessor {
	return usecase.NewRecordProcessor(
		pub,
		store,
		m,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideRecordCollector creates the stream collector with a throttling
// pipeline between the feed and the backend, plus the REST backfill
// source when a rest_url is configured.
func ProvideRecordCollector(
	stream repository.ContextStream,
	processor *usecase.RecordProcessor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.RecordCollector {
	pipe := mid.NewIngestPipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	collector := usecase.NewRecordCollector(stream, processor, m, pipe)
	if cfg.ContextFeed.RESTURL != "" {
		backfill := contextfeed.NewBackfill(cfg.ContextFeed.RESTURL, cfg.ContextFeed.APIKey, 15*time.Second)
		collector.SetBackfill(backfill, cfg.ContextFeed.Locations, cfg.ContextFeed.BackfillDays)
	}
	return collector
}

// ProvideKafkaRecordsHandler registers the handler for the records topic.
func ProvideKafkaRecordsHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	return usecase.NewKafkaRecordsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideHTTPHandler builds the decision API handler with its response
// cache.
func ProvideHTTPHandler(
	l *applogger.Logger,
	pipeline *usecase.DecisionPipeline,
	sim *usecase.ScenarioSimulator,
	hist *usecase.HistoryUseCase,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewDecisionEchoHandler(l, pipeline, sim, hist)
	if cfg.Decision.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Decision.Redis.Addr,
			Password: cfg.Decision.Redis.Password,
			DB:       cfg.Decision.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.RecordCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, collector, consumer, kh, chClient, httpHandler)
}
