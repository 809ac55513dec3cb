//go:build wireinject
// +build wireinject

package di

import (
	"RetailPulse/pkg/config"
	"RetailPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideHistoryStore,
		ProvideStorage,
		ProvidePublisher,
		ProvideContextStream,

		// Model artifacts and adapters
		ProvideFeatureBuilder,
		ProvideForecaster,
		ProvideRiskClassifier,

		// Use cases
		ProvideDecisionPipeline,
		ProvideScenarioSimulator,
		ProvideHistoryUseCase,
		ProvideRecordProcessor,
		ProvideRecordCollector,
		ProvideKafkaRecordsHandler,

		// Presentation
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
