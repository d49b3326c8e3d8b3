//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideRateLimiter,

		// Upstream clients
		ProvidePriceProvider,
		ProvideNewsProvider,
		ProvideTextScorer,
		ProvideExplainer,
		ProvideEventPublisher,

		// Use case
		ProvideMarketPulse,

		// HTTP surface
		ProvidePulseHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
