package repository

import (
	"context"

	"MarketPulse/internal/domain/models"
)

// PriceProvider fetches the daily closing-price series for a ticker.
// Price data is mandatory for a pulse: failures here abort the request.
type PriceProvider interface {
	FetchDaily(ctx context.Context, ticker string) (*models.PriceSeries, error)
}

// NewsProvider fetches recent headlines for a ticker, most relevant first.
// May return an empty slice. Failures are absorbed by the orchestrator.
type NewsProvider interface {
	FetchLatest(ctx context.Context, ticker string) ([]models.RawArticle, error)
}

// TextScorer produces a bounded polarity score in [-1, 1] for a piece of
// text. Deterministic for identical input.
type TextScorer interface {
	Score(text string) float64
}

// ExplanationGenerator turns the classified signal payload into a short
// natural-language rationale.
type ExplanationGenerator interface {
	Generate(ctx context.Context, payload *models.PulsePayload) (string, error)
}

// EventPublisher emits a pulse.computed event for downstream consumers.
type EventPublisher interface {
	PublishComputed(ctx context.Context, res *models.PulseResult) error
	Close() error
}

type Metrics interface {
	RecordRequest(outcome string)
	RecordCacheLookup(hit bool)
	RecordUpstreamLatency(source string, seconds float64)
	RecordCombinedSignal(ticker string, value float64)
	RecordError(kind string)
}
