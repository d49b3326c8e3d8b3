package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/cache"
	"MarketPulse/pkg/logger"
)

type fakePrices struct {
	calls  atomic.Int64
	delay  time.Duration
	err    error
	closes []float64
}

func (f *fakePrices) FetchDaily(ctx context.Context, ticker string) (*models.PriceSeries, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.PriceSeries{
		Ticker: ticker,
		Closes: f.closes,
		AsOf:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeNews struct {
	delay    time.Duration
	err      error
	articles []models.RawArticle
}

func (f *fakeNews) FetchLatest(ctx context.Context, ticker string) ([]models.RawArticle, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type constScorer struct{ score float64 }

func (s constScorer) Score(string) float64 { return s.score }

type fakeExplainer struct {
	err  error
	text string
}

func (f *fakeExplainer) Generate(ctx context.Context, p *models.PulsePayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return fmt.Sprintf("%s looks %s", p.Ticker, p.Pulse), nil
}

type noopMetrics struct{}

func (noopMetrics) RecordRequest(string)                  {}
func (noopMetrics) RecordCacheLookup(bool)                {}
func (noopMetrics) RecordUpstreamLatency(string, float64) {}
func (noopMetrics) RecordCombinedSignal(string, float64)  {}
func (noopMetrics) RecordError(string)                    {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lg, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return lg
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		closes[i] = closes[i-1] * 1.01
	}
	return closes
}

func newTestPulse(t *testing.T, prices *fakePrices, news *fakeNews, explainer *fakeExplainer, cfg MarketPulseConfig) *MarketPulse {
	t.Helper()
	return NewMarketPulse(cfg, prices, news, constScorer{score: 0.2}, explainer,
		cache.NewMemoryCache(), nil, noopMetrics{}, testLogger(t))
}

func TestGetMarketPulseComputesAndCaches(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(21)}
	news := &fakeNews{articles: []models.RawArticle{
		{Title: "Record quarter", Description: "earnings beat", URL: "https://example.com/1"},
	}}
	uc := newTestPulse(t, prices, news, &fakeExplainer{}, MarketPulseConfig{})

	res, err := uc.GetMarketPulse(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ticker != "AAPL" {
		t.Fatalf("ticker = %q", res.Ticker)
	}
	if res.Pulse != models.PulseBullish {
		t.Fatalf("pulse = %q, want bullish", res.Pulse)
	}
	if res.AsOf != "2025-06-02" {
		t.Fatalf("as_of = %q", res.AsOf)
	}
	if len(res.News) != 1 || res.News[0].Sentiment != 0.2 {
		t.Fatalf("news = %+v", res.News)
	}
	if res.Explanation == "" {
		t.Fatal("explanation must be present")
	}

	again, err := uc.GetMarketPulse(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if n := prices.calls.Load(); n != 1 {
		t.Fatalf("price provider called %d times, want 1", n)
	}
	if again.Explanation != res.Explanation || again.Pulse != res.Pulse {
		t.Fatalf("cached result diverged: %+v vs %+v", again, res)
	}
}

func TestGetMarketPulseNormalizesTicker(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(7)}
	uc := newTestPulse(t, prices, &fakeNews{}, &fakeExplainer{}, MarketPulseConfig{})

	res, err := uc.GetMarketPulse(context.Background(), "  nvda ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ticker != "NVDA" {
		t.Fatalf("ticker = %q, want NVDA", res.Ticker)
	}

	// Canonical form shares the cache entry.
	if _, err := uc.GetMarketPulse(context.Background(), "NVDA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := prices.calls.Load(); n != 1 {
		t.Fatalf("price provider called %d times, want 1", n)
	}
}

func TestGetMarketPulseInvalidTicker(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(7)}
	uc := newTestPulse(t, prices, &fakeNews{}, &fakeExplainer{}, MarketPulseConfig{})

	for _, raw := range []string{"", "   ", "TOOLONGTICKER", "BAD TICKER", "1BAD"} {
		if _, err := uc.GetMarketPulse(context.Background(), raw); !errors.Is(err, repository.ErrInvalidTicker) {
			t.Fatalf("ticker %q: expected ErrInvalidTicker, got %v", raw, err)
		}
	}
	if n := prices.calls.Load(); n != 0 {
		t.Fatalf("price provider called %d times for invalid input", n)
	}
}

func TestGetMarketPulseNewsFailureTolerated(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(21)}
	news := &fakeNews{err: errors.New("news upstream down")}
	uc := newTestPulse(t, prices, news, &fakeExplainer{}, MarketPulseConfig{})

	res, err := uc.GetMarketPulse(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.News == nil || len(res.News) != 0 {
		t.Fatalf("news = %#v, want empty non-nil list", res.News)
	}
	if res.Pulse != models.PulseBullish {
		t.Fatalf("pulse = %q, want bullish from momentum alone", res.Pulse)
	}
}

func TestGetMarketPulseFetchesConcurrently(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(7), delay: 120 * time.Millisecond}
	news := &fakeNews{delay: 120 * time.Millisecond}
	uc := newTestPulse(t, prices, news, &fakeExplainer{}, MarketPulseConfig{})

	start := time.Now()
	if _, err := uc.GetMarketPulse(context.Background(), "TSLA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 220*time.Millisecond {
		t.Fatalf("took %v, upstream calls appear sequential", elapsed)
	}
}

func TestGetMarketPulsePriceTimeout(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(7), delay: time.Second}
	uc := newTestPulse(t, prices, &fakeNews{}, &fakeExplainer{}, MarketPulseConfig{
		PriceTimeout: 30 * time.Millisecond,
	})

	_, err := uc.GetMarketPulse(context.Background(), "IBM")
	if !errors.Is(err, repository.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestGetMarketPulseNotFoundPropagates(t *testing.T) {
	prices := &fakePrices{err: fmt.Errorf("ticker: %w", repository.ErrNotFound)}
	uc := newTestPulse(t, prices, &fakeNews{}, &fakeExplainer{}, MarketPulseConfig{})

	_, err := uc.GetMarketPulse(context.Background(), "ZZZZ")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMarketPulseExplainerFailureNotCached(t *testing.T) {
	prices := &fakePrices{closes: risingCloses(7)}
	explainer := &fakeExplainer{err: errors.New("model unavailable")}
	uc := newTestPulse(t, prices, &fakeNews{}, explainer, MarketPulseConfig{})

	if _, err := uc.GetMarketPulse(context.Background(), "AMD"); err == nil {
		t.Fatal("expected error from failed explanation")
	}

	explainer.err = nil
	if _, err := uc.GetMarketPulse(context.Background(), "AMD"); err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if n := prices.calls.Load(); n != 2 {
		t.Fatalf("price provider called %d times, want 2 (failure must not populate cache)", n)
	}
}

func TestGetMarketPulseInsufficientData(t *testing.T) {
	prices := &fakePrices{closes: []float64{100, 101}}
	uc := newTestPulse(t, prices, &fakeNews{}, &fakeExplainer{}, MarketPulseConfig{})

	_, err := uc.GetMarketPulse(context.Background(), "NEW")
	if !errors.Is(err, repository.ErrDataInsufficient) {
		t.Fatalf("expected ErrDataInsufficient, got %v", err)
	}
}
