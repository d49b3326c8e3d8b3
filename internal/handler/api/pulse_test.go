package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/cache"
	"MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubPrices struct{ err error }

func (s stubPrices) FetchDaily(ctx context.Context, ticker string) (*models.PriceSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	closes := make([]float64, 21)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.01
	}
	return &models.PriceSeries{
		Ticker: ticker,
		Closes: closes,
		AsOf:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}, nil
}

type stubNews struct{}

func (stubNews) FetchLatest(context.Context, string) ([]models.RawArticle, error) {
	return []models.RawArticle{{Title: "Shares rally", URL: "https://example.com/a"}}, nil
}

type stubScorer struct{}

func (stubScorer) Score(string) float64 { return 0.3 }

type stubExplainer struct{}

func (stubExplainer) Generate(_ context.Context, p *models.PulsePayload) (string, error) {
	return fmt.Sprintf("%s is %s", p.Ticker, p.Pulse), nil
}

type stubMetrics struct{}

func (stubMetrics) RecordRequest(string)                  {}
func (stubMetrics) RecordCacheLookup(bool)                {}
func (stubMetrics) RecordUpstreamLatency(string, float64) {}
func (stubMetrics) RecordCombinedSignal(string, float64)  {}
func (stubMetrics) RecordError(string)                    {}

func newHandler(t *testing.T, priceErr error) *PulseHandler {
	t.Helper()
	lg, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	uc := usecase.NewMarketPulse(usecase.MarketPulseConfig{},
		stubPrices{err: priceErr}, stubNews{}, stubScorer{}, stubExplainer{},
		cache.NewMemoryCache(), nil, stubMetrics{}, lg)
	return NewPulseHandler(lg, uc)
}

func doRequest(t *testing.T, h *PulseHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/market-pulse"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/market-pulse")
	if err := h.MarketPulse(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestMarketPulseHandlerOK(t *testing.T) {
	rec := doRequest(t, newHandler(t, nil), "?ticker=AAPL")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"ticker":"AAPL"`, `"pulse":"bullish"`, `"explanation"`, `"as_of":"2025-06-02"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %s: %s", want, body)
		}
	}
}

func TestMarketPulseHandlerMissingTicker(t *testing.T) {
	rec := doRequest(t, newHandler(t, nil), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMarketPulseHandlerInvalidTicker(t *testing.T) {
	rec := doRequest(t, newHandler(t, nil), "?ticker=bad%20one")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMarketPulseHandlerUnknownTicker(t *testing.T) {
	h := newHandler(t, fmt.Errorf("lookup: %w", repository.ErrNotFound))
	rec := doRequest(t, h, "?ticker=ZZZZ")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMarketPulseHandlerUpstreamTimeout(t *testing.T) {
	h := newHandler(t, fmt.Errorf("fetch: %w", repository.ErrUpstreamTimeout))
	rec := doRequest(t, h, "?ticker=AAPL")
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
}

func TestMarketPulseHandlerUpstreamError(t *testing.T) {
	h := newHandler(t, fmt.Errorf("fetch: %w", repository.ErrUpstream))
	rec := doRequest(t, h, "?ticker=AAPL")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
