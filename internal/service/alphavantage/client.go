package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/ratelimit"
	xhttp "MarketPulse/pkg/http"
)

// Client fetches daily closing prices from the Alpha Vantage
// TIME_SERIES_DAILY endpoint.
type Client struct {
	apiKey    string
	baseURL   string
	client    *xhttp.Client
	limiter   *ratelimit.Limiter
	maxPerMin float64
}

// New creates an Alpha Vantage client.
func New(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, maxPerMin float64) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:   limiter,
		maxPerMin: maxPerMin,
	}
}

type dailyResponse struct {
	TimeSeries map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// FetchDaily returns the compact (~100 day) daily close series for ticker,
// oldest first. A response without the time-series block is NotFound.
func (c *Client) FetchDaily(ctx context.Context, ticker string) (*models.PriceSeries, error) {
	if c.limiter != nil && !c.limiter.AllowPerMinute("alphavantage", c.maxPerMin) {
		return nil, fmt.Errorf("alphavantage: local rate limit exceeded: %w", repository.ErrUpstream)
	}

	var resp dailyResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/query",
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY"},
			"symbol":     {ticker},
			"apikey":     {c.apiKey},
			"outputsize": {"compact"},
		},
	}, &resp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("alphavantage: %w", repository.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("alphavantage: %v: %w", err, repository.ErrUpstream)
	}

	if len(resp.TimeSeries) == 0 {
		// Ticker unknown, or the provider replied with a quota note.
		return nil, fmt.Errorf("alphavantage: no daily series for %q: %w", ticker, repository.ErrNotFound)
	}

	dates := make([]string, 0, len(resp.TimeSeries))
	for d := range resp.TimeSeries {
		dates = append(dates, d)
	}
	sort.Strings(dates) // YYYY-MM-DD sorts chronologically

	closes := make([]float64, 0, len(dates))
	for _, d := range dates {
		v, err := strconv.ParseFloat(resp.TimeSeries[d].Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad close %q on %s: %w", resp.TimeSeries[d].Close, d, repository.ErrUpstream)
		}
		closes = append(closes, v)
	}

	asOf, err := time.Parse("2006-01-02", dates[len(dates)-1])
	if err != nil {
		return nil, fmt.Errorf("alphavantage: bad date %q: %w", dates[len(dates)-1], repository.ErrUpstream)
	}

	return &models.PriceSeries{
		Ticker: ticker,
		Closes: closes,
		AsOf:   asOf,
	}, nil
}
