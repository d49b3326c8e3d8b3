package newsapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/ratelimit"
	xhttp "MarketPulse/pkg/http"
)

// Client fetches recent headlines from the NewsAPI /v2/everything endpoint.
type Client struct {
	apiKey    string
	baseURL   string
	pageSize  int
	client    *xhttp.Client
	limiter   *ratelimit.Limiter
	maxPerMin float64
}

// New creates a NewsAPI client.
func New(apiKey, baseURL string, timeout time.Duration, pageSize int, limiter *ratelimit.Limiter, maxPerMin float64) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		pageSize:  pageSize,
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:   limiter,
		maxPerMin: maxPerMin,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"articles"`
}

// FetchLatest returns recent articles mentioning the ticker, newest first
// as sorted upstream. An empty result is not an error.
func (c *Client) FetchLatest(ctx context.Context, ticker string) ([]models.RawArticle, error) {
	if c.limiter != nil && !c.limiter.AllowPerMinute("newsapi", c.maxPerMin) {
		return nil, fmt.Errorf("newsapi: local rate limit exceeded: %w", repository.ErrUpstream)
	}

	var resp everythingResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/everything",
		QueryParams: map[string][]string{
			"q":        {ticker},
			"pageSize": {strconv.Itoa(c.pageSize)},
			"sortBy":   {"publishedAt"},
			"apiKey":   {c.apiKey},
		},
	}, &resp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("newsapi: %w", repository.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("newsapi: %v: %w", err, repository.ErrUpstream)
	}

	articles := make([]models.RawArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, models.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
		})
	}
	return articles, nil
}
