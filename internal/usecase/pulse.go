package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/sentiment"
	pkgcache "MarketPulse/pkg/cache"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeTicker trims and uppercases the raw symbol. Malformed symbols
// are rejected before any upstream call.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("ticker %q: %w", raw, domrepo.ErrInvalidTicker)
	}
	return t, nil
}

// MarketPulseConfig tunes the orchestration pipeline.
type MarketPulseConfig struct {
	CacheTTL        time.Duration
	PriceTimeout    time.Duration
	NewsTimeout     time.Duration
	OverallTimeout  time.Duration
	TopNews         int
	SentimentWeight float64
}

func (c *MarketPulseConfig) applyDefaults() {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 10 * time.Minute
	}
	if c.PriceTimeout <= 0 {
		c.PriceTimeout = 8 * time.Second
	}
	if c.NewsTimeout <= 0 {
		c.NewsTimeout = 5 * time.Second
	}
	if c.OverallTimeout <= 0 {
		c.OverallTimeout = 30 * time.Second
	}
	if c.TopNews <= 0 {
		c.TopNews = 5
	}
	if c.SentimentWeight <= 0 {
		c.SentimentWeight = DefaultSentimentWeight
	}
}

// MarketPulse turns a ticker into a PulseResult: cache lookup, concurrent
// price and news fetch, momentum and sentiment scoring, classification,
// explanation, cache fill.
type MarketPulse struct {
	cfg       MarketPulseConfig
	prices    domrepo.PriceProvider
	news      domrepo.NewsProvider
	scorer    domrepo.TextScorer
	explainer domrepo.ExplanationGenerator
	cache     pkgcache.Service
	events    domrepo.EventPublisher
	metrics   domrepo.Metrics
	logger    *xlogger.Logger
}

// NewMarketPulse creates the orchestrator. events may be nil when event
// publishing is disabled.
func NewMarketPulse(
	cfg MarketPulseConfig,
	prices domrepo.PriceProvider,
	news domrepo.NewsProvider,
	scorer domrepo.TextScorer,
	explainer domrepo.ExplanationGenerator,
	cache pkgcache.Service,
	events domrepo.EventPublisher,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) *MarketPulse {
	cfg.applyDefaults()
	return &MarketPulse{
		cfg:       cfg,
		prices:    prices,
		news:      news,
		scorer:    scorer,
		explainer: explainer,
		cache:     cache,
		events:    events,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetMarketPulse resolves one ticker to a PulseResult. Price data is
// mandatory; news failures degrade to an empty list with a neutral
// sentiment contribution. Failed outcomes are never cached.
func (uc *MarketPulse) GetMarketPulse(ctx context.Context, rawTicker string) (*models.PulseResult, error) {
	ticker, err := NormalizeTicker(rawTicker)
	if err != nil {
		uc.metrics.RecordRequest("invalid_ticker")
		return nil, err
	}

	key := pkgcache.GenerateKey("pulse", ticker)

	var cached models.PulseResult
	if err := uc.cache.Get(ctx, key, &cached); err == nil {
		uc.metrics.RecordCacheLookup(true)
		uc.metrics.RecordRequest("ok")
		return &cached, nil
	}
	uc.metrics.RecordCacheLookup(false)

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OverallTimeout)
	defer cancel()

	// Fan out both upstream calls so total latency is bounded by the
	// slower branch, not their sum.
	type priceOut struct {
		series *models.PriceSeries
		err    error
	}
	type newsOut struct {
		articles []models.RawArticle
		err      error
	}
	priceCh := make(chan priceOut, 1)
	newsCh := make(chan newsOut, 1)

	go func() {
		cctx, ccancel := context.WithTimeout(ctx, uc.cfg.PriceTimeout)
		defer ccancel()
		start := time.Now()
		s, err := uc.prices.FetchDaily(cctx, ticker)
		uc.metrics.RecordUpstreamLatency("price", time.Since(start).Seconds())
		priceCh <- priceOut{series: s, err: err}
	}()
	go func() {
		cctx, ccancel := context.WithTimeout(ctx, uc.cfg.NewsTimeout)
		defer ccancel()
		start := time.Now()
		a, err := uc.news.FetchLatest(cctx, ticker)
		uc.metrics.RecordUpstreamLatency("news", time.Since(start).Seconds())
		newsCh <- newsOut{articles: a, err: err}
	}()

	pr := <-priceCh
	if pr.err != nil {
		// Still-pending news branch is abandoned via ctx cancel.
		err := pr.err
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("price fetch: %w", domrepo.ErrUpstreamTimeout)
		}
		uc.recordFailure(err)
		return nil, err
	}

	nw := <-newsCh
	if nw.err != nil {
		// News is an enrichment signal, not a precondition.
		uc.logger.Warn("news fetch failed, proceeding without news",
			xlogger.String("ticker", ticker), xlogger.Error(nw.err))
		uc.metrics.RecordError("news_fetch")
		nw.articles = nil
	}

	momentum, err := ComputeMomentum(pr.series)
	if err != nil {
		uc.recordFailure(err)
		return nil, err
	}

	articles := sentiment.ScoreArticles(uc.scorer, nw.articles, uc.cfg.TopNews)
	meanSentiment := sentiment.Mean(articles)

	cls := Classify(momentum, meanSentiment, uc.cfg.SentimentWeight)

	payload := &models.PulsePayload{
		Ticker:         ticker,
		Returns:        momentum.Returns,
		SimpleScore:    momentum.SimpleScore,
		AdvancedScore:  momentum.AdvancedScore,
		News:           articles,
		MeanSentiment:  util.Round(meanSentiment, 4),
		CombinedSignal: util.Round2(cls.Combined),
		Pulse:          cls.Pulse,
	}

	explanation, err := uc.explainer.Generate(ctx, payload)
	if err != nil {
		uc.recordFailure(err)
		return nil, fmt.Errorf("explanation: %w", err)
	}

	res := &models.PulseResult{
		Ticker:      ticker,
		AsOf:        asOfDate(pr.series),
		Momentum:    momentum,
		News:        articles,
		Pulse:       cls.Pulse,
		Explanation: explanation,
	}

	if err := uc.cache.Set(ctx, key, res, uc.cfg.CacheTTL); err != nil {
		uc.logger.Warn("cache set failed", xlogger.String("ticker", ticker), xlogger.Error(err))
	}

	if uc.events != nil {
		go uc.publishEvent(res)
	}

	uc.metrics.RecordCombinedSignal(ticker, payload.CombinedSignal)
	uc.metrics.RecordRequest("ok")
	uc.logger.Info("pulse computed",
		xlogger.String("ticker", ticker),
		xlogger.String("pulse", string(cls.Pulse)),
		xlogger.Float64("combined", payload.CombinedSignal),
		xlogger.Int("news", len(articles)))

	return res, nil
}

func (uc *MarketPulse) publishEvent(res *models.PulseResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uc.events.PublishComputed(ctx, res); err != nil {
		uc.logger.Warn("pulse event publish failed",
			xlogger.String("ticker", res.Ticker), xlogger.Error(err))
	}
}

func (uc *MarketPulse) recordFailure(err error) {
	switch {
	case errors.Is(err, domrepo.ErrNotFound):
		uc.metrics.RecordRequest("not_found")
	case errors.Is(err, domrepo.ErrUpstreamTimeout):
		uc.metrics.RecordRequest("timeout")
	case errors.Is(err, domrepo.ErrDataInsufficient):
		uc.metrics.RecordRequest("data_insufficient")
	default:
		uc.metrics.RecordRequest("error")
	}
}

func asOfDate(series *models.PriceSeries) string {
	if series.AsOf.IsZero() {
		return time.Now().UTC().Format("2006-01-02")
	}
	return series.AsOf.Format("2006-01-02")
}
