package di

import (
	"fmt"
	"strings"

	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/handler/api"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/service/alphavantage"
	"MarketPulse/internal/service/llm"
	"MarketPulse/internal/service/newsapi"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/service/sentiment"
	"MarketPulse/internal/usecase"
	pkgcache "MarketPulse/pkg/cache"
	"MarketPulse/pkg/config"
	pkgkafka "MarketPulse/pkg/kafka"
	"MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache selects the cache backend from config. Memory is the
// default; Redis is opted into for multi-instance deployments.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "", "memory":
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		), nil
	case "redis":
		return pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideRateLimiter creates the shared per-upstream rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvidePriceProvider creates the Alpha Vantage daily price client.
func ProvidePriceProvider(cfg *config.Config, rl *ratelimit.Limiter) repository.PriceProvider {
	return alphavantage.New(
		cfg.AlphaVantage.APIKey,
		cfg.AlphaVantage.BaseURL,
		cfg.AlphaVantage.Timeout,
		rl,
		cfg.AlphaVantage.MaxPerMin,
	)
}

// ProvideNewsProvider creates the NewsAPI headline client.
func ProvideNewsProvider(cfg *config.Config, rl *ratelimit.Limiter) repository.NewsProvider {
	return newsapi.New(
		cfg.NewsAPI.APIKey,
		cfg.NewsAPI.BaseURL,
		cfg.NewsAPI.Timeout,
		cfg.NewsAPI.PageSize,
		rl,
		cfg.NewsAPI.MaxPerMin,
	)
}

// ProvideTextScorer creates the VADER sentiment analyzer.
func ProvideTextScorer() repository.TextScorer {
	return sentiment.NewAnalyzer()
}

// ProvideExplainer creates the LLM explanation generator.
func ProvideExplainer(cfg *config.Config) (repository.ExplanationGenerator, error) {
	return llm.NewGenerator(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
}

// ProvideEventPublisher creates the Kafka publisher for pulse.computed
// events, or nil when event publishing is disabled.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression("snappy"),
		pkgkafka.WithRequiredAcks(1),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPulseEvents(producer, cfg.Events.Topic), nil
}

// ProvideMarketPulse creates the pulse orchestration use case.
func ProvideMarketPulse(
	cfg *config.Config,
	prices repository.PriceProvider,
	news repository.NewsProvider,
	scorer repository.TextScorer,
	explainer repository.ExplanationGenerator,
	cache pkgcache.Service,
	events repository.EventPublisher,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.MarketPulse {
	return usecase.NewMarketPulse(usecase.MarketPulseConfig{
		CacheTTL:        cfg.Cache.TTL,
		PriceTimeout:    cfg.AlphaVantage.Timeout,
		NewsTimeout:     cfg.NewsAPI.Timeout,
		OverallTimeout:  cfg.Pulse.OverallTimeout,
		TopNews:         cfg.Pulse.TopNews,
		SentimentWeight: cfg.Pulse.SentimentWeight,
	}, prices, news, scorer, explainer, cache, events, m, l)
}

// ProvidePulseHandler creates the HTTP handler.
func ProvidePulseHandler(l *logger.Logger, pulse *usecase.MarketPulse) *api.PulseHandler {
	return api.NewPulseHandler(l, pulse)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.PulseHandler,
	cache pkgcache.Service,
	events repository.EventPublisher,
	l *logger.Logger,
) *server.App {
	return server.New(cfg, handler, cache, events, l)
}
