package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// KafkaPulseEvents implements EventPublisher for Kafka. Each freshly
// computed pulse is emitted as a pulse.computed event keyed by ticker so
// per-ticker ordering is preserved across partitions.
type KafkaPulseEvents struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPulseEvents creates a Kafka pulse event publisher.
func NewKafkaPulseEvents(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaPulseEvents{producer: producer, topic: topic}
}

type pulseComputedEvent struct {
	Event     string                `json:"event"`
	EmittedAt time.Time             `json:"emitted_at"`
	Ticker    string                `json:"ticker"`
	Pulse     models.Pulse          `json:"pulse"`
	AsOf      string                `json:"as_of"`
	Momentum  models.MomentumResult `json:"momentum"`
	NewsCount int                   `json:"news_count"`
}

func (p *KafkaPulseEvents) PublishComputed(ctx context.Context, res *models.PulseResult) error {
	ev := pulseComputedEvent{
		Event:     "pulse.computed",
		EmittedAt: time.Now().UTC(),
		Ticker:    res.Ticker,
		Pulse:     res.Pulse,
		AsOf:      res.AsOf,
		Momentum:  res.Momentum,
		NewsCount: len(res.News),
	}
	return p.producer.Publish(ctx, p.topic, []byte(res.Ticker), ev)
}

func (p *KafkaPulseEvents) Close() error {
	return p.producer.Close()
}
