package models

import "time"

// Pulse is the three-way categorical market outlook.
type Pulse string

const (
	PulseBullish Pulse = "bullish"
	PulseBearish Pulse = "bearish"
	PulseNeutral Pulse = "neutral"
)

// PriceSeries holds daily closing prices, oldest first, most recent last.
type PriceSeries struct {
	Ticker string
	Closes []float64
	AsOf   time.Time // date of the most recent close
}

// MomentumResult carries both momentum scores. Immutable once computed.
type MomentumResult struct {
	// Returns are the last 5 day-over-day percentage changes, most recent
	// first, each rounded to 2 decimals.
	Returns       []float64 `json:"returns"`
	SimpleScore   float64   `json:"simple_score"`
	AdvancedScore *float64  `json:"advanced_score"` // nil when the series is too short
}

// RawArticle is a headline as delivered by the news collaborator, before
// sentiment scoring.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NewsArticle is a scored headline. Sentiment is the VADER compound score
// in [-1, 1].
type NewsArticle struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Sentiment   float64 `json:"sentiment"`
}

// PulseResult is the unit returned to the caller and stored in the cache.
type PulseResult struct {
	Ticker      string         `json:"ticker"`
	AsOf        string         `json:"as_of"` // YYYY-MM-DD
	Momentum    MomentumResult `json:"momentum"`
	News        []NewsArticle  `json:"news"`
	Pulse       Pulse          `json:"pulse"`
	Explanation string         `json:"explanation"`
}

// PulsePayload is the structured input handed to the explanation generator.
// It carries every numeric signal that contributed to the classification.
type PulsePayload struct {
	Ticker         string        `json:"ticker"`
	Returns        []float64     `json:"returns"`
	SimpleScore    float64       `json:"simple_score"`
	AdvancedScore  *float64      `json:"advanced_score"`
	News           []NewsArticle `json:"news"`
	MeanSentiment  float64       `json:"mean_sentiment"`
	CombinedSignal float64       `json:"combined_signal"`
	Pulse          Pulse         `json:"pulse"`
}
