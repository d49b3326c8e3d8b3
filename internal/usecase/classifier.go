package usecase

import "MarketPulse/internal/domain/models"

// DefaultSentimentWeight scales the [-1, 1] mean sentiment into the same
// percent units as the momentum scores before fusion.
const DefaultSentimentWeight = 5.0

// Classification is the fused judgement plus the numbers behind it.
type Classification struct {
	Pulse          models.Pulse
	MomentumSignal float64
	Combined       float64
}

// Classify fuses momentum and mean news sentiment into a pulse category.
// A strictly positive combined signal is bullish, strictly negative is
// bearish, exactly zero is neutral.
func Classify(m models.MomentumResult, meanSentiment, sentimentWeight float64) Classification {
	if sentimentWeight <= 0 {
		sentimentWeight = DefaultSentimentWeight
	}

	signal := m.SimpleScore
	if m.AdvancedScore != nil {
		signal = (m.SimpleScore + *m.AdvancedScore) / 2
	}

	combined := signal + sentimentWeight*meanSentiment

	pulse := models.PulseNeutral
	switch {
	case combined > 0:
		pulse = models.PulseBullish
	case combined < 0:
		pulse = models.PulseBearish
	}

	return Classification{
		Pulse:          pulse,
		MomentumSignal: signal,
		Combined:       combined,
	}
}
