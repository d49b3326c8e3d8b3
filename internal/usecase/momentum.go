package usecase

import (
	"fmt"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/util"
)

const (
	// simpleWindow returns need simpleWindow+1 closes.
	simpleWindow = 5
	// smaWindow returns need smaWindow+1 closes so a full window of
	// day-over-day changes backs the baseline.
	smaWindow = 20
)

// ComputeMomentum derives both momentum scores from a daily close series
// (oldest first). Returns are reported most recent first, rounded to 2
// decimals. The advanced score is absent, not an error, when the series
// is too short for the 20-period baseline.
func ComputeMomentum(series *models.PriceSeries) (models.MomentumResult, error) {
	closes := series.Closes
	if len(closes) < simpleWindow+1 {
		return models.MomentumResult{}, fmt.Errorf("%d closes, need %d: %w",
			len(closes), simpleWindow+1, repository.ErrDataInsufficient)
	}

	returns := make([]float64, 0, simpleWindow)
	for i := len(closes) - 1; i >= len(closes)-simpleWindow; i-- {
		prev := closes[i-1]
		if prev <= 0 {
			return models.MomentumResult{}, fmt.Errorf("non-positive close %v at index %d", prev, i-1)
		}
		returns = append(returns, util.Round2((closes[i]-prev)/prev*100))
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}

	result := models.MomentumResult{
		Returns:     returns,
		SimpleScore: util.Round2(sum),
	}

	if len(closes) >= smaWindow+1 {
		var total float64
		for _, c := range closes[len(closes)-smaWindow:] {
			total += c
		}
		sma := total / smaWindow
		if sma > 0 {
			adv := util.Round2((closes[len(closes)-1]/sma - 1) * 100)
			result.AdvancedScore = &adv
		}
	}

	return result, nil
}
