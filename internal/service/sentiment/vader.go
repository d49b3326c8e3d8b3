package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/util"
)

// Analyzer scores text with the pretrained VADER lexicon. The model ships
// with the library, needs no training data, and is deterministic for
// identical input.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer creates a VADER sentiment analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of text, clamped to [-1, 1] and
// rounded to 4 decimals.
func (a *Analyzer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	s := a.sia.PolarityScores(text)
	return util.Clamp(util.Round(s.Compound, 4), -1, 1)
}

// ScoreArticles attaches a compound score to each of the first limit
// articles. Upstream relevance order is preserved.
func ScoreArticles(scorer repository.TextScorer, raw []models.RawArticle, limit int) []models.NewsArticle {
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	scored := make([]models.NewsArticle, 0, len(raw))
	for _, art := range raw {
		scored = append(scored, models.NewsArticle{
			Title:       art.Title,
			Description: art.Description,
			URL:         art.URL,
			Sentiment:   scorer.Score(art.Title + " " + art.Description),
		})
	}
	return scored
}

// Mean returns the average sentiment across articles, 0 when there are
// none so missing news contributes a neutral signal.
func Mean(articles []models.NewsArticle) float64 {
	if len(articles) == 0 {
		return 0
	}
	var sum float64
	for _, a := range articles {
		sum += a.Sentiment
	}
	return sum / float64(len(articles))
}
