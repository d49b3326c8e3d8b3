package sentiment

import (
	"fmt"
	"testing"

	"MarketPulse/internal/domain/models"
)

func TestScorePolarity(t *testing.T) {
	a := NewAnalyzer()

	pos := a.Score("Record profits, outstanding growth, great quarter")
	if pos <= 0 {
		t.Fatalf("expected positive score, got %v", pos)
	}
	neg := a.Score("Massive losses, terrible outlook, fraud investigation")
	if neg >= 0 {
		t.Fatalf("expected negative score, got %v", neg)
	}
	if pos > 1 || neg < -1 {
		t.Fatalf("scores out of bounds: %v %v", pos, neg)
	}
}

func TestScoreEmptyText(t *testing.T) {
	a := NewAnalyzer()
	if got := a.Score("  "); got != 0 {
		t.Fatalf("expected 0 for empty text, got %v", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "Shares surged after the strong earnings beat"
	if a.Score(text) != a.Score(text) {
		t.Fatalf("expected identical scores for identical text")
	}
}

type fixedScorer struct{ v float64 }

func (s fixedScorer) Score(string) float64 { return s.v }

func TestScoreArticlesLimitAndOrder(t *testing.T) {
	raw := make([]models.RawArticle, 8)
	for i := range raw {
		raw[i] = models.RawArticle{Title: fmt.Sprintf("headline %d", i)}
	}

	scored := ScoreArticles(fixedScorer{v: 0.5}, raw, 5)
	if len(scored) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(scored))
	}
	for i, art := range scored {
		if art.Title != fmt.Sprintf("headline %d", i) {
			t.Fatalf("order not preserved: %v", scored)
		}
		if art.Sentiment != 0.5 {
			t.Fatalf("score not attached: %+v", art)
		}
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Fatalf("expected 0 for no articles, got %v", got)
	}
	articles := []models.NewsArticle{
		{Sentiment: 0.4},
		{Sentiment: -0.2},
		{Sentiment: 0.1},
	}
	got := Mean(articles)
	want := (0.4 - 0.2 + 0.1) / 3
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("unexpected mean %v", got)
	}
}
