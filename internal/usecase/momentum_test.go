package usecase

import (
	"errors"
	"math"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
)

func series(closes ...float64) *models.PriceSeries {
	return &models.PriceSeries{
		Ticker: "TEST",
		Closes: closes,
		AsOf:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestComputeMomentumLongSeries(t *testing.T) {
	// 21 closes rising 1% a day: every return is 1.00 and the last close
	// sits above its 20-day average.
	closes := make([]float64, 21)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.01
	}

	m, err := ComputeMomentum(series(closes...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Returns) != 5 {
		t.Fatalf("expected 5 returns, got %d", len(m.Returns))
	}
	for i, r := range m.Returns {
		if r != 1.00 {
			t.Fatalf("return[%d] = %v, want 1.00", i, r)
		}
	}
	if m.SimpleScore != 5.00 {
		t.Fatalf("simple score = %v, want 5.00", m.SimpleScore)
	}
	if m.AdvancedScore == nil {
		t.Fatal("expected advanced score with 21 closes")
	}

	// Recompute the baseline by hand to pin the formula.
	var sum float64
	for _, c := range closes[1:] {
		sum += c
	}
	sma := sum / 20
	want := math.Round((closes[20]/sma-1)*100*100) / 100
	if *m.AdvancedScore != want {
		t.Fatalf("advanced score = %v, want %v", *m.AdvancedScore, want)
	}
}

func TestComputeMomentumShortSeriesOmitsAdvanced(t *testing.T) {
	m, err := ComputeMomentum(series(100, 101, 102, 101, 103, 104, 105))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.AdvancedScore != nil {
		t.Fatalf("advanced score should be absent with 7 closes, got %v", *m.AdvancedScore)
	}
	if len(m.Returns) != 5 {
		t.Fatalf("expected 5 returns, got %d", len(m.Returns))
	}
}

func TestComputeMomentumReturnsMostRecentFirst(t *testing.T) {
	// Only the final day moves, by +10%. That change must lead the list.
	m, err := ComputeMomentum(series(100, 100, 100, 100, 100, 110))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Returns[0] != 10.00 {
		t.Fatalf("returns[0] = %v, want 10.00", m.Returns[0])
	}
	for i := 1; i < 5; i++ {
		if m.Returns[i] != 0 {
			t.Fatalf("returns[%d] = %v, want 0", i, m.Returns[i])
		}
	}
	if m.SimpleScore != 10.00 {
		t.Fatalf("simple score = %v, want 10.00", m.SimpleScore)
	}
}

func TestComputeMomentumTooFewCloses(t *testing.T) {
	_, err := ComputeMomentum(series(100, 101, 102, 103, 104))
	if !errors.Is(err, repository.ErrDataInsufficient) {
		t.Fatalf("expected ErrDataInsufficient, got %v", err)
	}
}

func TestComputeMomentumFlatSeries(t *testing.T) {
	closes := make([]float64, 21)
	for i := range closes {
		closes[i] = 50
	}
	m, err := ComputeMomentum(series(closes...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SimpleScore != 0 {
		t.Fatalf("simple score = %v, want 0", m.SimpleScore)
	}
	if m.AdvancedScore == nil || *m.AdvancedScore != 0 {
		t.Fatalf("advanced score = %v, want 0", m.AdvancedScore)
	}
}
