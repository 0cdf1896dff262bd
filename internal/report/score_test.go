package report

import (
	"math"
	"testing"

	"guardreport/pkg/models"
)

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		score    float64
		category string
	}{
		{100, models.RiskCritical},
		{80, models.RiskCritical},
		{79.99, models.RiskHigh},
		{60, models.RiskHigh},
		{59.99, models.RiskMedium},
		{40, models.RiskMedium},
		{39.99, models.RiskLow},
		{20, models.RiskLow},
		{19.99, models.RiskMinimal},
		{0, models.RiskMinimal},
	}

	for _, tc := range cases {
		if got := Categorize(tc.score); got != tc.category {
			t.Fatalf("score %.2f: expected %s, got %s", tc.score, tc.category, got)
		}
	}
}

func TestScoreIsZeroForEmptyWindow(t *testing.T) {
	stats := Aggregate(nil, nil, 0)
	breach := Analyze(nil)

	score := Score(stats, breach)
	if score != 0 {
		t.Fatalf("expected score 0, got %f", score)
	}
	if Categorize(score) != models.RiskMinimal {
		t.Fatalf("expected minimal category, got %s", Categorize(score))
	}
}

func TestScoreCapsEachSubScore(t *testing.T) {
	stats := models.AggregatedStatistics{
		TotalAlerts:    1000,
		SeverityCounts: map[string]int{models.SeverityCritical: 100},
	}
	breach := models.BreachAnalysis{
		Indicators: make([]models.Indicator, 20),
	}

	score := Score(stats, breach)
	// 50 (severity cap) + 30 (breach cap) + 20 (volume cap).
	if score != 100 {
		t.Fatalf("expected fully capped score 100, got %f", score)
	}
}

func TestScoreWeightsSeverities(t *testing.T) {
	stats := models.AggregatedStatistics{
		TotalAlerts: 7,
		SeverityCounts: map[string]int{
			models.SeverityCritical: 1,
			models.SeverityHigh:     2,
			models.SeverityMedium:   3,
			models.SeverityLow:      1,
		},
	}
	breach := models.BreachAnalysis{Indicators: []models.Indicator{{Type: models.IndicatorBreachKeyword}}}

	score := Score(stats, breach)
	// 10 + 10 + 6 severity, 15 breach, 0.7 volume.
	if math.Abs(score-41.7) > 1e-9 {
		t.Fatalf("expected score 41.7, got %f", score)
	}
}

func TestScoreNeverExceedsBounds(t *testing.T) {
	stats := models.AggregatedStatistics{
		TotalAlerts:    1000000,
		SeverityCounts: map[string]int{models.SeverityCritical: 100000},
	}
	breach := models.BreachAnalysis{Indicators: make([]models.Indicator, 1000)}

	score := Score(stats, breach)
	if score < 0 || score > 100 {
		t.Fatalf("score out of range: %f", score)
	}
}
