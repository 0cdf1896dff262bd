package models

import (
	"errors"
	"time"
)

// ErrDataUnavailable means the event store could not serve the window query.
// A run that hits it produces no report.
var ErrDataUnavailable = errors.New("event store unavailable")

// ErrRenderFailure means serialization of a completed report failed. The
// report itself remains valid and retrievable.
var ErrRenderFailure = errors.New("report render failed")

// Breach indicator types emitted by the analyzer.
const (
	IndicatorPotentialBreach = "potential_breach"
	IndicatorAuthAnomaly     = "authentication_anomaly"
	IndicatorBreachKeyword   = "breach_keyword"
	IndicatorCustomRule      = "custom_rule"
	PatternHighFrequency     = "high_frequency_activity"
)

// Breach risk levels.
const (
	BreachRiskLow    = "low"
	BreachRiskMedium = "medium"
	BreachRiskHigh   = "high"
)

// Risk categories for the composite score.
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
	RiskMinimal  = "minimal"
)

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Trend describes event volume direction across the window.
type Trend struct {
	Direction string  `json:"direction"`
	ChangePct float64 `json:"change_pct"`
}

// TopOffender is one ranked source_identifier with its activity profile.
type TopOffender struct {
	SourceIdentifier string    `json:"source_identifier"`
	Count            int       `json:"count"`
	Severities       []string  `json:"severities"`
	EventTypes       []string  `json:"event_types"`
	FirstSeen        time.Time `json:"first_seen"`
}

// AggregatedStatistics is the output of the aggregation stage for one run.
// Each categorical count map sums to TotalAlerts.
type AggregatedStatistics struct {
	TotalAlerts      int            `json:"total_alerts"`
	SeverityCounts   map[string]int `json:"severity_counts"`
	SourceTypeCounts map[string]int `json:"source_type_counts"`
	EventTypeCounts  map[string]int `json:"event_type_counts"`
	DailyCounts      map[string]int `json:"daily_counts"`
	TopOffenders     []TopOffender  `json:"top_offenders"`
	Trend            Trend          `json:"trend"`
	SkippedMalformed int            `json:"skipped_malformed,omitempty"`
}

// Indicator is one breach indicator or suspicious pattern.
type Indicator struct {
	Type          string    `json:"type"`
	Source        string    `json:"source,omitempty"`
	Description   string    `json:"description"`
	Count         int       `json:"count"`
	CriticalCount int       `json:"critical_count,omitempty"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
}

// BreachAnalysis is the output of the heuristic analysis stage.
type BreachAnalysis struct {
	Indicators         []Indicator `json:"indicators"`
	SuspiciousPatterns []Indicator `json:"suspicious_patterns"`
	RiskLevel          string      `json:"risk_level"`
}

// Report is the final artifact of one generation run. It is constructed
// fresh per invocation and never updated in place.
type Report struct {
	ID              string               `json:"report_id"`
	GeneratedAt     time.Time            `json:"generated_at"`
	WindowStart     time.Time            `json:"window_start"`
	WindowEnd       time.Time            `json:"window_end"`
	Statistics      AggregatedStatistics `json:"statistics"`
	Breach          BreachAnalysis       `json:"breach_analysis"`
	RiskScore       float64              `json:"risk_score"`
	RiskCategory    string               `json:"risk_category"`
	Summary         string               `json:"summary"`
	Recommendations []string             `json:"recommendations"`
}
