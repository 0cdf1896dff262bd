package report

import (
	"fmt"
	"testing"
	"time"

	"guardreport/pkg/models"
)

func normalized(t *testing.T, events []models.SecurityEvent) []models.SecurityEvent {
	t.Helper()
	out, skipped := models.NormalizeEvents(events)
	if skipped != 0 {
		t.Fatalf("unexpected skipped events: %d", skipped)
	}
	return out
}

func TestAggregateCountsSumToTotalPerDimension(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := normalized(t, []models.SecurityEvent{
		{EventType: "malware_detected", Severity: "critical", SourceType: "clamav", SourceIdentifier: "host-1", Timestamp: base},
		{EventType: "login_failure", Severity: "high", SourceType: "agent", SourceIdentifier: "10.0.0.9", Timestamp: base.Add(1 * time.Hour)},
		{EventType: "login_failure", Severity: "", SourceType: "", SourceIdentifier: "", Timestamp: base.Add(2 * time.Hour)},
		{EventType: "port_scan", Severity: "low", SourceType: "network", SourceIdentifier: "10.0.0.9", Timestamp: base.Add(26 * time.Hour)},
	})

	stats := Aggregate(events, time.UTC, 10)
	if stats.TotalAlerts != 4 {
		t.Fatalf("expected total 4, got %d", stats.TotalAlerts)
	}

	for name, counts := range map[string]map[string]int{
		"severity":    stats.SeverityCounts,
		"source_type": stats.SourceTypeCounts,
		"event_type":  stats.EventTypeCounts,
		"daily":       stats.DailyCounts,
	} {
		sum := 0
		for _, n := range counts {
			sum += n
		}
		if sum != stats.TotalAlerts {
			t.Fatalf("%s counts sum to %d, expected %d", name, sum, stats.TotalAlerts)
		}
	}

	if stats.SeverityCounts["info"] != 1 {
		t.Fatalf("expected absent severity to land in info bucket, got %+v", stats.SeverityCounts)
	}
	if stats.SourceTypeCounts["unknown"] != 1 {
		t.Fatalf("expected absent source_type to land in unknown bucket, got %+v", stats.SourceTypeCounts)
	}
	if stats.DailyCounts["2026-03-02"] != 3 || stats.DailyCounts["2026-03-03"] != 1 {
		t.Fatalf("unexpected daily buckets: %+v", stats.DailyCounts)
	}
}

func TestAggregateDailyBucketsUseProvidedTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	events := normalized(t, []models.SecurityEvent{
		{EventType: "port_scan", Severity: "low", SourceType: "network", Timestamp: time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)},
	})

	stats := Aggregate(events, loc, 10)
	if stats.DailyCounts["2026-03-02"] != 1 {
		t.Fatalf("expected event bucketed on 2026-03-02 in UTC+2, got %+v", stats.DailyCounts)
	}
}

func TestRankOffendersOrdersByCountThenFirstSeen(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	var events []models.SecurityEvent
	// busy: 3 events, early and late: 2 events each with different first-seen.
	for i := 0; i < 3; i++ {
		events = append(events, models.SecurityEvent{EventType: "port_scan", SourceType: "network", SourceIdentifier: "busy", Timestamp: base.Add(time.Duration(i+5) * time.Minute)})
	}
	events = append(events,
		models.SecurityEvent{EventType: "login_failure", Severity: "high", SourceType: "agent", SourceIdentifier: "early", Timestamp: base},
		models.SecurityEvent{EventType: "login_failure", SourceType: "agent", SourceIdentifier: "early", Timestamp: base.Add(30 * time.Minute)},
		models.SecurityEvent{EventType: "port_scan", SourceType: "network", SourceIdentifier: "late", Timestamp: base.Add(10 * time.Minute)},
		models.SecurityEvent{EventType: "port_scan", SourceType: "network", SourceIdentifier: "late", Timestamp: base.Add(40 * time.Minute)},
	)

	stats := Aggregate(normalized(t, events), time.UTC, 2)
	if len(stats.TopOffenders) != 2 {
		t.Fatalf("expected ranking truncated to 2, got %d", len(stats.TopOffenders))
	}
	if stats.TopOffenders[0].SourceIdentifier != "busy" {
		t.Fatalf("expected busy first, got %s", stats.TopOffenders[0].SourceIdentifier)
	}
	if stats.TopOffenders[1].SourceIdentifier != "early" {
		t.Fatalf("expected first-seen tie-break to prefer early, got %s", stats.TopOffenders[1].SourceIdentifier)
	}
	if stats.TopOffenders[1].Severities[0] != "high" {
		t.Fatalf("unexpected severities for early: %+v", stats.TopOffenders[1].Severities)
	}
}

func TestTrendFromHalves(t *testing.T) {
	cases := []struct {
		earlier, later int
		direction      string
	}{
		{0, 0, models.TrendStable},
		{0, 5, models.TrendIncreasing},
		{10, 13, models.TrendIncreasing},
		{10, 12, models.TrendStable},
		{10, 7, models.TrendDecreasing},
		{10, 8, models.TrendStable},
	}

	for _, tc := range cases {
		got := trendFromHalves(tc.earlier, tc.later)
		if got.Direction != tc.direction {
			t.Fatalf("halves %d/%d: expected %s, got %s", tc.earlier, tc.later, tc.direction, got.Direction)
		}
	}
}

func TestAggregateTrendForBalancedWindowIsStable(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	var events []models.SecurityEvent
	for i := 0; i < 10; i++ {
		events = append(events, models.SecurityEvent{
			EventType:  fmt.Sprintf("type_%d", i),
			SourceType: "agent",
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		})
	}

	stats := Aggregate(normalized(t, events), time.UTC, 10)
	if stats.Trend.Direction != models.TrendStable {
		t.Fatalf("expected stable trend, got %s", stats.Trend.Direction)
	}
}

func TestAggregateEmptyEvents(t *testing.T) {
	stats := Aggregate(nil, time.UTC, 10)
	if stats.TotalAlerts != 0 {
		t.Fatalf("expected zero total, got %d", stats.TotalAlerts)
	}
	if stats.Trend.Direction != models.TrendStable {
		t.Fatalf("expected stable trend for empty window, got %s", stats.Trend.Direction)
	}
	if len(stats.TopOffenders) != 0 {
		t.Fatalf("expected no offenders, got %d", len(stats.TopOffenders))
	}
}
