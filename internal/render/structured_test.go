package render

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"guardreport/pkg/models"
)

func sampleReport() *models.Report {
	end := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	return &models.Report{
		ID:          "weekly_20260308",
		GeneratedAt: end,
		WindowStart: end.AddDate(0, 0, -7),
		WindowEnd:   end,
		Statistics: models.AggregatedStatistics{
			TotalAlerts:      42,
			SeverityCounts:   map[string]int{"critical": 3, "high": 9, "info": 30},
			SourceTypeCounts: map[string]int{"network": 40, "agent": 2},
			EventTypeCounts:  map[string]int{"port_scan": 40, "login_failure": 2},
			DailyCounts:      map[string]int{"2026-03-07": 20, "2026-03-08": 22},
			TopOffenders: []models.TopOffender{
				{SourceIdentifier: "10.0.0.5", Count: 11, Severities: []string{"critical"}, EventTypes: []string{"port_scan"}, FirstSeen: end.Add(-time.Hour)},
			},
			Trend: models.Trend{Direction: models.TrendIncreasing, ChangePct: 35.5},
		},
		Breach: models.BreachAnalysis{
			Indicators: []models.Indicator{
				{Type: models.IndicatorPotentialBreach, Source: "10.0.0.5", Description: "high event volume with critical activity", Count: 11, CriticalCount: 3, FirstSeen: end.Add(-time.Hour), LastSeen: end.Add(-time.Minute)},
			},
			SuspiciousPatterns: []models.Indicator{},
			RiskLevel:          models.BreachRiskMedium,
		},
		RiskScore:       64.2,
		RiskCategory:    models.RiskHigh,
		Summary:         "42 security events were recorded during the reporting window.",
		Recommendations: []string{"Review critical events"},
	}
}

func TestStructuredCarriesTopLevelFields(t *testing.T) {
	form, err := Structured(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"report_id", "generated_at", "window_start", "window_end", "statistics", "breach_analysis", "risk_score", "risk_category", "summary", "recommendations"} {
		if _, ok := form[key]; !ok {
			t.Fatalf("structured form missing %q", key)
		}
	}
	if form["report_id"] != "weekly_20260308" {
		t.Fatalf("unexpected report_id: %v", form["report_id"])
	}
}

func TestStructuredRoundTrip(t *testing.T) {
	rep := sampleReport()
	form, err := Structured(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := ReportFromStructured(form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(back.Statistics, rep.Statistics) {
		t.Fatalf("statistics changed in round trip:\n%+v\n%+v", back.Statistics, rep.Statistics)
	}
	if !reflect.DeepEqual(back.Breach, rep.Breach) {
		t.Fatalf("breach analysis changed in round trip:\n%+v\n%+v", back.Breach, rep.Breach)
	}
	if back.ID != rep.ID || back.RiskScore != rep.RiskScore || back.Summary != rep.Summary {
		t.Fatalf("scalar fields changed in round trip: %+v", back)
	}
}

func TestStructuredJSONIsDeterministic(t *testing.T) {
	first, err := StructuredJSON(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := StructuredJSON(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical bytes for identical reports")
	}
	if !bytes.Contains(first, []byte(`"report_id": "weekly_20260308"`)) {
		t.Fatalf("missing report id in output:\n%s", first)
	}
}
