package report

import (
	"fmt"
	"sort"
	"strings"

	"guardreport/pkg/models"
)

// Summarize renders the executive summary for one run.
func Summarize(stats models.AggregatedStatistics, breach models.BreachAnalysis, score float64, category string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d security events were recorded in the reporting window.", stats.TotalAlerts)

	parts := make([]string, 0, len(models.SeverityOrder))
	for _, sev := range models.SeverityOrder {
		if n := stats.SeverityCounts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	if n := stats.SeverityCounts[models.UnknownBucket]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, models.UnknownBucket))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " Severity breakdown: %s.", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, " Event volume is %s over the window.", stats.Trend.Direction)
	fmt.Fprintf(&b, " %d breach indicator(s) were detected; overall risk is %s (score %.1f).",
		len(breach.Indicators), category, score)

	if category == models.RiskHigh || category == models.RiskCritical {
		top := topIndicators(breach.Indicators, 3)
		if len(top) > 0 {
			fmt.Fprintf(&b, " Immediate attention required: %s.", strings.Join(top, ", "))
		} else {
			b.WriteString(" Immediate attention required.")
		}
	}

	return b.String()
}

// Recommendations evaluates the additive recommendation rules. The result
// is never empty: when nothing fires, the default entry is returned.
func Recommendations(stats models.AggregatedStatistics, breach models.BreachAnalysis, score float64) []string {
	out := make([]string, 0, 5)

	if stats.SeverityCounts[models.SeverityCritical] > 0 {
		out = append(out, fmt.Sprintf("Address the %d critical alert(s) before anything else", stats.SeverityCounts[models.SeverityCritical]))
	}
	if score > 70 {
		out = append(out, "Increase monitoring coverage while the risk score remains elevated")
	}
	if len(breach.Indicators) > 0 {
		out = append(out, fmt.Sprintf("Investigate the %d breach indicator(s) immediately", len(breach.Indicators)))
	}
	if stats.TotalAlerts > 100 {
		out = append(out, "Review and tune alert thresholds to reduce event volume")
	}
	if len(stats.TopOffenders) > 0 && stats.TopOffenders[0].Count > 20 {
		out = append(out, fmt.Sprintf("Examine source %s, which produced %d events", stats.TopOffenders[0].SourceIdentifier, stats.TopOffenders[0].Count))
	}

	if len(out) == 0 {
		out = append(out, "Continue monitoring; no unusual activity detected")
	}
	return out
}

// topIndicators names the strongest indicators, ranked by supporting count.
func topIndicators(indicators []models.Indicator, limit int) []string {
	ranked := append([]models.Indicator(nil), indicators...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Source < ranked[j].Source
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, ind := range ranked {
		if ind.Source != "" {
			out = append(out, fmt.Sprintf("%s (%s)", ind.Type, ind.Source))
		} else {
			out = append(out, ind.Type)
		}
	}
	return out
}
