package report

import (
	"sort"
	"time"

	"guardreport/pkg/models"
)

// DefaultTopOffenders is the ranking cutoff when none is configured.
const DefaultTopOffenders = 10

const dayFormat = "2006-01-02"

// Aggregate computes the statistics snapshot for one run. Events must
// already be normalized; loc is the timezone used for daily bucketing and
// topN bounds the offender ranking.
func Aggregate(events []models.SecurityEvent, loc *time.Location, topN int) models.AggregatedStatistics {
	if loc == nil {
		loc = time.UTC
	}
	if topN <= 0 {
		topN = DefaultTopOffenders
	}

	sorted := append([]models.SecurityEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	stats := models.AggregatedStatistics{
		TotalAlerts:      len(sorted),
		SeverityCounts:   make(map[string]int, 8),
		SourceTypeCounts: make(map[string]int, 8),
		EventTypeCounts:  make(map[string]int, 16),
		DailyCounts:      make(map[string]int, 8),
	}

	for i := range sorted {
		ev := &sorted[i]
		stats.SeverityCounts[ev.Severity]++
		stats.SourceTypeCounts[ev.SourceType]++
		stats.EventTypeCounts[ev.EventType]++
		stats.DailyCounts[ev.Timestamp.In(loc).Format(dayFormat)]++
	}

	stats.TopOffenders = rankOffenders(sorted, topN)
	stats.Trend = computeTrend(sorted)
	return stats
}

type offenderAcc struct {
	count      int
	firstSeen  time.Time
	severities map[string]struct{}
	eventTypes map[string]struct{}
}

func rankOffenders(sorted []models.SecurityEvent, topN int) []models.TopOffender {
	bySource := make(map[string]*offenderAcc, 32)
	for i := range sorted {
		ev := &sorted[i]
		acc := bySource[ev.SourceIdentifier]
		if acc == nil {
			acc = &offenderAcc{
				firstSeen:  ev.Timestamp,
				severities: make(map[string]struct{}, 4),
				eventTypes: make(map[string]struct{}, 4),
			}
			bySource[ev.SourceIdentifier] = acc
		}
		acc.count++
		acc.severities[ev.Severity] = struct{}{}
		acc.eventTypes[ev.EventType] = struct{}{}
	}

	out := make([]models.TopOffender, 0, len(bySource))
	for src, acc := range bySource {
		out = append(out, models.TopOffender{
			SourceIdentifier: src,
			Count:            acc.count,
			Severities:       orderedSeverities(acc.severities),
			EventTypes:       sortedKeys(acc.eventTypes),
			FirstSeen:        acc.firstSeen,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if !out[i].FirstSeen.Equal(out[j].FirstSeen) {
			return out[i].FirstSeen.Before(out[j].FirstSeen)
		}
		return out[i].SourceIdentifier < out[j].SourceIdentifier
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// computeTrend splits the time-sorted events at the midpoint index, not
// at the midpoint of elapsed time, and compares half volumes.
func computeTrend(sorted []models.SecurityEvent) models.Trend {
	earlier := len(sorted) / 2
	return trendFromHalves(earlier, len(sorted)-earlier)
}

// trendFromHalves applies the 20% band rule to the two half volumes.
func trendFromHalves(earlier, later int) models.Trend {
	if earlier == 0 {
		if later > 0 {
			return models.Trend{Direction: models.TrendIncreasing, ChangePct: 100}
		}
		return models.Trend{Direction: models.TrendStable}
	}

	change := float64(later-earlier) / float64(earlier) * 100
	trend := models.Trend{Direction: models.TrendStable, ChangePct: change}
	if change > 20 {
		trend.Direction = models.TrendIncreasing
	} else if change < -20 {
		trend.Direction = models.TrendDecreasing
	}
	return trend
}

func orderedSeverities(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for _, sev := range models.SeverityOrder {
		if _, ok := set[sev]; ok {
			out = append(out, sev)
		}
	}
	if _, ok := set[models.UnknownBucket]; ok {
		out = append(out, models.UnknownBucket)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
