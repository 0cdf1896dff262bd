package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"guardreport/internal/rules"
	"guardreport/pkg/models"
)

// Thresholds for the built-in heuristics.
const (
	sourceVolumeThreshold  = 10
	highFrequencyThreshold = 50
	authAnomalyThreshold   = 20
)

var breachKeywords = []string{
	"breach",
	"intrusion",
	"unauthorized",
	"malware",
	"exfiltration",
	"privilege escalation",
	"lateral movement",
}

var authTokens = []string{"login", "auth", "password", "credential"}

// Analyzer evaluates breach heuristics over one window of events. Rules is
// optional; when set, matching custom rules contribute extra indicators.
type Analyzer struct {
	Rules rules.Engine
}

// Analyze runs the built-in heuristics with no custom rules.
func Analyze(events []models.SecurityEvent) models.BreachAnalysis {
	return (&Analyzer{}).Analyze(events)
}

// Analyze evaluates all rules independently and derives the breach risk
// level from the number of indicators that fired.
func (a *Analyzer) Analyze(events []models.SecurityEvent) models.BreachAnalysis {
	analysis := models.BreachAnalysis{
		Indicators:         []models.Indicator{},
		SuspiciousPatterns: []models.Indicator{},
	}

	analysis.Indicators = append(analysis.Indicators, sourceVolumeIndicators(events)...)
	if ind, ok := authAnomalyIndicator(events); ok {
		analysis.Indicators = append(analysis.Indicators, ind)
	}
	analysis.Indicators = append(analysis.Indicators, keywordIndicators(events)...)
	if a.Rules != nil {
		analysis.Indicators = append(analysis.Indicators, customRuleIndicators(events, a.Rules)...)
	}
	analysis.SuspiciousPatterns = append(analysis.SuspiciousPatterns, highFrequencyPatterns(events)...)

	switch {
	case len(analysis.Indicators) > 2:
		analysis.RiskLevel = models.BreachRiskHigh
	case len(analysis.Indicators) > 0:
		analysis.RiskLevel = models.BreachRiskMedium
	default:
		analysis.RiskLevel = models.BreachRiskLow
	}

	return analysis
}

type sourceAcc struct {
	count     int
	critical  int
	firstSeen time.Time
	lastSeen  time.Time
}

func accumulateBySource(events []models.SecurityEvent) map[string]*sourceAcc {
	bySource := make(map[string]*sourceAcc, 32)
	for i := range events {
		ev := &events[i]
		acc := bySource[ev.SourceIdentifier]
		if acc == nil {
			acc = &sourceAcc{firstSeen: ev.Timestamp, lastSeen: ev.Timestamp}
			bySource[ev.SourceIdentifier] = acc
		}
		acc.count++
		if ev.Severity == models.SeverityCritical {
			acc.critical++
		}
		if ev.Timestamp.Before(acc.firstSeen) {
			acc.firstSeen = ev.Timestamp
		}
		if ev.Timestamp.After(acc.lastSeen) {
			acc.lastSeen = ev.Timestamp
		}
	}
	return bySource
}

func sourceVolumeIndicators(events []models.SecurityEvent) []models.Indicator {
	out := make([]models.Indicator, 0, 4)
	for src, acc := range accumulateBySource(events) {
		if acc.count <= sourceVolumeThreshold || acc.critical == 0 {
			continue
		}
		out = append(out, models.Indicator{
			Type:          models.IndicatorPotentialBreach,
			Source:        src,
			Description:   fmt.Sprintf("Source %s generated %d events including %d critical", src, acc.count, acc.critical),
			Count:         acc.count,
			CriticalCount: acc.critical,
			FirstSeen:     acc.firstSeen,
			LastSeen:      acc.lastSeen,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func highFrequencyPatterns(events []models.SecurityEvent) []models.Indicator {
	out := make([]models.Indicator, 0, 2)
	for src, acc := range accumulateBySource(events) {
		if acc.count <= highFrequencyThreshold {
			continue
		}
		out = append(out, models.Indicator{
			Type:        models.PatternHighFrequency,
			Source:      src,
			Description: fmt.Sprintf("Source %s generated %d events in the window", src, acc.count),
			Count:       acc.count,
			FirstSeen:   acc.firstSeen,
			LastSeen:    acc.lastSeen,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func authAnomalyIndicator(events []models.SecurityEvent) (models.Indicator, bool) {
	var ind models.Indicator
	matched := 0
	for i := range events {
		ev := &events[i]
		if !containsAny(strings.ToLower(ev.EventType), authTokens) {
			continue
		}
		if matched == 0 {
			ind.FirstSeen = ev.Timestamp
			ind.LastSeen = ev.Timestamp
		}
		if ev.Timestamp.Before(ind.FirstSeen) {
			ind.FirstSeen = ev.Timestamp
		}
		if ev.Timestamp.After(ind.LastSeen) {
			ind.LastSeen = ev.Timestamp
		}
		matched++
	}
	if matched <= authAnomalyThreshold {
		return models.Indicator{}, false
	}

	ind.Type = models.IndicatorAuthAnomaly
	ind.Source = "authentication"
	ind.Description = fmt.Sprintf("%d authentication-related events in the window", matched)
	ind.Count = matched
	return ind, true
}

// keywordIndicators emits one indicator per distinct event_type whose type
// or description contains a breach keyword.
func keywordIndicators(events []models.SecurityEvent) []models.Indicator {
	byType := make(map[string]*sourceAcc, 8)
	for i := range events {
		ev := &events[i]
		haystack := strings.ToLower(ev.EventType + " " + ev.Description)
		if !containsAny(haystack, breachKeywords) {
			continue
		}
		acc := byType[ev.EventType]
		if acc == nil {
			acc = &sourceAcc{firstSeen: ev.Timestamp, lastSeen: ev.Timestamp}
			byType[ev.EventType] = acc
		}
		acc.count++
		if ev.Timestamp.Before(acc.firstSeen) {
			acc.firstSeen = ev.Timestamp
		}
		if ev.Timestamp.After(acc.lastSeen) {
			acc.lastSeen = ev.Timestamp
		}
	}

	out := make([]models.Indicator, 0, len(byType))
	for eventType, acc := range byType {
		out = append(out, models.Indicator{
			Type:        models.IndicatorBreachKeyword,
			Source:      eventType,
			Description: fmt.Sprintf("Event type %s matched a breach keyword %d time(s)", eventType, acc.count),
			Count:       acc.count,
			FirstSeen:   acc.firstSeen,
			LastSeen:    acc.lastSeen,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func customRuleIndicators(events []models.SecurityEvent, engine rules.Engine) []models.Indicator {
	byTitle := make(map[string]*sourceAcc, 8)
	for i := range events {
		ev := &events[i]
		for _, match := range engine.Apply(ev) {
			title := strings.TrimSpace(match.Title)
			if title == "" {
				continue
			}
			acc := byTitle[title]
			if acc == nil {
				acc = &sourceAcc{firstSeen: ev.Timestamp, lastSeen: ev.Timestamp}
				byTitle[title] = acc
			}
			acc.count++
			if ev.Timestamp.Before(acc.firstSeen) {
				acc.firstSeen = ev.Timestamp
			}
			if ev.Timestamp.After(acc.lastSeen) {
				acc.lastSeen = ev.Timestamp
			}
		}
	}

	out := make([]models.Indicator, 0, len(byTitle))
	for title, acc := range byTitle {
		out = append(out, models.Indicator{
			Type:        models.IndicatorCustomRule,
			Source:      title,
			Description: fmt.Sprintf("Custom rule %q matched %d event(s)", title, acc.count),
			Count:       acc.count,
			FirstSeen:   acc.firstSeen,
			LastSeen:    acc.lastSeen,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
