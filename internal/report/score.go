package report

import "guardreport/pkg/models"

// Sub-score caps. The three caps sum to the 100-point bound.
const (
	severitySubCap = 50.0
	breachSubCap   = 30.0
	volumeSubCap   = 20.0
)

var severityScoreWeight = map[string]float64{
	models.SeverityCritical: 10,
	models.SeverityHigh:     5,
	models.SeverityMedium:   2,
}

type riskThreshold struct {
	min      float64
	category string
}

// Fixed threshold table; not tunable at runtime.
var riskThresholds = []riskThreshold{
	{80, models.RiskCritical},
	{60, models.RiskHigh},
	{40, models.RiskMedium},
	{20, models.RiskLow},
	{0, models.RiskMinimal},
}

// Score combines the capped severity, breach and volume sub-scores into a
// composite risk score in [0, 100].
func Score(stats models.AggregatedStatistics, breach models.BreachAnalysis) float64 {
	severitySub := 0.0
	for sev, weight := range severityScoreWeight {
		severitySub += float64(stats.SeverityCounts[sev]) * weight
	}
	severitySub = capAt(severitySub, severitySubCap)

	breachSub := capAt(float64(len(breach.Indicators))*15, breachSubCap)
	volumeSub := capAt(float64(stats.TotalAlerts)/10, volumeSubCap)

	return capAt(severitySub+breachSub+volumeSub, 100)
}

// Categorize maps a composite score onto the fixed category table.
func Categorize(score float64) string {
	for _, t := range riskThresholds {
		if score >= t.min {
			return t.category
		}
	}
	return models.RiskMinimal
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
