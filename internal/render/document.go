package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"guardreport/pkg/models"
)

const documentTimeFormat = "2006-01-02 15:04 MST"

var documentFuncs = template.FuncMap{
	"join": func(values []string) string { return strings.Join(values, ", ") },
}

var documentTemplate = template.Must(template.New("report").Funcs(documentFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 640px; margin: 0 auto; padding: 20px; }
  .header { background: #1e293b; color: white; padding: 24px; text-align: center; border-radius: 8px 8px 0 0; }
  .content { background: #f8fafc; padding: 24px; border-radius: 0 0 8px 8px; }
  .stat-box { background: white; padding: 16px; margin: 10px 0; border-radius: 8px; }
  .stat-number { font-size: 32px; font-weight: bold; color: #1e293b; }
  .stat-label { color: #64748b; font-size: 13px; }
  .risk { color: #b91c1c; font-weight: bold; text-transform: uppercase; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #e2e8f0; font-size: 14px; }
  .footer { text-align: center; color: #64748b; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Weekly Security Report</h1>
    <p>{{.WindowStart}} &mdash; {{.WindowEnd}}</p>
  </div>
  <div class="content">
    <div class="stat-box">
      <div class="stat-number">{{.Report.Statistics.TotalAlerts}}</div>
      <div class="stat-label">Total Security Events</div>
    </div>
    <div class="stat-box">
      <div class="stat-number">{{printf "%.1f" .Report.RiskScore}}/100</div>
      <div class="stat-label">Risk Score &middot; <span class="risk">{{.Report.RiskCategory}}</span></div>
    </div>
    <div class="stat-box">
      <h3>Summary</h3>
      <p>{{.Report.Summary}}</p>
    </div>
    <div class="stat-box">
      <h3>Events by Severity</h3>
      <table>
        <tr><th>Severity</th><th>Count</th></tr>
        {{range .SeverityRows}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
        {{end}}
      </table>
    </div>
    {{if .Report.Statistics.TopOffenders}}
    <div class="stat-box">
      <h3>Top Offenders</h3>
      <table>
        <tr><th>Source</th><th>Events</th><th>Severities</th><th>Event Types</th></tr>
        {{range .Report.Statistics.TopOffenders}}<tr><td>{{.SourceIdentifier}}</td><td>{{.Count}}</td><td>{{join .Severities}}</td><td>{{join .EventTypes}}</td></tr>
        {{end}}
      </table>
    </div>
    {{end}}
    {{if .Report.Breach.Indicators}}
    <div class="stat-box">
      <h3>Breach Indicators ({{.Report.Breach.RiskLevel}} risk)</h3>
      <table>
        <tr><th>Type</th><th>Source</th><th>Count</th><th>Description</th></tr>
        {{range .Report.Breach.Indicators}}<tr><td>{{.Type}}</td><td>{{.Source}}</td><td>{{.Count}}</td><td>{{.Description}}</td></tr>
        {{end}}
      </table>
    </div>
    {{end}}
    {{if .Report.Breach.SuspiciousPatterns}}
    <div class="stat-box">
      <h3>Suspicious Patterns</h3>
      <table>
        <tr><th>Type</th><th>Source</th><th>Count</th></tr>
        {{range .Report.Breach.SuspiciousPatterns}}<tr><td>{{.Type}}</td><td>{{.Source}}</td><td>{{.Count}}</td></tr>
        {{end}}
      </table>
    </div>
    {{end}}
    <div class="stat-box">
      <h3>Recommendations</h3>
      <ul>
        {{range .Report.Recommendations}}<li>{{.}}</li>
        {{end}}
      </ul>
    </div>
    <div class="footer">
      <p>Report {{.Report.ID}} generated {{.GeneratedAt}}</p>
    </div>
  </div>
</div>
</body>
</html>
`))

type severityRow struct {
	Label string
	Count int
}

type documentData struct {
	Report       *models.Report
	WindowStart  string
	WindowEnd    string
	GeneratedAt  string
	SeverityRows []severityRow
}

// Document renders the report as a styled HTML document. The severity
// table always lists critical, high, medium, low, info in that order.
func Document(rep *models.Report) (string, error) {
	rows := make([]severityRow, 0, len(models.SeverityOrder)+1)
	for _, sev := range models.SeverityOrder {
		rows = append(rows, severityRow{Label: sev, Count: rep.Statistics.SeverityCounts[sev]})
	}
	if n := rep.Statistics.SeverityCounts[models.UnknownBucket]; n > 0 {
		rows = append(rows, severityRow{Label: models.UnknownBucket, Count: n})
	}

	data := documentData{
		Report:       rep,
		WindowStart:  formatDocumentTime(rep.WindowStart),
		WindowEnd:    formatDocumentTime(rep.WindowEnd),
		GeneratedAt:  formatDocumentTime(rep.GeneratedAt),
		SeverityRows: rows,
	}

	var b strings.Builder
	if err := documentTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: execute document template: %v", models.ErrRenderFailure, err)
	}
	return b.String(), nil
}

func formatDocumentTime(t time.Time) string {
	return t.Format(documentTimeFormat)
}
