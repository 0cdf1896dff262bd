package report

import (
	"context"
	"fmt"
	"time"

	"guardreport/internal/logger"
	"guardreport/internal/rules"
	"guardreport/pkg/models"
)

// EventSource is the read contract against the external event store.
type EventSource interface {
	Fetch(ctx context.Context, start, end time.Time) ([]models.SecurityEvent, error)
}

// Config controls report generation.
type Config struct {
	WindowDays   int
	TopOffenders int
}

// Generator runs the fetch, aggregate, analyze, score pipeline and
// assembles an immutable Report. Each run builds its state from scratch;
// nothing is shared between invocations.
type Generator struct {
	source EventSource
	rules  rules.Engine
	cfg    Config
	now    func() time.Time
}

// NewGenerator creates a generator. engine may be nil to disable custom
// indicator rules.
func NewGenerator(source EventSource, engine rules.Engine, cfg Config) *Generator {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.TopOffenders <= 0 {
		cfg.TopOffenders = DefaultTopOffenders
	}
	return &Generator{
		source: source,
		rules:  engine,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Generate produces the report for the window ending at end. A zero end
// means now. On fetch failure no report is produced; an empty window is
// valid and yields a zero-activity report.
func (g *Generator) Generate(ctx context.Context, end time.Time) (*models.Report, error) {
	if end.IsZero() {
		end = g.now()
	}
	start := end.AddDate(0, 0, -g.cfg.WindowDays)

	fetched, err := g.source.Fetch(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	events, skipped := models.NormalizeEvents(fetched)
	if skipped > 0 {
		logger.Warnf("Skipped %d event(s) with missing timestamps", skipped)
	}

	stats := Aggregate(events, end.Location(), g.cfg.TopOffenders)
	stats.SkippedMalformed = skipped

	breach := (&Analyzer{Rules: g.rules}).Analyze(events)
	score := Score(stats, breach)
	category := Categorize(score)

	rep := &models.Report{
		ID:              fmt.Sprintf("weekly_%s", end.UTC().Format("20060102")),
		GeneratedAt:     end,
		WindowStart:     start,
		WindowEnd:       end,
		Statistics:      stats,
		Breach:          breach,
		RiskScore:       score,
		RiskCategory:    category,
		Summary:         Summarize(stats, breach, score, category),
		Recommendations: Recommendations(stats, breach, score),
	}

	logger.Infof("Report %s generated: events=%d indicators=%d score=%.1f category=%s",
		rep.ID, stats.TotalAlerts, len(breach.Indicators), score, category)
	return rep, nil
}
