package rules

import "guardreport/pkg/models"

// Match is one custom rule hit for a single event.
type Match struct {
	ID    string
	Title string
	Level string
}

// Engine applies custom indicator rules to events.
type Engine interface {
	Apply(event *models.SecurityEvent) []Match
}

// NoopEngine returns no matches.
type NoopEngine struct{}

// Apply returns an empty match list.
func (n *NoopEngine) Apply(event *models.SecurityEvent) []Match {
	return nil
}
