package models

import (
	"strings"
	"time"
)

// Severity levels recognized by the report pipeline.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Sentinel bucket for absent categorical fields.
const UnknownBucket = "unknown"

// SeverityOrder is the fixed display and iteration order for severities.
var SeverityOrder = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// SecurityEvent is one record read from the external event store.
// Events are immutable once fetched; the pipeline never writes them back.
type SecurityEvent struct {
	ID               string                 `json:"id,omitempty"`
	TenantID         string                 `json:"tenant_id,omitempty"`
	EventType        string                 `json:"event_type,omitempty"`
	Severity         string                 `json:"severity,omitempty"`
	SourceType       string                 `json:"source_type,omitempty"`
	SourceIdentifier string                 `json:"source_identifier,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Details          map[string]interface{} `json:"details,omitempty"`
	Timestamp        time.Time              `json:"timestamp"`
}

// Malformed reports whether the event is unusable for windowed aggregation.
// A missing timestamp is the only fatal defect; every other absent field
// falls back to a sentinel bucket during normalization.
func (e *SecurityEvent) Malformed() bool {
	return e == nil || e.Timestamp.IsZero()
}

// NormalizedSeverity returns the event severity lowered and defaulted to info.
func (e *SecurityEvent) NormalizedSeverity() string {
	s := strings.ToLower(strings.TrimSpace(e.Severity))
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return s
	case "":
		return SeverityInfo
	default:
		return UnknownBucket
	}
}

// NormalizedEventType returns the event type defaulted to the unknown bucket.
func (e *SecurityEvent) NormalizedEventType() string {
	return fallback(e.EventType)
}

// NormalizedSourceType returns the source type defaulted to the unknown bucket.
func (e *SecurityEvent) NormalizedSourceType() string {
	return fallback(e.SourceType)
}

// NormalizedSourceIdentifier returns the source identifier defaulted to the
// unknown bucket.
func (e *SecurityEvent) NormalizedSourceIdentifier() string {
	return fallback(e.SourceIdentifier)
}

func fallback(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return UnknownBucket
	}
	return v
}

// NormalizeEvents applies per-field defaulting once at ingestion, drops
// malformed events and returns the skipped count. Returned events are
// copies; the input slice is left untouched.
func NormalizeEvents(events []SecurityEvent) ([]SecurityEvent, int) {
	out := make([]SecurityEvent, 0, len(events))
	skipped := 0
	for i := range events {
		ev := events[i]
		if ev.Malformed() {
			skipped++
			continue
		}
		ev.Severity = ev.NormalizedSeverity()
		ev.EventType = ev.NormalizedEventType()
		ev.SourceType = ev.NormalizedSourceType()
		ev.SourceIdentifier = ev.NormalizedSourceIdentifier()
		out = append(out, ev)
	}
	return out, skipped
}
