package models

import (
	"testing"
	"time"
)

func TestNormalizeEventsDefaultsMissingFields(t *testing.T) {
	ts := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	events := []SecurityEvent{
		{Timestamp: ts},
		{Severity: " HIGH ", EventType: "port_scan", SourceType: "network", SourceIdentifier: "fw-1", Timestamp: ts},
		{Severity: "weird", Timestamp: ts},
	}

	got, skipped := NormalizeEvents(events)
	if skipped != 0 {
		t.Fatalf("expected no skipped events, got %d", skipped)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	if got[0].Severity != SeverityInfo {
		t.Fatalf("missing severity should default to info, got %s", got[0].Severity)
	}
	for _, v := range []string{got[0].EventType, got[0].SourceType, got[0].SourceIdentifier} {
		if v != UnknownBucket {
			t.Fatalf("missing categorical field should default to %s, got %s", UnknownBucket, v)
		}
	}

	if got[1].Severity != SeverityHigh {
		t.Fatalf("severity should be lowered and trimmed, got %s", got[1].Severity)
	}
	if got[1].EventType != "port_scan" || got[1].SourceIdentifier != "fw-1" {
		t.Fatalf("present fields should pass through: %+v", got[1])
	}

	if got[2].Severity != UnknownBucket {
		t.Fatalf("unrecognized severity should map to %s, got %s", UnknownBucket, got[2].Severity)
	}
}

func TestNormalizeEventsDropsMalformed(t *testing.T) {
	ts := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	events := []SecurityEvent{
		{EventType: "port_scan", Timestamp: ts},
		{EventType: "no_timestamp"},
		{EventType: "also_broken"},
	}

	got, skipped := NormalizeEvents(events)
	if skipped != 2 {
		t.Fatalf("expected 2 skipped events, got %d", skipped)
	}
	if len(got) != 1 || got[0].EventType != "port_scan" {
		t.Fatalf("unexpected surviving events: %+v", got)
	}
}

func TestNormalizeEventsLeavesInputUntouched(t *testing.T) {
	events := []SecurityEvent{
		{Severity: "HIGH", Timestamp: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)},
	}
	NormalizeEvents(events)
	if events[0].Severity != "HIGH" {
		t.Fatalf("input slice was mutated: %+v", events[0])
	}
}
