package render

import (
	"strings"
	"testing"
)

func TestDocumentSeverityRowOrder(t *testing.T) {
	doc, err := Document(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := -1
	for _, label := range []string{"critical", "high", "medium", "low", "info"} {
		idx := strings.Index(doc, "<td>"+label+"</td>")
		if idx == -1 {
			t.Fatalf("severity row %q missing from document", label)
		}
		if idx < last {
			t.Fatalf("severity row %q out of order", label)
		}
		last = idx
	}
	if strings.Contains(doc, "<td>unknown</td>") {
		t.Fatalf("unexpected unknown severity row")
	}
}

func TestDocumentIncludesReportSections(t *testing.T) {
	rep := sampleReport()
	doc, err := Document(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Weekly Security Report",
		rep.ID,
		rep.Summary,
		"10.0.0.5",
		"Review critical events",
		"Breach Indicators (medium risk)",
		"64.2/100",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "Suspicious Patterns") {
		t.Fatalf("expected suspicious patterns section to be omitted when empty")
	}
}

func TestDocumentEscapesEventContent(t *testing.T) {
	rep := sampleReport()
	rep.Summary = `<script>alert("x")</script>`
	doc, err := Document(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc, "<script>") {
		t.Fatalf("summary was not escaped")
	}
	if !strings.Contains(doc, "&lt;script&gt;") {
		t.Fatalf("expected escaped summary in document")
	}
}
