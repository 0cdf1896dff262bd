package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"guardreport/pkg/models"
)

// Structured returns the report as a nested mapping with stable field
// names and ISO-8601 timestamps. The mapping carries every field of the
// in-memory report, so it round-trips through ReportFromStructured.
func Structured(rep *models.Report) (map[string]interface{}, error) {
	raw, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("%w: encode report: %v", models.ErrRenderFailure, err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode structured form: %v", models.ErrRenderFailure, err)
	}
	return out, nil
}

// StructuredJSON returns the structured form as deterministic JSON bytes.
// Keys are emitted in sorted order, so identical reports serialize to
// identical bytes.
func StructuredJSON(rep *models.Report) ([]byte, error) {
	form, err := Structured(rep)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(form); err != nil {
		return nil, fmt.Errorf("%w: encode structured form: %v", models.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// ReportFromStructured reconstructs a Report from its structured form.
func ReportFromStructured(form map[string]interface{}) (*models.Report, error) {
	raw, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("%w: encode structured form: %v", models.ErrRenderFailure, err)
	}

	var rep models.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("%w: decode report: %v", models.ErrRenderFailure, err)
	}
	return &rep, nil
}
