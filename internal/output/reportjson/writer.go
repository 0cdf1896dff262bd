package reportjson

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"guardreport/internal/logger"
	"guardreport/internal/render"
	"guardreport/pkg/models"
)

// Writer persists rendered reports as JSON files.
type Writer struct {
	path string
}

// NewWriter creates a JSON file writer. path may contain the placeholder
// %s, which is replaced with the report ID.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("report output path is empty")
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return &Writer{path: path}, nil
}

// WriteReport writes the structured form of one report.
func (w *Writer) WriteReport(rep *models.Report) error {
	data, err := render.StructuredJSON(rep)
	if err != nil {
		return err
	}

	path := w.path
	if strings.Contains(path, "%s") {
		path = fmt.Sprintf(path, rep.ID)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	logger.Infof("Report %s written to %s", rep.ID, path)
	return nil
}

// Close is a no-op for file output.
func (w *Writer) Close() error {
	return nil
}
