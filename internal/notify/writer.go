package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"arxivdigest/internal/types"
)

const reportFilePrefix = "recsys-llm-industry-"

// Writer saves the per-run report files. Files are written before any email
// is attempted, so a mail outage never loses the report.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir (created on first save).
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Save writes the HTML report and a JSON dump of the digest papers, both
// named by the run date. It returns the HTML file path.
func (w *Writer) Save(html string, d types.Digest) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", w.dir, err)
	}

	dateStr := d.Generated.Format("2006-01-02")

	htmlPath := filepath.Join(w.dir, reportFilePrefix+dateStr+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write HTML report %s: %w", htmlPath, err)
	}

	papers := d.Papers
	if papers == nil {
		papers = []types.Paper{}
	}
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report JSON: %w", err)
	}

	jsonPath := filepath.Join(w.dir, reportFilePrefix+dateStr+".json")
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write JSON report %s: %w", jsonPath, err)
	}

	log.Printf("Report saved to %s", htmlPath)
	return htmlPath, nil
}
