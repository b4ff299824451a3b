package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// ReportFile is the summary report's name inside the reports directory.
const ReportFile = "campaign_summary.md"

// FormatSummary renders the Markdown run report.
func FormatSummary(s model.RunSummary, smtpAddr, outputPath string) string {
	return fmt.Sprintf(`# Campaign Summary

- Total leads processed: %d
- Emails sent (SMTP): %d
- Priority split: High %d, Medium %d, Low %d

## Notes
- Personalized via LLM (+ fallback).
- SMTP relay: %s.
- See `+"`%s`"+`.
`, s.Total, s.Sent, s.High, s.Medium, s.Low, smtpAddr, outputPath)
}

// WriteReport writes content to dir/ReportFile, creating dir, and returns the
// written path.
func WriteReport(dir, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "pipeline: create reports dir %s", dir)
	}
	path := filepath.Join(dir, ReportFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", eris.Wrapf(err, "pipeline: write report %s", path)
	}
	return path, nil
}
