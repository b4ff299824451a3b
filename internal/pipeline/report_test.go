package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/model"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	got := FormatSummary(model.RunSummary{Total: 3, Sent: 2, High: 1, Medium: 1, Low: 1}, "mailhog:1025", "data/leads_enriched.csv")
	want := "# Campaign Summary\n\n" +
		"- Total leads processed: 3\n" +
		"- Emails sent (SMTP): 2\n" +
		"- Priority split: High 1, Medium 1, Low 1\n\n" +
		"## Notes\n" +
		"- Personalized via LLM (+ fallback).\n" +
		"- SMTP relay: mailhog:1025.\n" +
		"- See `data/leads_enriched.csv`.\n"
	assert.Equal(t, want, got)
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "reports")
	path, err := WriteReport(dir, "# hi\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ReportFile), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\n", string(b))
}

func TestWriteReport_Unwritable(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := WriteReport(filepath.Join(file, "reports"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: create reports dir")
}
