package generate

import (
	"context"

	"github.com/sells-group/campaign-cli/internal/metrics"
)

const fallbackPromptRunes = 120

// fallback echoes a truncated prompt when no backend is configured.
type fallback struct {
	metrics *metrics.Manager
}

func (f *fallback) Generate(_ context.Context, prompt string) string {
	f.metrics.ObserveGeneration(BackendFallback.String(), "fallback", 0)
	return LabelFallback + "\nPrompt:" + truncateRunes(prompt, fallbackPromptRunes) + "..."
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
