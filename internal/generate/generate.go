// Package generate turns a prompt into text using the configured LLM backend.
// Generation never fails from the caller's point of view: provider errors come
// back as text beginning with a bracketed label.
package generate

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/metrics"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Error placeholder labels.
const (
	LabelOllama    = "[OLLAMA_ERROR]"
	LabelHF        = "[HF_ERROR]"
	LabelGroq      = "[GROQ_ERROR]"
	LabelAnthropic = "[ANTHROPIC_ERROR]"
	LabelGemini    = "[GEMINI_ERROR]"
	LabelFallback  = "[FALLBACK_GENERATION]"
)

// Backend identifies a generation provider.
type Backend int

const (
	BackendFallback Backend = iota
	BackendOllama
	BackendHF
	BackendGroq
	BackendAnthropic
	BackendGemini
)

// ParseBackend maps a configured backend name to a Backend. Unknown and empty
// names select the fallback.
func ParseBackend(name string) Backend {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ollama":
		return BackendOllama
	case "hf", "huggingface":
		return BackendHF
	case "groq":
		return BackendGroq
	case "anthropic":
		return BackendAnthropic
	case "gemini":
		return BackendGemini
	default:
		return BackendFallback
	}
}

func (b Backend) String() string {
	switch b {
	case BackendOllama:
		return "ollama"
	case BackendHF:
		return "hf"
	case BackendGroq:
		return "groq"
	case BackendAnthropic:
		return "anthropic"
	case BackendGemini:
		return "gemini"
	default:
		return "fallback"
	}
}

// Label returns the error placeholder prefix for the backend.
func (b Backend) Label() string {
	switch b {
	case BackendOllama:
		return LabelOllama
	case BackendHF:
		return LabelHF
	case BackendGroq:
		return LabelGroq
	case BackendAnthropic:
		return LabelAnthropic
	case BackendGemini:
		return LabelGemini
	default:
		return LabelFallback
	}
}

// IsPlaceholder reports whether text is an error or fallback placeholder
// rather than model output.
func IsPlaceholder(text string) bool {
	for _, l := range []string{LabelOllama, LabelHF, LabelGroq, LabelAnthropic, LabelGemini, LabelFallback} {
		if strings.HasPrefix(text, l) {
			return true
		}
	}
	return false
}

// New builds the Generator selected by cfg.Backend. The metrics manager may be nil.
func New(ctx context.Context, cfg config.LLMConfig, m *metrics.Manager) Generator {
	backend := ParseBackend(cfg.Backend)
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	hc := &http.Client{Timeout: timeout}

	var g *provider
	switch backend {
	case BackendOllama:
		g = newOllama(cfg.Ollama, hc)
	case BackendHF:
		g = newHF(cfg.HF, hc)
	case BackendGroq:
		g = newGroq(cfg.Groq, hc)
	case BackendAnthropic:
		g = newAnthropic(cfg.Anthropic)
	case BackendGemini:
		g = newGemini(ctx, cfg.Gemini)
	default:
		zap.L().Info("generate: no llm backend selected, using fallback", zap.String("backend", cfg.Backend))
		return &fallback{metrics: m}
	}

	g.backend = backend
	g.timeout = timeout
	g.metrics = m
	zap.L().Info("generate: backend selected", zap.String("backend", backend.String()))
	return g
}

// provider adapts a pkg client call to the Generator contract.
type provider struct {
	backend Backend
	timeout time.Duration
	metrics *metrics.Manager

	// missing is set when required credentials are absent; no call is made.
	missing string
	call    func(ctx context.Context, prompt string) (string, error)
}

func (p *provider) Generate(ctx context.Context, prompt string) string {
	label := p.backend.Label()
	if p.missing != "" {
		p.metrics.ObserveGeneration(p.backend.String(), "error", 0)
		return label + " " + p.missing
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	out, err := p.call(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		p.metrics.ObserveGeneration(p.backend.String(), "error", elapsed)
		zap.L().Warn("generate: provider call failed",
			zap.String("backend", p.backend.String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return label + " " + err.Error()
	}

	p.metrics.ObserveGeneration(p.backend.String(), "ok", elapsed)
	return out
}
