package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/generate"
	"github.com/sells-group/campaign-cli/internal/model"
)

// Source records how much of an Enrichment came from the model.
type Source string

const (
	SourceLLM       Source = "llm"
	SourcePartial   Source = "partial"
	SourceHeuristic Source = "heuristic"
)

// DefaultPersona is used when the model gives no persona.
const DefaultPersona = "Pragmatic decision-maker"

const enrichPrompt = `
You are a B2B SDR assistant. Given this lead:
Name: %s
Title: %s
Company: %s
Email: %s
Notes: %s

1) Give a lead score from 1-100.
2) Suggest a short buyer persona (3-6 words).
3) Write ONE warm intro sentence (<= 30 words) customized to the lead.
Return JSON with keys: score, persona, intro.
`

// Enrichment is the merged model/heuristic result for one lead.
type Enrichment struct {
	Score   int
	Persona string
	Intro   string
	Source  Source
}

// BuildPrompt renders the enrichment prompt for a lead.
func BuildPrompt(lead model.Lead) string {
	return fmt.Sprintf(enrichPrompt, lead.Name, lead.Title, lead.Company, lead.Email, lead.Notes)
}

// Enrich asks gen for score, persona and intro, falling back per field to
// the heuristic score and fixed defaults.
func Enrich(ctx context.Context, gen generate.Generator, lead model.Lead) Enrichment {
	reply := gen.Generate(ctx, BuildPrompt(lead))
	if generate.IsPlaceholder(reply) {
		zap.L().Debug("pipeline: generation placeholder",
			zap.Int("row", lead.Row),
			zap.String("reply", firstLine(reply)),
		)
	}
	parsed := parseEnrichment(reply)

	e := Enrichment{Score: SimpleScore(lead), Persona: DefaultPersona, Intro: defaultIntro(lead)}
	fromModel := 0
	if parsed.score != nil {
		e.Score = clampScore(*parsed.score)
		fromModel++
	}
	if parsed.persona != "" {
		e.Persona = parsed.persona
		fromModel++
	}
	if parsed.intro != "" {
		e.Intro = parsed.intro
		fromModel++
	}

	switch fromModel {
	case 3:
		e.Source = SourceLLM
	case 0:
		e.Source = SourceHeuristic
	default:
		e.Source = SourcePartial
	}
	return e
}

func defaultIntro(lead model.Lead) string {
	who := lead.Company
	if who == "" {
		who = "you"
	}
	return fmt.Sprintf("I thought I'd share something concise that could help %s move faster this quarter.", who)
}

type enrichFields struct {
	score   *int
	persona string
	intro   string
}

// parseEnrichment reads the model reply as one JSON object. Each field is
// decoded on its own so a bad score does not discard a good persona.
func parseEnrichment(text string) enrichFields {
	var out enrichFields

	body := stripFence(strings.TrimSpace(text))
	if !strings.HasPrefix(body, "{") || !strings.Contains(body, "}") {
		return out
	}

	var raw struct {
		Score   json.RawMessage `json:"score"`
		Persona json.RawMessage `json:"persona"`
		Intro   json.RawMessage `json:"intro"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return out
	}

	if n, ok := parseScore(raw.Score); ok {
		out.score = &n
	}
	out.persona = rawString(raw.Persona)
	out.intro = rawString(raw.Intro)
	return out
}

// stripFence removes a surrounding ``` or ```json code fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseScore accepts a JSON number or a numeric string. Fractions truncate.
func parseScore(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return truncate(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return truncate(f)
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Max(math.Min(f, math.MaxInt32), math.MinInt32)), true
}

// rawString decodes a JSON string and trims it. Non-strings yield "".
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
