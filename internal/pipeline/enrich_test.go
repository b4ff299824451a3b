package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/model"
)

// stubGenerator returns a fixed reply and records the prompt.
type stubGenerator struct {
	reply   string
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) string {
	s.prompts = append(s.prompts, prompt)
	return s.reply
}

var jane = model.Lead{Name: "Jane Doe", Title: "VP Sales", Company: "Acme Corp", Email: "jane@acme.com", Notes: "met at expo"}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	p := BuildPrompt(jane)
	assert.Contains(t, p, "Name: Jane Doe\n")
	assert.Contains(t, p, "Title: VP Sales\n")
	assert.Contains(t, p, "Company: Acme Corp\n")
	assert.Contains(t, p, "Email: jane@acme.com\n")
	assert.Contains(t, p, "Notes: met at expo\n")
	assert.Contains(t, p, "Return JSON with keys: score, persona, intro.")
}

func TestEnrich_FullJSON(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: `{"score": 91, "persona": " Scaling sales leader ", "intro": "Loved your expo talk."}`}
	e := Enrich(context.Background(), gen, jane)

	assert.Equal(t, 91, e.Score)
	assert.Equal(t, "Scaling sales leader", e.Persona)
	assert.Equal(t, "Loved your expo talk.", e.Intro)
	assert.Equal(t, SourceLLM, e.Source)
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, BuildPrompt(jane), gen.prompts[0])
}

func TestEnrich_PrettyPrintedAndFenced(t *testing.T) {
	t.Parallel()

	reply := "```json\n{\n  \"score\": \"66\",\n  \"persona\": \"Ops minded buyer\",\n  \"intro\": \"Hi.\"\n}\n```"
	e := Enrich(context.Background(), &stubGenerator{reply: reply}, jane)

	assert.Equal(t, 66, e.Score)
	assert.Equal(t, "Ops minded buyer", e.Persona)
	assert.Equal(t, SourceLLM, e.Source)
}

func TestEnrich_PartialFallback(t *testing.T) {
	t.Parallel()

	e := Enrich(context.Background(), &stubGenerator{reply: `{"score": "high", "persona": "Busy exec"}`}, jane)

	assert.Equal(t, 80, e.Score, "unparsable score falls back to heuristic")
	assert.Equal(t, "Busy exec", e.Persona)
	assert.Equal(t, "I thought I'd share something concise that could help Acme Corp move faster this quarter.", e.Intro)
	assert.Equal(t, SourcePartial, e.Source)
}

func TestEnrich_PlaceholderUsesHeuristics(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "[FALLBACK_GENERATION]\nPrompt:\nYou are a B2B SDR assistant..."}
	e := Enrich(context.Background(), gen, jane)

	assert.Equal(t, 80, e.Score)
	assert.Equal(t, DefaultPersona, e.Persona)
	assert.Equal(t, SourceHeuristic, e.Source)
}

func TestEnrich_IntroWithoutCompany(t *testing.T) {
	t.Parallel()

	e := Enrich(context.Background(), &stubGenerator{reply: "error"}, model.Lead{Name: "Sam"})
	assert.Equal(t, "I thought I'd share something concise that could help you move faster this quarter.", e.Intro)
}

func TestEnrich_ScoreClamped(t *testing.T) {
	t.Parallel()

	e := Enrich(context.Background(), &stubGenerator{reply: `{"score": 250}`}, jane)
	assert.Equal(t, 100, e.Score)

	e = Enrich(context.Background(), &stubGenerator{reply: `{"score": -4}`}, jane)
	assert.Equal(t, 1, e.Score)

	e = Enrich(context.Background(), &stubGenerator{reply: `{"score": 0}`}, jane)
	assert.Equal(t, 1, e.Score)
}

func TestParseEnrichment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reply     string
		wantScore *int
		persona   string
	}{
		{"empty", "", nil, ""},
		{"prose before json", "Sure! {\"score\": 70}", nil, ""},
		{"no closing brace", "{\"score\": 70", nil, ""},
		{"trailing text", "{\"score\": 70} hope this helps", nil, ""},
		{"fraction truncates", "{\"score\": 72.9}", intPtr(72), ""},
		{"float string", "{\"score\": \"55.5\"}", intPtr(55), ""},
		{"null score", "{\"score\": null, \"persona\": \"x\"}", nil, "x"},
		{"persona not string", "{\"score\": 10, \"persona\": 5}", intPtr(10), ""},
		{"bare fence", "```\n{\"score\": 33}\n```", intPtr(33), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEnrichment(tt.reply)
			assert.Equal(t, tt.wantScore, got.score)
			assert.Equal(t, tt.persona, got.persona)
		})
	}
}

func intPtr(n int) *int { return &n }
