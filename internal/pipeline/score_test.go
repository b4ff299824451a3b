package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/campaign-cli/internal/model"
)

func TestSimpleScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lead model.Lead
		want int
	}{
		{"baseline", model.Lead{}, 50},
		{"senior title", model.Lead{Title: "VP Sales"}, 75},
		{"senior and long company", model.Lead{Title: "VP Sales", Company: "Acme Corp", Email: "jane@acme.com"}, 80},
		{"junior title", model.Lead{Title: "Marketing Intern"}, 35},
		{"senior and junior", model.Lead{Title: "Assistant to the Director"}, 60},
		{"short company", model.Lead{Company: "Acme"}, 50},
		{"eight rune company", model.Lead{Company: "Café Inc"}, 50},
		{"nine rune company", model.Lead{Company: "Café Corp"}, 55},
		{"edu domain", model.Lead{Email: "prof@mit.edu"}, 40},
		{"gov domain upper", model.Lead{Email: "x@CITY.GOV"}, 40},
		{"org in middle only", model.Lead{Email: "x@org.example.com"}, 50},
		{"case insensitive", model.Lead{Title: "CHIEF of staff"}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimpleScore(tt.lead))
		})
	}
}

func TestSimpleScore_Deterministic(t *testing.T) {
	t.Parallel()

	lead := model.Lead{Title: "Founder", Company: "Gadgets Unlimited", Email: "a@b.org"}
	assert.Equal(t, SimpleScore(lead), SimpleScore(lead))
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, clampScore(-20))
	assert.Equal(t, 1, clampScore(0))
	assert.Equal(t, 100, clampScore(150))
	assert.Equal(t, 42, clampScore(42))
}
