package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/campaign-cli/internal/model"
)

const (
	baseScore      = 50
	seniorBonus    = 25
	juniorPenalty  = 15
	companyBonus   = 5
	nonprofitMinus = 10

	minScore = 1
	maxScore = 100
)

var (
	seniorKeywords    = []string{"head", "vp", "director", "chief", "owner", "founder"}
	juniorKeywords    = []string{"intern", "assistant", "trainee"}
	nonprofitSuffixes = []string{".edu", ".gov", ".org"}
)

// SimpleScore is the deterministic heuristic lead score.
func SimpleScore(lead model.Lead) int {
	score := baseScore
	title := strings.ToLower(lead.Title)

	if containsAny(title, seniorKeywords) {
		score += seniorBonus
	}
	if containsAny(title, juniorKeywords) {
		score -= juniorPenalty
	}
	if utf8.RuneCountInString(lead.Company) > 8 {
		score += companyBonus
	}
	domain := lead.EmailDomain()
	for _, suffix := range nonprofitSuffixes {
		if strings.HasSuffix(domain, suffix) {
			score -= nonprofitMinus
			break
		}
	}
	return clampScore(score)
}

func clampScore(score int) int {
	return max(minScore, min(score, maxScore))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
