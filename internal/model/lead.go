package model

import "strings"

// Lead is one row of the input lead table.
type Lead struct {
	Row     int    `json:"row"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
}

// HasEmail reports whether the lead carries a deliverable address.
func (l Lead) HasEmail() bool {
	return strings.TrimSpace(l.Email) != ""
}

// EmailDomain returns the lower-cased text after the last "@" of the email,
// or the whole lower-cased address when there is no "@".
func (l Lead) EmailDomain() string {
	email := strings.TrimSpace(l.Email)
	if email == "" {
		return ""
	}
	if i := strings.LastIndex(email, "@"); i >= 0 {
		email = email[i+1:]
	}
	return strings.ToLower(email)
}

// Priority is the High/Medium/Low outreach tier.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Score thresholds for priority tiers.
const (
	HighScoreThreshold   = 75
	MediumScoreThreshold = 50
)

// PriorityForScore maps a lead score to its tier.
func PriorityForScore(score int) Priority {
	switch {
	case score >= HighScoreThreshold:
		return PriorityHigh
	case score >= MediumScoreThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ResponseClass is the synthetic reply classification of a drafted email.
type ResponseClass string

const (
	ResponsePositive     ResponseClass = "Positive"
	ResponseUninterested ResponseClass = "Uninterested"
	ResponseNurture      ResponseClass = "Nurture"
	ResponseNoReply      ResponseClass = "No Reply Yet"
)

// EnrichedLead is a Lead plus every field derived during a run.
type EnrichedLead struct {
	Lead
	Score         int           `json:"score"`
	Persona       string        `json:"persona"`
	Intro         string        `json:"intro"`
	Priority      Priority      `json:"priority"`
	EmailDraft    string        `json:"email_draft"`
	Delivery      Delivery      `json:"delivery"`
	ResponseClass ResponseClass `json:"response_class"`
}

// Status returns the delivery status string written to the output table.
func (e EnrichedLead) Status() string {
	return e.Delivery.String()
}
