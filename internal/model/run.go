package model

import "time"

// RunStatus represents the current state of a campaign run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary aggregates one run's per-lead outcomes.
type RunSummary struct {
	Total  int `json:"total" yaml:"total"`
	Sent   int `json:"sent" yaml:"sent"`
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// Summarize counts sent deliveries and priority tiers.
func Summarize(leads []EnrichedLead) RunSummary {
	s := RunSummary{Total: len(leads)}
	for _, l := range leads {
		if l.Delivery.Kind == DeliverySent {
			s.Sent++
		}
		switch l.Priority {
		case PriorityHigh:
			s.High++
		case PriorityMedium:
			s.Medium++
		case PriorityLow:
			s.Low++
		}
	}
	return s
}

// Run is a persisted campaign run.
type Run struct {
	ID        string      `json:"id" yaml:"id"`
	Source    string      `json:"source" yaml:"source"`
	Status    RunStatus   `json:"status" yaml:"status"`
	Summary   *RunSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"updated_at"`
}

// LeadResult is the stored per-lead outcome of a run.
type LeadResult struct {
	RunID         string `json:"run_id" yaml:"run_id"`
	Row           int    `json:"row" yaml:"row"`
	Name          string `json:"name" yaml:"name"`
	Company       string `json:"company" yaml:"company"`
	Email         string `json:"email" yaml:"email"`
	Score         int    `json:"score" yaml:"score"`
	Persona       string `json:"persona" yaml:"persona"`
	Priority      string `json:"priority" yaml:"priority"`
	Status        string `json:"status" yaml:"status"`
	ResponseClass string `json:"response_class" yaml:"response_class"`
}

// NewLeadResult flattens an enriched lead for storage.
func NewLeadResult(runID string, l EnrichedLead) LeadResult {
	return LeadResult{
		RunID:         runID,
		Row:           l.Row,
		Name:          l.Name,
		Company:       l.Company,
		Email:         l.Email,
		Score:         l.Score,
		Persona:       l.Persona,
		Priority:      string(l.Priority),
		Status:        l.Status(),
		ResponseClass: string(l.ResponseClass),
	}
}
