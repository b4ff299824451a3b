package crm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/pkg/salesforce"
)

const (
	sfLeadObject = "Lead"
	sfLeadSource = "campaign-cli"
	sfNoCompany  = "[not provided]"
)

// SalesforceSyncer upserts leads as Salesforce Lead records, matching on
// Email. Leads without an email are skipped.
type SalesforceSyncer struct {
	client salesforce.Client
}

// NewSalesforceSyncer returns a syncer backed by c.
func NewSalesforceSyncer(c salesforce.Client) *SalesforceSyncer {
	return &SalesforceSyncer{client: c}
}

func (s *SalesforceSyncer) Name() string { return "salesforce" }

func (s *SalesforceSyncer) Sync(ctx context.Context, leads []model.EnrichedLead) (Result, error) {
	var withEmail []model.EnrichedLead
	var emails []string
	for _, l := range leads {
		if l.HasEmail() {
			withEmail = append(withEmail, l)
			emails = append(emails, strings.TrimSpace(l.Email))
		}
	}
	if len(withEmail) == 0 {
		return Result{}, nil
	}

	existing, err := salesforce.FindLeadIDsByEmail(ctx, s.client, emails)
	if err != nil {
		return Result{}, eris.Wrap(err, "crm: salesforce lookup")
	}

	var inserts []map[string]any
	var updates []salesforce.CollectionRecord
	for _, l := range withEmail {
		fields := leadFields(l)
		if id, ok := existing[strings.ToLower(strings.TrimSpace(l.Email))]; ok {
			updates = append(updates, salesforce.CollectionRecord{ID: id, Fields: fields})
		} else {
			inserts = append(inserts, fields)
		}
	}

	var res Result
	if len(inserts) > 0 {
		results, err := salesforce.BulkInsert(ctx, s.client, sfLeadObject, inserts)
		tally(results, &res.Created, &res.Failed)
		if err != nil {
			return res, eris.Wrap(err, "crm: salesforce insert")
		}
	}
	if len(updates) > 0 {
		results, err := salesforce.BulkUpdate(ctx, s.client, sfLeadObject, updates)
		tally(results, &res.Updated, &res.Failed)
		if err != nil {
			return res, eris.Wrap(err, "crm: salesforce update")
		}
	}
	return res, nil
}

func tally(results []salesforce.CollectionResult, ok, failed *int) {
	for _, r := range results {
		if r.Success {
			*ok++
			continue
		}
		*failed++
		zap.L().Warn("crm: salesforce record rejected",
			zap.String("id", r.ID),
			zap.Strings("errors", r.Errors),
		)
	}
}

// leadFields maps an enriched lead onto standard Lead fields.
func leadFields(l model.EnrichedLead) map[string]any {
	first, last := splitName(l.Name)
	if last == "" {
		last = strings.TrimSpace(l.Email)
	}
	company := strings.TrimSpace(l.Company)
	if company == "" {
		company = sfNoCompany
	}
	return map[string]any{
		"FirstName":   first,
		"LastName":    last,
		"Company":     company,
		"Title":       l.Title,
		"Email":       strings.TrimSpace(l.Email),
		"Rating":      rating(l.Priority),
		"LeadSource":  sfLeadSource,
		"Description": l.Persona,
	}
}

// rating maps a priority tier to the standard Lead Rating picklist.
func rating(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "Hot"
	case model.PriorityMedium:
		return "Warm"
	default:
		return "Cold"
	}
}
