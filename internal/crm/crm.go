// Package crm pushes enriched leads to external CRMs after a run.
package crm

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/pkg/notion"
	"github.com/sells-group/campaign-cli/pkg/salesforce"
)

// Result counts what one sync did.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Syncer pushes a run's leads to one CRM target.
type Syncer interface {
	Name() string
	Sync(ctx context.Context, leads []model.EnrichedLead) (Result, error)
}

// FromConfig builds the syncers enabled by cfg. A target with no
// credentials is skipped.
func FromConfig(cfg *config.Config) ([]Syncer, error) {
	var syncers []Syncer

	if cfg.Notion.Token != "" {
		syncers = append(syncers, NewNotionSyncer(notion.NewClient(cfg.Notion.Token), cfg.Notion.LeadDB))
	}

	if cfg.Salesforce.ClientID != "" {
		pem, err := os.ReadFile(cfg.Salesforce.KeyPath)
		if err != nil {
			return nil, eris.Wrap(err, "crm: read salesforce private key")
		}
		sf, err := salesforce.Dial(salesforce.JWTConfig{
			LoginURL: cfg.Salesforce.LoginURL,
			Username: cfg.Salesforce.Username,
			ClientID: cfg.Salesforce.ClientID,
			KeyPEM:   pem,
		}, salesforce.WithRateLimit(5))
		if err != nil {
			return nil, eris.Wrap(err, "crm: connect salesforce")
		}
		syncers = append(syncers, NewSalesforceSyncer(sf))
	}

	return syncers, nil
}

// splitName returns first and last name. A single token is the last name.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
