package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// maxBatchSize is the Salesforce Collections API limit per request.
const maxBatchSize = 200

// Lead is the subset of a Salesforce Lead record needed for matching.
type Lead struct {
	ID    string `json:"Id" salesforce:"Id"`
	Email string `json:"Email" salesforce:"Email"`
}

// FindLeadIDsByEmail returns a lower-cased email → Lead Id map for leads that
// already exist. Emails are looked up in batches of maxBatchSize.
func FindLeadIDsByEmail(ctx context.Context, c Client, emails []string) (map[string]string, error) {
	ids := make(map[string]string)
	for _, batch := range chunk(emails, maxBatchSize) {
		quoted := make([]string, len(batch))
		for i, e := range batch {
			quoted[i] = "'" + escapeSoql(e) + "'"
		}
		soql := fmt.Sprintf("SELECT Id, Email FROM Lead WHERE Email IN (%s)", strings.Join(quoted, ", "))

		var leads []Lead
		if err := c.Query(ctx, soql, &leads); err != nil {
			return nil, eris.Wrap(err, "sf: find leads by email")
		}
		for _, l := range leads {
			ids[strings.ToLower(l.Email)] = l.ID
		}
	}
	return ids, nil
}

// BulkInsert inserts records in batches of maxBatchSize.
func BulkInsert(ctx context.Context, c Client, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	var all []CollectionResult
	for i, batch := range chunk(records, maxBatchSize) {
		results, err := c.InsertCollection(ctx, sObjectName, batch)
		if err != nil {
			return all, eris.Wrap(err, fmt.Sprintf("sf: bulk insert %s batch %d", sObjectName, i))
		}
		all = append(all, results...)
	}
	return all, nil
}

// BulkUpdate updates records in batches of maxBatchSize.
func BulkUpdate(ctx context.Context, c Client, sObjectName string, records []CollectionRecord) ([]CollectionResult, error) {
	var all []CollectionResult
	for i, batch := range chunk(records, maxBatchSize) {
		results, err := c.UpdateCollection(ctx, sObjectName, batch)
		if err != nil {
			return all, eris.Wrap(err, fmt.Sprintf("sf: bulk update %s batch %d", sObjectName, i))
		}
		all = append(all, results...)
	}
	return all, nil
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
