package crm

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/pkg/notion"
)

// Notion lead database property names.
const (
	propName     = "Name"
	propEmail    = "Email"
	propTitle    = "Title"
	propCompany  = "Company"
	propScore    = "Score"
	propPriority = "Priority"
	propPersona  = "Persona"
	propStatus   = "Status"
	propResponse = "Response"
)

// NotionSyncer upserts leads into a Notion database, matching on Email.
type NotionSyncer struct {
	client notion.Client
	dbID   string
}

// NewNotionSyncer returns a syncer writing into the database dbID.
func NewNotionSyncer(c notion.Client, dbID string) *NotionSyncer {
	return &NotionSyncer{client: c, dbID: dbID}
}

func (s *NotionSyncer) Name() string { return "notion" }

// Sync creates or updates one page per lead. Per-lead failures are counted
// and logged; only a cancelled context aborts the loop.
func (s *NotionSyncer) Sync(ctx context.Context, leads []model.EnrichedLead) (Result, error) {
	var res Result
	for _, l := range leads {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		created, err := s.upsert(ctx, l)
		switch {
		case err != nil:
			res.Failed++
			zap.L().Warn("crm: notion sync lead failed",
				zap.Int("row", l.Row),
				zap.String("email", l.Email),
				zap.Error(err),
			)
		case created:
			res.Created++
		default:
			res.Updated++
		}
	}
	return res, nil
}

func (s *NotionSyncer) upsert(ctx context.Context, l model.EnrichedLead) (bool, error) {
	props := leadProperties(l)

	if email := strings.TrimSpace(l.Email); email != "" {
		page, err := notion.FindByText(ctx, s.client, s.dbID, propEmail, email)
		if err != nil {
			return false, err
		}
		if page != nil {
			_, err := s.client.UpdatePage(ctx, string(page.ID), &notionapi.PageUpdateRequest{Properties: props})
			return false, err
		}
	}

	_, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: props,
	})
	return true, err
}

func leadProperties(l model.EnrichedLead) notionapi.Properties {
	props := notionapi.Properties{
		propName:    notion.Title(l.Name),
		propEmail:   notion.RichText(strings.TrimSpace(l.Email)),
		propTitle:   notion.RichText(l.Title),
		propCompany: notion.RichText(l.Company),
		propScore:   notion.Number(float64(l.Score)),
		propPersona: notion.RichText(l.Persona),
		propStatus:  notion.RichText(l.Status()),
	}
	if l.Priority != "" {
		props[propPriority] = notion.Select(string(l.Priority))
	}
	if l.ResponseClass != "" {
		props[propResponse] = notion.Select(string(l.ResponseClass))
	}
	return props
}
