package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches every page matching req from a Notion database, following
// pagination cursors.
func QueryAll(ctx context.Context, c Client, dbID string, req *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	next := &notionapi.DatabaseQueryRequest{}
	if req != nil {
		next.Filter = req.Filter
		next.Sorts = req.Sorts
		next.PageSize = req.PageSize
	}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, next)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}
		all = append(all, resp.Results...)
		if !resp.HasMore {
			return all, nil
		}
		next = &notionapi.DatabaseQueryRequest{
			Filter:      next.Filter,
			Sorts:       next.Sorts,
			PageSize:    next.PageSize,
			StartCursor: resp.NextCursor,
		}
	}
}

// FindByText returns the first page whose rich_text property equals value,
// or nil when none does.
func FindByText(ctx context.Context, c Client, dbID, property, value string) (*notionapi.Page, error) {
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: property,
			RichText: &notionapi.TextFilterCondition{Equals: value},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "notion: find by %s", property)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}
