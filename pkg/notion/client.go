// Package notion is a throttled wrapper over the Notion API for the lead
// database sync.
package notion

import (
	"context"
	"net/http"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultRPS is Notion's documented average request limit per integration.
const DefaultRPS = 3

// Client is the subset of the Notion API the lead sync drives.
type Client interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

// ClientOption configures NewClient.
type ClientOption func(*settings)

type settings struct {
	rps  float64
	http *http.Client
}

// WithRateLimit sets requests per second. Zero or less disables throttling.
func WithRateLimit(rps float64) ClientOption {
	return func(s *settings) { s.rps = rps }
}

// WithHTTPClient sets the transport used for API calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(s *settings) { s.http = hc }
}

type throttled struct {
	api     *notionapi.Client
	limiter *rate.Limiter
}

// NewClient returns a Client for an integration token.
func NewClient(token string, opts ...ClientOption) Client {
	s := settings{rps: DefaultRPS}
	for _, opt := range opts {
		opt(&s)
	}

	var apiOpts []notionapi.ClientOption
	if s.http != nil {
		apiOpts = append(apiOpts, notionapi.WithHTTPClient(s.http))
	}

	t := &throttled{api: notionapi.NewClient(notionapi.Token(token), apiOpts...)}
	if s.rps > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(s.rps), max(int(s.rps), 1))
	}
	return t
}

// call waits for a token and runs fn, wrapping any error with op.
func call[T any](ctx context.Context, lim *rate.Limiter, op string, fn func() (T, error)) (T, error) {
	var zero T
	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return zero, eris.Wrapf(err, "notion: %s: throttle", op)
		}
	}
	out, err := fn()
	if err != nil {
		return zero, eris.Wrapf(err, "notion: %s", op)
	}
	return out, nil
}

func (t *throttled) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return call(ctx, t.limiter, "query database "+dbID, func() (*notionapi.DatabaseQueryResponse, error) {
		return t.api.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
	})
}

func (t *throttled) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return call(ctx, t.limiter, "create page", func() (*notionapi.Page, error) {
		return t.api.Page.Create(ctx, req)
	})
}

func (t *throttled) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return call(ctx, t.limiter, "update page "+pageID, func() (*notionapi.Page, error) {
		return t.api.Page.Update(ctx, notionapi.PageID(pageID), req)
	})
}
