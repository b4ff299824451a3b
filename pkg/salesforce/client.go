// Package salesforce is a throttled, JWT-authenticated wrapper over the
// Salesforce REST API, shaped for bulk Lead upserts.
package salesforce

import (
	"context"
	"maps"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Salesforce API operations used by the lead sync.
type Client interface {
	Query(ctx context.Context, soql string, out any) error
	InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error)
	UpdateCollection(ctx context.Context, sObjectName string, records []CollectionRecord) ([]CollectionResult, error)
}

// CollectionRecord is one existing record in a collection update.
type CollectionRecord struct {
	ID     string         `json:"Id"`
	Fields map[string]any `json:"fields"`
}

// CollectionResult is the outcome of a single record in a collection operation.
type CollectionResult struct {
	ID      string   `json:"id"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// JWTConfig holds the connected-app credentials for the JWT bearer flow.
type JWTConfig struct {
	LoginURL string
	Username string
	ClientID string
	KeyPEM   []byte
}

// ClientOption configures the Salesforce client.
type ClientOption func(*sfClient)

// WithRateLimit caps API calls per second. Unset means unthrottled.
func WithRateLimit(rps float64) ClientOption {
	return func(c *sfClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type sfClient struct {
	sf      *salesforce.Salesforce
	limiter *rate.Limiter
}

// NewClient wraps an initialised go-salesforce session.
func NewClient(sf *salesforce.Salesforce, opts ...ClientOption) Client {
	c := &sfClient{sf: sf}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial authenticates with the JWT bearer flow and returns a Client.
func Dial(cfg JWTConfig, opts ...ClientOption) (Client, error) {
	if cfg.ClientID == "" {
		return nil, eris.New("sf: client id is required")
	}
	if len(cfg.KeyPEM) == 0 {
		return nil, eris.New("sf: private key is required")
	}
	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.LoginURL,
		Username:       cfg.Username,
		ConsumerKey:    cfg.ClientID,
		ConsumerRSAPem: string(cfg.KeyPEM),
	})
	if err != nil {
		return nil, eris.Wrap(err, "sf: init")
	}
	return NewClient(sf, opts...), nil
}

// throttle blocks until the limiter grants a call or ctx ends. go-salesforce
// takes no context, so this is the only point a caller can cancel.
func (c *sfClient) throttle(ctx context.Context, op string) error {
	if c.limiter == nil {
		return nil
	}
	return eris.Wrapf(c.limiter.Wait(ctx), "sf: %s: throttle", op)
}

func (c *sfClient) Query(ctx context.Context, soql string, out any) error {
	if err := c.throttle(ctx, "query"); err != nil {
		return err
	}
	return eris.Wrap(c.sf.Query(soql, out), "sf: query")
}

func (c *sfClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	op := "insert " + sObjectName
	if err := c.throttle(ctx, op); err != nil {
		return nil, err
	}
	res, err := c.sf.InsertCollection(sObjectName, records, maxBatchSize)
	if err != nil {
		return nil, eris.Wrapf(err, "sf: %s", op)
	}
	return convertResults(res), nil
}

func (c *sfClient) UpdateCollection(ctx context.Context, sObjectName string, records []CollectionRecord) ([]CollectionResult, error) {
	op := "update " + sObjectName
	if err := c.throttle(ctx, op); err != nil {
		return nil, err
	}
	payload := make([]map[string]any, len(records))
	for i, rec := range records {
		payload[i] = rec.payload()
	}
	res, err := c.sf.UpdateCollection(sObjectName, payload, maxBatchSize)
	if err != nil {
		return nil, eris.Wrapf(err, "sf: %s", op)
	}
	return convertResults(res), nil
}

// payload flattens the record into the shape the collections API expects.
func (r CollectionRecord) payload() map[string]any {
	m := make(map[string]any, len(r.Fields)+1)
	maps.Copy(m, r.Fields)
	m["Id"] = r.ID
	return m
}

func convertResults(in salesforce.SalesforceResults) []CollectionResult {
	out := make([]CollectionResult, len(in.Results))
	for i, r := range in.Results {
		res := CollectionResult{ID: r.Id, Success: r.Success}
		for _, e := range r.Errors {
			res.Errors = append(res.Errors, e.Message)
		}
		out[i] = res
	}
	return out
}
