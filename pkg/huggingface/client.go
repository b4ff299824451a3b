// Package huggingface is a client for the Hugging Face hosted Inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultMaxNewTokens = 256

// Client generates text with a Hugging Face inference endpoint.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is the text-generation payload.
type Request struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

// Parameters holds generation parameters.
type Parameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

type generated struct {
	GeneratedText *string `json:"generated_text"`
}

// Option configures the client.
type Option func(*httpClient)

// WithMaxNewTokens overrides the generation length.
func WithMaxNewTokens(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxNewTokens = n
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	url          string
	apiKey       string
	maxNewTokens int
	http         *http.Client
}

// NewClient creates a client for the model endpoint at url.
func NewClient(url, apiKey string, opts ...Option) Client {
	c := &httpClient{
		url:          url,
		apiKey:       apiKey,
		maxNewTokens: defaultMaxNewTokens,
		http:         &http.Client{Timeout: 120 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate returns the generated_text of the response. Endpoints answer with
// either a list of generations or a single object; any other JSON shape is
// returned verbatim.
func (c *httpClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{
		Inputs:     prompt,
		Parameters: Parameters{MaxNewTokens: c.maxNewTokens},
	})
	if err != nil {
		return "", eris.Wrap(err, "huggingface: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "huggingface: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "huggingface: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "huggingface: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", eris.Errorf("huggingface: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return extractText(respBody)
}

func extractText(body []byte) (string, error) {
	var list []generated
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) > 0 && list[0].GeneratedText != nil {
			return *list[0].GeneratedText, nil
		}
		return string(bytes.TrimSpace(body)), nil
	}

	var single generated
	if err := json.Unmarshal(body, &single); err == nil {
		if single.GeneratedText != nil {
			return *single.GeneratedText, nil
		}
		return string(bytes.TrimSpace(body)), nil
	}

	if !json.Valid(body) {
		return "", eris.New("huggingface: unmarshal response: invalid json")
	}
	return string(bytes.TrimSpace(body)), nil
}
