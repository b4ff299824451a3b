// Package gemini wraps the Google GenAI SDK for plain text generation.
package gemini

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Client generates text with the Gemini API.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds Gemini client settings.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // overrides the API host, for proxies and tests
	Temperature *float32
}

type sdkClient struct {
	client *genai.Client
	model  string
	temp   *float32
}

// NewClient creates a Gemini client. The API key is required.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, eris.New("gemini: api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions.BaseURL = base
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &sdkClient{client: client, model: model, temp: cfg.Temperature}, nil
}

func (c *sdkClient) Generate(ctx context.Context, prompt string) (string, error) {
	gcfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if c.temp != nil {
		gcfg.Temperature = c.temp
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), gcfg)
	if err != nil {
		return "", eris.Wrap(err, "gemini: generate content")
	}
	return strings.TrimSpace(resp.Text()), nil
}
