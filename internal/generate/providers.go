package generate

import (
	"context"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/pkg/anthropic"
	"github.com/sells-group/campaign-cli/pkg/gemini"
	"github.com/sells-group/campaign-cli/pkg/groq"
	"github.com/sells-group/campaign-cli/pkg/huggingface"
	"github.com/sells-group/campaign-cli/pkg/ollama"
)

func newOllama(cfg config.OllamaConfig, hc *http.Client) *provider {
	client := ollama.NewClient(
		ollama.WithURL(cfg.URL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(hc),
	)
	return &provider{call: client.Generate}
}

func newHF(cfg config.HFConfig, hc *http.Client) *provider {
	url := strings.TrimSpace(cfg.APIURL)
	key := strings.TrimSpace(cfg.APIKey)
	if url == "" || key == "" {
		return &provider{missing: "Missing HF_API_URL or HF_API_KEY"}
	}
	client := huggingface.NewClient(url, key,
		huggingface.WithMaxNewTokens(cfg.MaxNewTokens),
		huggingface.WithHTTPClient(hc),
	)
	return &provider{call: client.Generate}
}

func newGroq(cfg config.GroqConfig, hc *http.Client) *provider {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return &provider{missing: "Missing GROQ_API_KEY"}
	}
	client := groq.NewClient(key,
		groq.WithURL(cfg.APIURL),
		groq.WithModel(cfg.Model),
		groq.WithHTTPClient(hc),
	)
	temp := cfg.Temperature
	return &provider{call: func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.ChatCompletion(ctx, groq.ChatCompletionRequest{
			Messages:    []groq.Message{{Role: "user", Content: prompt}},
			Temperature: &temp,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", eris.New("groq: empty choice list")
		}
		return strings.TrimSpace(resp.Content()), nil
	}}
}

func newAnthropic(cfg config.AnthropicConfig) *provider {
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		return &provider{missing: "Missing ANTHROPIC_API_KEY"}
	}
	client := anthropic.NewClient(key,
		anthropic.WithBaseURL(cfg.BaseURL),
		anthropic.WithModel(cfg.Model),
		anthropic.WithMaxTokens(cfg.MaxTokens),
	)
	return &provider{call: func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.CreateMessage(ctx, anthropic.MessageRequest{
			Messages: []anthropic.Message{{Role: "user", Content: prompt}},
		})
		if err != nil {
			return "", err
		}
		text := resp.Text()
		if text == "" {
			return "", eris.New("anthropic: response has no text content")
		}
		return strings.TrimSpace(text), nil
	}}
}

func newGemini(ctx context.Context, cfg config.GeminiConfig) *provider {
	if strings.TrimSpace(cfg.Key) == "" {
		return &provider{missing: "Missing GEMINI_API_KEY"}
	}
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:  cfg.Key,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return &provider{call: func(context.Context, string) (string, error) { return "", err }}
	}
	return &provider{call: client.Generate}
}
