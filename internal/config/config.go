package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Leads      LeadsConfig      `yaml:"leads" mapstructure:"leads"`
	Campaign   CampaignConfig   `yaml:"campaign" mapstructure:"campaign"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	SMTP       SMTPConfig       `yaml:"smtp" mapstructure:"smtp"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LeadsConfig locates the input table and the run artifacts.
type LeadsConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
	ReportsDir string `yaml:"reports_dir" mapstructure:"reports_dir"`
	Sheet      string `yaml:"sheet" mapstructure:"sheet"`
	Encoding   string `yaml:"encoding" mapstructure:"encoding"`
}

// CampaignConfig holds outreach copy settings.
type CampaignConfig struct {
	SenderName string `yaml:"sender_name" mapstructure:"sender_name"`
	Quarter    string `yaml:"quarter" mapstructure:"quarter"`
}

// LLMConfig selects and configures the text-generation backend.
type LLMConfig struct {
	Backend     string          `yaml:"backend" mapstructure:"backend"`
	TimeoutSecs int             `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Ollama      OllamaConfig    `yaml:"ollama" mapstructure:"ollama"`
	HF          HFConfig        `yaml:"hf" mapstructure:"hf"`
	Groq        GroqConfig      `yaml:"groq" mapstructure:"groq"`
	Anthropic   AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini      GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	URL   string `yaml:"url" mapstructure:"url"`
	Model string `yaml:"model" mapstructure:"model"`
}

// HFConfig holds Hugging Face Inference API settings.
type HFConfig struct {
	APIURL       string `yaml:"api_url" mapstructure:"api_url"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	MaxNewTokens int    `yaml:"max_new_tokens" mapstructure:"max_new_tokens"`
}

// GroqConfig holds Groq chat completion settings.
type GroqConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	APIURL      string  `yaml:"api_url" mapstructure:"api_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SMTPConfig configures the outbound mail relay.
type SMTPConfig struct {
	Host        string `yaml:"host" mapstructure:"host"`
	Port        int    `yaml:"port" mapstructure:"port"`
	From        string `yaml:"from" mapstructure:"from"`
	Username    string `yaml:"username" mapstructure:"username"`
	Password    string `yaml:"password" mapstructure:"password"`
	StartTLS    bool   `yaml:"starttls" mapstructure:"starttls"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// NotionConfig holds Notion credentials for the lead sync.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// FetchConfig configures remote lead source downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port       int      `yaml:"port" mapstructure:"port"`
	RunOnStart bool     `yaml:"run_on_start" mapstructure:"run_on_start"`
	FilesDir   string   `yaml:"files_dir" mapstructure:"files_dir"`
	CORSOrigin []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyEnv maps config keys to the bare environment names used by existing
// docker-compose deployments.
var legacyEnv = map[string]string{
	"llm.backend":          "LLM_BACKEND",
	"llm.ollama.url":       "OLLAMA_URL",
	"llm.ollama.model":     "OLLAMA_MODEL",
	"llm.hf.api_url":       "HF_API_URL",
	"llm.hf.api_key":       "HF_API_KEY",
	"llm.groq.api_key":     "GROQ_API_KEY",
	"llm.groq.model":       "GROQ_MODEL",
	"llm.groq.api_url":     "GROQ_API_URL",
	"llm.anthropic.key":    "ANTHROPIC_API_KEY",
	"llm.gemini.key":       "GEMINI_API_KEY",
	"smtp.host":            "SMTP_HOST",
	"smtp.port":            "SMTP_PORT",
	"smtp.from":            "FROM_EMAIL",
	"campaign.sender_name": "SENDER_NAME",
	"campaign.quarter":     "CURRENT_QUARTER",
	"leads.path":           "LEADS_PATH",
	"leads.output_path":    "OUTPUT_PATH",
	"leads.reports_dir":    "REPORTS_DIR",
	"server.run_on_start":  "RUN_ON_START",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CAMPAIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "CAMPAIGN_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", env)
		}
	}

	// Defaults
	v.SetDefault("leads.path", "data/leads.csv")
	v.SetDefault("leads.output_path", "data/leads_enriched.csv")
	v.SetDefault("leads.reports_dir", "reports")
	v.SetDefault("campaign.sender_name", "Ariana from Aster")
	v.SetDefault("campaign.quarter", "3")
	v.SetDefault("llm.backend", "")
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.ollama.url", "http://ollama:11434/api/generate")
	v.SetDefault("llm.ollama.model", "llama3.2")
	v.SetDefault("llm.hf.max_new_tokens", 256)
	v.SetDefault("llm.groq.api_url", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("llm.groq.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.groq.temperature", 0.3)
	v.SetDefault("llm.anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.anthropic.max_tokens", 512)
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("smtp.host", "mailhog")
	v.SetDefault("smtp.port", 1025)
	v.SetDefault("smtp.from", "sales@example.com")
	v.SetDefault("smtp.timeout_secs", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "campaign.db")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.user_agent", "campaign-cli/1.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.run_on_start", true)
	v.SetDefault("server.files_dir", "data")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. Mode is "run" or "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if strings.TrimSpace(c.Leads.Path) == "" {
		problems = append(problems, "leads.path is required")
	}
	if strings.TrimSpace(c.Leads.OutputPath) == "" {
		problems = append(problems, "leads.output_path is required")
	}
	if strings.TrimSpace(c.Leads.ReportsDir) == "" {
		problems = append(problems, "leads.reports_dir is required")
	}
	if strings.TrimSpace(c.SMTP.Host) == "" {
		problems = append(problems, "smtp.host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		problems = append(problems, "smtp.port must be between 1 and 65535")
	}
	if c.LLM.TimeoutSecs <= 0 {
		problems = append(problems, "llm.timeout_secs must be > 0")
	}
	switch c.Store.Driver {
	case "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
	}
	if c.Notion.Token != "" && c.Notion.LeadDB == "" {
		problems = append(problems, "notion.lead_db is required when notion.token is set")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
