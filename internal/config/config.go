package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	NATS      NATSConfig      `yaml:"nats"`
	LLM       LLMConfig       `yaml:"llm"`
	Detection DetectionConfig `yaml:"detection"`
	Report    ReportConfig    `yaml:"report"`
	Slack     SlackConfig     `yaml:"slack"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"             env:"MARTHA_PORT"             env-default:"8000"`
	APIKey          string        `yaml:"api_key"          env:"HONEYPOT_API_KEY"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"45s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"               env:"DATABASE_URL"               env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"         env:"DATABASE_MAX_CONNS"         env-default:"10"`
	MinConns        int32         `yaml:"min_conns"         env:"DATABASE_MIN_CONNS"         env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DATABASE_MAX_CONN_LIFETIME" env-default:"1h"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"  env:"MIGRATE_ON_START"           env-default:"true"`
}

// NATSConfig is optional; an empty URL disables the bus.
type NATSConfig struct {
	URL   string `yaml:"url"   env:"NATS_URL"`
	Token string `yaml:"token" env:"NATS_TOKEN"`
}

// LLMConfig selects the persona backend. With no provider set, the first
// provider with a key wins, in the order openai, anthropic, gemini. With no
// key at all the persona runs on canned replies.
type LLMConfig struct {
	Provider        string        `yaml:"provider"          env:"LLM_PROVIDER"`
	Timeout         time.Duration `yaml:"timeout"           env:"LLM_TIMEOUT"       env-default:"15s"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"    env:"OPENAI_API_KEY"`
	OpenAIModel     string        `yaml:"openai_model"      env:"OPENAI_MODEL"      env-default:"gpt-3.5-turbo"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"   env:"OPENAI_BASE_URL"   env-default:"https://api.openai.com/v1"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `yaml:"anthropic_model"   env:"ANTHROPIC_MODEL"   env-default:"claude-sonnet-4-20250514"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"    env:"GEMINI_API_KEY"`
	GeminiModel     string        `yaml:"gemini_model"      env:"GEMINI_MODEL"      env-default:"gemini-2.0-flash"`
}

// DetectionConfig tunes the keyword classifier.
type DetectionConfig struct {
	ScamThreshold int `yaml:"scam_threshold" env:"SCAM_THRESHOLD" env-default:"2"`
}

// ReportConfig controls final-report delivery. An empty callback URL disables
// the HTTP sink.
type ReportConfig struct {
	CallbackURL string        `yaml:"callback_url" env:"REPORT_CALLBACK_URL"`
	Timeout     time.Duration `yaml:"timeout"      env:"REPORT_TIMEOUT"      env-default:"10s"`
}

// SlackConfig enables report alerts when both fields are set.
type SlackConfig struct {
	BotToken      string `yaml:"bot_token"      env:"SLACK_BOT_TOKEN"`
	AlertsChannel string `yaml:"alerts_channel" env:"SLACK_ALERTS_CHANNEL"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,X-API-KEY"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SlackEnabled reports whether report alerts go to Slack.
func (c *Config) SlackEnabled() bool {
	return c.Slack.BotToken != "" && c.Slack.AlertsChannel != ""
}

// Backend returns the persona backend to use, or "" for canned replies only.
func (l LLMConfig) Backend() string {
	if l.Provider != "" {
		return l.Provider
	}
	switch {
	case l.OpenAIAPIKey != "":
		return ProviderOpenAI
	case l.AnthropicAPIKey != "":
		return ProviderAnthropic
	case l.GeminiAPIKey != "":
		return ProviderGemini
	default:
		return ""
	}
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)
