package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Detection.ScamThreshold < 1 {
		return fmt.Errorf("detection.scam_threshold must be >= 1 (got %d)", c.Detection.ScamThreshold)
	}
	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if u := c.Report.CallbackURL; u != "" {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("report.callback_url must be an absolute http(s) URL (got %q)", u)
		}
	}
	if (c.Slack.BotToken == "") != (c.Slack.AlertsChannel == "") {
		return fmt.Errorf("slack.bot_token and slack.alerts_channel must be set together")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}

func (l LLMConfig) validate() error {
	if l.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", l.Timeout)
	}
	switch l.Provider {
	case "":
		return nil
	case ProviderOpenAI:
		if l.OpenAIAPIKey == "" {
			return fmt.Errorf("provider openai requires OPENAI_API_KEY")
		}
	case ProviderAnthropic:
		if l.AnthropicAPIKey == "" {
			return fmt.Errorf("provider anthropic requires ANTHROPIC_API_KEY")
		}
	case ProviderGemini:
		if l.GeminiAPIKey == "" {
			return fmt.Errorf("provider gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q", l.Provider)
	}
	return nil
}
