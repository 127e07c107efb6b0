package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/martha/internal/anthropic"
	"github.com/MikeSquared-Agency/martha/internal/config"
	"github.com/MikeSquared-Agency/martha/internal/gemini"
	"github.com/MikeSquared-Agency/martha/internal/hermes"
	"github.com/MikeSquared-Agency/martha/internal/openai"
	"github.com/MikeSquared-Agency/martha/internal/persona"
	"github.com/MikeSquared-Agency/martha/internal/report"
	"github.com/MikeSquared-Agency/martha/internal/slack"
	"github.com/MikeSquared-Agency/martha/internal/store"
)

// newBackend returns nil, with no error, when no provider is configured.
func newBackend(ctx context.Context, cfg config.LLMConfig) (persona.Backend, error) {
	switch cfg.Backend() {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), nil
	case config.ProviderAnthropic:
		return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}

func modelFor(cfg config.LLMConfig) string {
	switch cfg.Backend() {
	case config.ProviderOpenAI:
		return cfg.OpenAIModel
	case config.ProviderAnthropic:
		return cfg.AnthropicModel
	case config.ProviderGemini:
		return cfg.GeminiModel
	default:
		return ""
	}
}

// newSinks builds every configured report sink. bus may be nil.
func newSinks(cfg *config.Config, bus *hermes.Client, logger *slog.Logger) []report.Sink {
	var sinks []report.Sink
	if cfg.Report.CallbackURL != "" {
		sinks = append(sinks, report.NewCallbackSink(cfg.Report.CallbackURL, cfg.Report.Timeout))
	}
	if bus != nil {
		sinks = append(sinks, report.NewPublisherSink(bus, hermes.SubjectReportFinal))
	}
	if cfg.SlackEnabled() {
		sinks = append(sinks, slack.NewPoster(cfg.Slack.BotToken, cfg.Slack.AlertsChannel, logger))
		logger.Info("slack alerts ready", "channel", cfg.Slack.AlertsChannel)
	}
	return sinks
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store.Store, error) {
	db, err := store.New(ctx, cfg.URL, store.Options{
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
