package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/martha/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "martha",
	Short: "Martha - conversational scam honeypot",
	Long: `Martha engages suspected scammers through a believable elderly persona,
extracts payment and contact artifacts from what they send, and reports each
confirmed scam session to case management.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(newLogHandler(cfg, os.Stdout))
	slog.SetDefault(logger)
	return logger
}

func newLogHandler(cfg config.LogConfig, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
