package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/martha/internal/config"
	"github.com/MikeSquared-Agency/martha/internal/hermes"
	"github.com/MikeSquared-Agency/martha/internal/report"
)

var deliverReport bool

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Print a session's aggregated report, optionally delivering it",
	Long: `Rebuilds the final intelligence report for one session from its persisted
turns and prints it as JSON. With --deliver the report is also sent to every
configured sink, whether or not the session was flagged as a scam.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&deliverReport, "deliver", false, "send the report to the configured sinks")
}

func runReport(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg.Log)

	db, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var bus *hermes.Client
	if deliverReport && cfg.NATS.URL != "" {
		bus, err = hermes.NewClient(ctx, cfg.NATS.URL, cfg.NATS.Token, logger)
		if err != nil {
			return err
		}
		defer bus.Close()
	}

	reporter := report.NewReporter(db, newSinks(cfg, bus, logger), cfg.Report.Timeout, logger)

	rep, ok, err := reporter.Build(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no turns recorded for session %q", sessionID)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !deliverReport {
		return nil
	}
	if len(reporter.Sinks()) == 0 {
		return fmt.Errorf("no report sinks configured")
	}
	return reporter.Deliver(ctx, rep)
}
