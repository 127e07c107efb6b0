package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/martha/internal/api"
	"github.com/MikeSquared-Agency/martha/internal/classifier"
	"github.com/MikeSquared-Agency/martha/internal/config"
	"github.com/MikeSquared-Agency/martha/internal/engage"
	"github.com/MikeSquared-Agency/martha/internal/hermes"
	"github.com/MikeSquared-Agency/martha/internal/persona"
	"github.com/MikeSquared-Agency/martha/internal/processor"
	"github.com/MikeSquared-Agency/martha/internal/report"
	"github.com/MikeSquared-Agency/martha/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engage API and, when NATS is configured, the engage subscription",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg.Log)

	if cfg.Server.APIKey == "" {
		return errors.New("HONEYPOT_API_KEY is required to serve")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("martha starting", "port", cfg.Server.Port, "version", api.Version)

	// Database
	if cfg.Database.MigrateOnStart {
		applied, err := store.Migrate(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", applied)
	}
	db, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	// Persona backend (optional; canned replies without one)
	backend, err := newBackend(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	if backend != nil {
		logger.Info("persona backend ready", "provider", cfg.LLM.Backend(), "model", modelFor(cfg.LLM))
	} else {
		logger.Warn("no LLM provider configured, persona runs on canned replies")
	}
	gen := persona.New(backend, nil, cfg.LLM.Timeout, logger)
	eng := engage.New(classifier.New(cfg.Detection.ScamThreshold), gen)

	// NATS/Hermes (optional)
	var bus *hermes.Client
	var pub processor.Publisher
	if cfg.NATS.URL != "" {
		bus, err = hermes.NewClient(ctx, cfg.NATS.URL, cfg.NATS.Token, logger)
		if err != nil {
			return err
		}
		defer bus.Close() // no-op after the shutdown drain
		pub = bus
		logger.Info("NATS connected", "url", cfg.NATS.URL)
	}

	reporter := report.NewReporter(db, newSinks(cfg, bus, logger), cfg.Report.Timeout, logger)
	if len(reporter.Sinks()) == 0 {
		logger.Warn("no report sinks configured, session reports are built but not delivered")
	}
	proc := processor.New(eng, db, reporter, pub, logger)

	if bus != nil {
		if err := bus.Subscribe(hermes.SubjectEngage, proc.HandleEngageEvent); err != nil {
			return err
		}
		if err := bus.Publish(hermes.SubjectRegistered, hermes.Registration{
			AgentID:   "martha",
			Version:   api.Version,
			Subjects:  []string{hermes.SubjectEngage},
			StartedAt: time.Now().UTC(),
		}); err != nil {
			logger.Warn("failed to publish registration", "error", err)
		}
	}

	// HTTP API
	srv := api.NewServer(api.Options{
		Port:   cfg.Server.Port,
		APIKey: cfg.Server.APIKey,
		CORS: api.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
		},
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Backend:      cfg.LLM.Backend(),
	}, proc, db, reporter, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// HTTP, then bus handlers, then report sends; the store closes last
		// via defer once these have all returned.
		if bus != nil {
			bus.Close()
		}
		reporter.Wait()
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	logger.Info("martha ready", "port", cfg.Server.Port, "sinks", reporter.Sinks())

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("martha stopped")
	return nil
}
