package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/cybersim/horacero/internal/config"
	"github.com/cybersim/horacero/internal/database"
	"github.com/cybersim/horacero/internal/game"
	"github.com/cybersim/horacero/internal/provider"
	"github.com/cybersim/horacero/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	store, err := server.NewDocStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, store); err != nil {
			return fmt.Errorf("seeding demo session: %w", err)
		}
	}

	// --- Dilemma provider ---
	prov, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("using dilemma provider", "kind", cfg.Provider)

	// --- Game manager ---
	games := game.NewManager(logger, prov, store, game.Config{
		FetchDelay: cfg.FetchDelay,
		SpeechTTL:  cfg.SpeechTTL,
	})
	defer games.Close()

	// --- HTTP server ---
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	srv := server.New(cfg.HTTPAddr, logger, store, store, games, db, server.Options{
		AdminPasswordHash: string(passwordHash),
		PollIntervalMs:    int(cfg.PollInterval.Milliseconds()),
		SPADir:            cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func newProvider(cfg *config.Config, logger *slog.Logger) (provider.Provider, error) {
	switch cfg.Provider {
	case "genai":
		return provider.NewGenAI(cfg.GenAIBaseURL, cfg.GenAIModel, cfg.GenAIAPIKey, logger), nil
	case "dataset":
		return provider.NewDataset(rand.New(rand.NewSource(rand.Int63())))
	case "stub":
		return provider.NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
