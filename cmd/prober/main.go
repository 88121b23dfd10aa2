package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/contacts-prober/internal/app"
	"github.com/samvad-hq/contacts-prober/internal/config"
	"github.com/samvad-hq/contacts-prober/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "prober start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("prober starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prober, err := app.NewProber(ctx, cfg, log, os.Stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize prober", "error", err)
		return err
	}

	// Probe failures are part of the printed report, not the exit status.
	if _, err := prober.Run(ctx); err != nil {
		return fmt.Errorf("prober run: %w", err)
	}

	return nil
}
