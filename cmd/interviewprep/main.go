package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"interviewprep/internal/cli"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return cli.ExitFailure
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return cli.ExitFailure
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		return cli.ExitFailure
	}

	logger.Debug("Starting interviewprep",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"ai_provider", cfg.AI.Provider)

	err = cli.Execute(ctx, cfg, logger)
	code := cli.ExitCode(err)
	if err != nil && code == cli.ExitFailure {
		logger.LogError(err, "Application execution failed")
	}
	return code
}
