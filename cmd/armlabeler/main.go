package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for minimal runner images

	"github.com/ericfisherdev/armlabeler/internal/config"
	"github.com/ericfisherdev/armlabeler/internal/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Logging: logfmt inside Actions, colored output locally.
	if err := logger.Setup(os.Stderr, cfg.LogLevel, cfg.InActions); err != nil {
		return err
	}
	slog.Debug("config loaded",
		"repository", cfg.Repository,
		"workspace", cfg.Workspace,
		"base", cfg.BaseCommit,
		"head", cfg.HeadCommit,
		"policy_file", cfg.PolicyFile,
		"audit_db", cfg.AuditDBPath,
	)

	// 3. Cancel on SIGINT/SIGTERM so a cancelled job stops between API calls.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Dispatch the subcommand.
	return newApp(cfg, os.Stdout).command().Run(ctx, os.Args)
}
