package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/virality-checker/internal/analyzer"
	"github.com/benvon/virality-checker/internal/config"
	"github.com/benvon/virality-checker/internal/ledger"
	"github.com/benvon/virality-checker/internal/logger"
	"github.com/benvon/virality-checker/internal/ratelimit"
	"github.com/benvon/virality-checker/internal/relayclient"
	"github.com/benvon/virality-checker/internal/storage"
	"go.uber.org/zap"
)

// ErrReported marks a failure the user has already been shown
var ErrReported = errors.New("failure already reported")

// Options are the root command's persistent flags
type Options struct {
	ConfigPath string
	Debug      bool
}

// app is the host wiring shared by every subcommand
type app struct {
	cfg          *config.ClientConfig
	logger       *zap.Logger
	scopes       *storage.Scopes
	ledger       *ledger.Ledger
	gate         *ratelimit.Gate
	relay        *relayclient.Client
	orchestrator *analyzer.Orchestrator
}

func openApp(ctx context.Context, opts *Options) (*app, error) {
	cfg, err := config.LoadClient(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	zapLogger, err := logger.NewCLILogger(opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	scopes, err := storage.OpenScopes(ctx, cfg.DataDir, cfg.SyncRedisURL)
	if err != nil {
		_ = logger.Sync(zapLogger)
		return nil, fmt.Errorf("open storage: %w", err)
	}

	l := ledger.New(scopes.Local)
	gate := ratelimit.NewGate(scopes.Local, cfg.Cooldown)
	relay := relayclient.New(cfg.RelayURL, relayclient.WithLogger(zapLogger))

	zapLogger.Debug("host_initialized",
		zap.String("relay_url", cfg.RelayURL),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("sync_redis", cfg.SyncRedisURL != ""),
		zap.Duration("cooldown", cfg.Cooldown),
	)

	return &app{
		cfg:          cfg,
		logger:       zapLogger,
		scopes:       scopes,
		ledger:       l,
		gate:         gate,
		relay:        relay,
		orchestrator: analyzer.New(relay, gate, l, scopes.Synced, analyzer.WithLogger(zapLogger)),
	}, nil
}

func (a *app) Close() {
	if err := a.scopes.Close(); err != nil {
		a.logger.Warn("failed_to_close_storage", zap.Error(err))
	}
	_ = logger.Sync(a.logger)
}
