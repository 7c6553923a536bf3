// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/blogdex/internal/indexer"
	"github.com/starford/blogdex/internal/parser"
)

// Run indexes every configured language directory once and, in watch
// mode, keeps re-indexing until ctx is cancelled or a signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{out: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		// Structured JSON logs go to stderr; stdout carries dry-run payloads.
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.Level(),
		}))
		slog.SetDefault(logger)
	}

	logger.Debug("Configuration loaded",
		slog.String("root", cfg.Blog.Root),
		slog.Any("langs", cfg.Blog.Langs),
		slog.String("extractor", cfg.Scan.Extractor),
		slog.String("merge", string(cfg.Scan.Policy())),
		slog.Bool("dry_run", cfg.Scan.DryRun),
		slog.Bool("watch", cfg.Scan.Watch))

	extractor, err := parser.New(cfg.Scan.Extractor)
	if err != nil {
		return err
	}

	ix := indexer.New(extractor, indexer.Options{
		IndexName: cfg.Blog.IndexName,
		Extension: cfg.Blog.Extension,
		Policy:    cfg.Scan.Policy(),
		Preview:   cfg.Scan.DryRun,
	}, app.out, logger)

	dirs, err := ix.IndexRoot(cfg.Blog.Root, cfg.Blog.Langs)
	if err != nil {
		return err
	}

	if !cfg.Scan.Watch {
		return nil
	}
	if len(dirs) == 0 {
		logger.Warn("nothing to watch", slog.String("root", cfg.Blog.Root))
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ix.Watch(gCtx, dirs)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
