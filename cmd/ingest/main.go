// Command ingest bulk-loads scanned PDFs into the knowledge base and inspects it.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"scanrag/internal/app"
	"scanrag/internal/cli"
	"scanrag/internal/config"
	"scanrag/internal/contextutil"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return err
	}

	logger := app.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	open := func(ctx context.Context) (*cli.Services, error) {
		a, err := app.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &cli.Services{
			Ingester:  a.Documents,
			Knowledge: a.KnowledgeService,
			Searcher:  a.Retriever,
			Close:     a.Close,
		}, nil
	}

	root := cli.NewRootCommand(open)
	root.SetOut(os.Stdout)
	return root.ExecuteContext(ctx)
}
