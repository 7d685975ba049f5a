// Package cli implements the ingest command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"scanrag/internal/batch"
	"scanrag/internal/rag"
	"scanrag/internal/service"
)

// Searcher retrieves sources for a query. *rag.Retriever satisfies it.
type Searcher interface {
	RetrieveFrom(ctx context.Context, query string, topK int, pdfName string) ([]rag.Source, error)
}

// Services is what the commands operate on.
type Services struct {
	Ingester  batch.Ingester
	Knowledge service.KnowledgeService
	Searcher  Searcher
	Close     func() error
}

// Opener connects to the backing services. It runs once per command invocation.
type Opener func(ctx context.Context) (*Services, error)

// NewRootCommand builds the ingest command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "ingest",
		Short: "Manage the scanned-document knowledge base",
		Long: `Bulk-ingests scanned PDFs into the knowledge base and inspects it.
Uses the same configuration (.env and environment) as the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDirCommand(open),
		newStatusCommand(open),
		newClearCommand(open),
		newSearchCommand(open),
	)
	return root
}

// withServices opens the services, runs fn and closes them.
func withServices(cmd *cobra.Command, open Opener, fn func(ctx context.Context, s *Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := open(ctx)
	if err != nil {
		return err
	}
	runErr := fn(ctx, s)
	if s.Close != nil {
		runErr = errors.Join(runErr, s.Close())
	}
	return runErr
}
