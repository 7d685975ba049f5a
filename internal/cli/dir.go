package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scanrag/internal/batch"
	"scanrag/internal/contextutil"
)

type dirOptions struct {
	clear    bool
	watch    bool
	debounce time.Duration
}

func newDirCommand(open Opener) *cobra.Command {
	opts := &dirOptions{}
	cmd := &cobra.Command{
		Use:   "dir <path>",
		Short: "Ingest every PDF under a directory",
		Long: `Scans the directory recursively for *.pdf files and ingests them one by one.
A file that fails is reported and skipped. With --watch the command keeps running
and ingests PDFs that appear or change afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				return runDir(ctx, cmd, s, args[0], opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "remove every indexed document first")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "keep watching the directory for new PDFs")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", batch.DefaultDebounce, "quiet period before a changed file is ingested")
	return cmd
}

func runDir(ctx context.Context, cmd *cobra.Command, s *Services, root string, opts *dirOptions) error {
	if opts.clear {
		if err := s.Knowledge.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear knowledge base: %w", err)
		}
		cmd.Println("Knowledge base cleared.")
	}

	files, err := batch.Scan(ctx, root)
	if err != nil {
		return err
	}
	cmd.Printf("Found %d PDF file(s) in %s\n", len(files), root)

	runner := batch.NewRunner(s.Ingester)
	summary, err := runner.Run(ctx, files)
	printSummary(cmd, summary)
	if err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}

	cmd.Printf("Watching %s for new PDFs (Ctrl+C to stop)\n", root)
	logger := contextutil.LoggerFromContext(ctx)
	w := batch.NewWatcher(root, opts.debounce, func(ctx context.Context, f batch.ScannedFile) {
		res, err := runner.IngestFile(ctx, f)
		if err != nil {
			logger.ErrorContext(ctx, "failed to ingest file", "file", f.RelPath, "error", err)
			cmd.PrintErrf("FAILED %s: %v\n", f.RelPath, err)
			return
		}
		cmd.Printf("Ingested %s: %d page(s), %d chunk(s)\n", f.RelPath, res.PagesProcessed, res.ChunksAdded)
	})
	return w.Run(ctx)
}

func printSummary(cmd *cobra.Command, s batch.Summary) {
	cmd.Println()
	cmd.Printf("Files:     %d\n", s.Files)
	cmd.Printf("Succeeded: %d\n", s.Succeeded)
	cmd.Printf("Failed:    %d\n", len(s.Failures))
	cmd.Printf("Pages:     %d\n", s.PagesProcessed)
	cmd.Printf("Chunks:    %d\n", s.ChunksAdded)
	cmd.Printf("Duration:  %s\n", s.Duration.Round(time.Millisecond))
	for _, f := range s.Failures {
		cmd.Printf("  FAILED %s: %v\n", f.Path, f.Err)
	}
	for _, path := range s.Shadowed {
		cmd.Printf("  REPLACED earlier file with the same name by %s\n", path)
	}
}
