package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scanrag/internal/rag"
)

type searchOptions struct {
	topK int
	pdf  string
	json bool
}

func newSearchCommand(open Opener) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Show the sources retrieved for a query",
		Long: `Embeds the query and prints the most similar chunks without generating an answer.
Useful for checking what the chat endpoint would ground its answer on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				sources, err := s.Searcher.RetrieveFrom(ctx, args[0], opts.topK, opts.pdf)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				if opts.json {
					return outputSourcesJSON(cmd, sources)
				}
				outputSources(cmd, sources)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", rag.DefaultTopK, "maximum number of sources")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "only search chunks of this document")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output sources as JSON")
	return cmd
}

func outputSourcesJSON(cmd *cobra.Command, sources []rag.Source) error {
	if sources == nil {
		sources = []rag.Source{}
	}
	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSources(cmd *cobra.Command, sources []rag.Source) {
	if len(sources) == 0 {
		cmd.Println("No results found.")
		return
	}

	for i, s := range sources {
		cmd.Printf("  [%d] %s, page %d (%.3f)\n", i+1, s.PDFName, s.PageNumber, s.Score)
		snippet := strings.Join(strings.Fields(s.Content), " ")
		if r := []rune(snippet); len(r) > 160 {
			snippet = string(r[:160]) + "..."
		}
		cmd.Printf("      %s\n\n", snippet)
	}
}
