package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the knowledge base status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				data, err := json.MarshalIndent(s.Knowledge.Status(ctx), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal status: %w", err)
				}
				cmd.Println(string(data))
				return nil
			})
		},
	}
}

func newClearCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every indexed document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				if err := s.Knowledge.Clear(ctx); err != nil {
					return fmt.Errorf("failed to clear knowledge base: %w", err)
				}
				cmd.Println("All documents removed.")
				return nil
			})
		},
	}
}
