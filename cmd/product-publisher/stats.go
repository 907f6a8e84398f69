package main

import (
	"context"
	"fmt"
	"time"

	"github.com/renderinc/product-publisher/internal/client"
	"github.com/renderinc/product-publisher/internal/storage"
	"github.com/spf13/cobra"
)

func newStatsCommand(root *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number of published products",
		Long:  "Counts records in the local store file, or asks a running server with --remote.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if remote != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()

				stats, err := client.NewClient(remote).Stats(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "=== Publishing Statistics ===")
				fmt.Fprintf(out, "Published products: %d\n", stats.TotalProducts)
				fmt.Fprintf(out, "Server status:      %s\n", stats.Status)
				fmt.Fprintf(out, "Last check:         %s\n", stats.LastCheck)
				return nil
			}

			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			store, err := storage.OpenFileStore(cfg.StorePath())
			if err != nil {
				return err
			}
			count, err := store.Count()
			if err != nil {
				return fmt.Errorf("count products: %w", err)
			}

			fmt.Fprintln(out, "=== Publishing Statistics ===")
			fmt.Fprintf(out, "Store file:         %s\n", store.Path())
			fmt.Fprintf(out, "Published products: %d\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "query a running server at this base URL instead of the local store")
	return cmd
}
