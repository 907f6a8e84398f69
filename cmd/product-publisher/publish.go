package main

import (
	"context"
	"fmt"
	"time"

	"github.com/renderinc/product-publisher/internal/client"
	"github.com/spf13/cobra"
)

func newPublishCommand(root *rootOptions) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "publish <product-file.json>",
		Short: "Publish a generated product file to a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := client.LoadProductFile(args[0])
			if err != nil {
				return err
			}

			c := client.NewClient(serverURL)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := c.Health(ctx); err != nil {
				return fmt.Errorf("server not available at %s: %w", serverURL, err)
			}

			start := time.Now()
			result, err := c.Publish(ctx, product)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Product Published ===")
			fmt.Fprintf(out, "Product ID:  %s\n", result.ProductID)
			fmt.Fprintf(out, "Title:       %s\n", product.Title)
			fmt.Fprintf(out, "Price:       $%.2f\n", result.Price)
			fmt.Fprintf(out, "Product URL: %s\n", result.ProductURL)
			fmt.Fprintf(out, "Admin URL:   %s\n", result.AdminURL)
			fmt.Fprintf(out, "Duration:    %v\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "publisher server base URL")
	return cmd
}
