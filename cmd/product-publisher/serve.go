package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/renderinc/product-publisher/internal/config"
	"github.com/renderinc/product-publisher/internal/pool"
	"github.com/renderinc/product-publisher/internal/product"
	"github.com/renderinc/product-publisher/internal/publish"
	"github.com/renderinc/product-publisher/internal/search"
	"github.com/renderinc/product-publisher/internal/storage"
	"github.com/renderinc/product-publisher/internal/web"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	Host     string
	Port     int
	Workers  int
	IndexDir string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = opts.Host
			}
			if flags.Changed("port") {
				cfg.Port = opts.Port
			}
			if flags.Changed("workers") {
				cfg.Workers = opts.Workers
			}
			if flags.Changed("index-dir") {
				cfg.IndexDir = opts.IndexDir
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}

			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "host to bind to")
	cmd.Flags().IntVar(&opts.Port, "port", 8080, "port to listen on")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "number of request workers")
	cmd.Flags().StringVar(&opts.IndexDir, "index-dir", "", "enable catalog search with a Bleve index at this path")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := storage.OpenFileStore(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	audit, err := storage.OpenFileLog(cfg.LogPath())
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}

	publishOpts := []publish.Option{publish.WithLogger(logger)}
	serverOpts := []web.Option{web.WithLogger(logger)}

	if path := cfg.IndexPath(); path != "" {
		idx, err := search.Open(path)
		if err != nil {
			return fmt.Errorf("open search index: %w", err)
		}
		defer idx.Close()

		count, _ := idx.Count()
		logger.Info("catalog search enabled", "path", path, "documents", count)

		publishOpts = append(publishOpts, publish.WithIndex(idx))
		serverOpts = append(serverOpts, web.WithSearcher(idx))
	}

	workers := pool.New(cfg.Workers, logger)
	defer workers.Close()
	serverOpts = append(serverOpts, web.WithPool(workers))

	urls := product.URLs{Store: cfg.StoreURL, Admin: cfg.AdminURL}
	publisher := publish.New(store, audit, urls, publishOpts...)
	server := web.NewServer(publisher, store, serverOpts...)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Handler(),
	}

	logger.Info("product publisher server started",
		"addr", cfg.Addr(),
		"workers", cfg.Workers,
		"store", cfg.StorePath(),
		"log", cfg.LogPath(),
	)
	logger.Info("available endpoints",
		"publish", "POST /publish",
		"products", "GET /products",
		"stats", "GET /stats",
		"health", "GET /health",
		"search", "GET /search?q=",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
