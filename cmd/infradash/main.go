package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"

	"github.com/spf13/cobra"

	"github.com/casperlab/infradash/internal/config"
	"github.com/casperlab/infradash/internal/inventory"
	"github.com/casperlab/infradash/internal/metrics"
	"github.com/casperlab/infradash/internal/source"
	"github.com/casperlab/infradash/internal/web"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Configuration comes from environment
// variables; flags override them when set.
func newRootCmd() *cobra.Command {
	var (
		addr      string
		invPath   string
		invFormat string
	)

	cmd := &cobra.Command{
		Use:          "infradash",
		Short:        "Serve the lab machine inventory dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("listen") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("inventory") {
				cfg.InventoryPath = invPath
			}
			if cmd.Flags().Changed("format") {
				cfg.InventoryFormat = invFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "listen", ":8080", "address to listen on")
	cmd.Flags().StringVar(&invPath, "inventory", "", "inventory file path (default: built-in dataset)")
	cmd.Flags().StringVar(&invFormat, "format", source.FormatYAML, "inventory file format (yaml or sqlite)")

	return cmd
}

// buildInventory loads machine records from the configured source, falling
// back to the built-in dataset when no path is set.
func buildInventory(cfg config.Config) (*inventory.Inventory, error) {
	records := source.Default()
	if cfg.InventoryPath != "" {
		var err error
		records, err = source.Load(cfg.InventoryPath, cfg.InventoryFormat)
		if err != nil {
			return nil, fmt.Errorf("load inventory: %w", err)
		}
	}
	return inventory.New(records)
}

func run(ctx context.Context, cfg config.Config) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	inv, err := buildInventory(cfg)
	if err != nil {
		return err
	}
	reg := metrics.Register(inv)

	h := &web.Handler{
		Inv:     inv,
		Title:   cfg.Title,
		Version: version,
		Commit:  commit,
		Metrics: metrics.Handler(reg),
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Routes(slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Addr, "machines", inv.MachineCount(), "version", version)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("shutting down", "reason", "context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
