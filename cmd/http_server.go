package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// initializeDependencies loads the config, sets up logging and opens the
// configured store before wiring the services.
func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := setupLogger(cfg)

	store, err := openStore(ctx, cfg.Storage, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	deps, err := BuildDependencies(ctx, cfg, store, nil, lg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return deps, nil
}

func setupLogger(cfg *internal.Config) *slog.Logger {
	return logger.Setup(cfg.Environment, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Config.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.Store.Close()
			os.Exit(1)
		}
	}

	if err := deps.Store.Close(); err != nil {
		deps.Logger.Error("Store close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}
