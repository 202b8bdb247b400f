package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oriys/quasar/internal/api"
	"github.com/oriys/quasar/internal/cache"
	"github.com/oriys/quasar/internal/config"
	"github.com/oriys/quasar/internal/connect"
	"github.com/oriys/quasar/internal/logging"
	"github.com/oriys/quasar/internal/metrics"
	"github.com/oriys/quasar/internal/observability"
	"github.com/oriys/quasar/internal/profile"
	"github.com/oriys/quasar/internal/ssl"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		listenAddr   string
		configPath   string
		profilesPath string
		logLevel     string
		logFormat    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Quasar backend",
		Long:  "Run the Quasar backend that serves SSL mode discovery, profile management, and connection tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				loaded, err := config.LoadFromFile(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			config.LoadFromEnv(cfg)

			if cmd.Flags().Changed("listen") {
				cfg.Server.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("profiles") {
				cfg.Profiles.Path = profilesPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Server.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Server.LogFormat = logFormat
			}

			logging.SetLevelFromString(cfg.Server.LogLevel)
			logging.InitStructured(cfg.Server.LogFormat, cfg.Server.LogLevel)

			if err := observability.Init(cmd.Context(), observability.Config{
				Enabled:     cfg.Telemetry.Enabled,
				Exporter:    cfg.Telemetry.Exporter,
				Endpoint:    cfg.Telemetry.Endpoint,
				ServiceName: "quasar",
				SampleRate:  cfg.Telemetry.SampleRate,
			}); err != nil {
				logging.Op().Warn("tracing disabled", "error", err)
			}
			defer observability.Shutdown(context.Background())

			metrics.InitPrometheus("quasar", nil)

			registry := ssl.NewRegistry()
			store, err := profile.NewStore(cfg.Profiles.Path, registry)
			if err != nil {
				return fmt.Errorf("open profile store: %w", err)
			}
			metrics.SetProfilesLoaded(len(store.List()))

			statuses := cache.NewInMemoryStatusCache(cfg.Cache.StatusTTL)
			defer statuses.Close()

			manager := connect.NewManager(ssl.NewBuilder(), registry, statuses)

			server := api.StartHTTPServer(cfg.Server.ListenAddr, api.ServerConfig{
				Profiles:    store,
				Connections: manager,
			})
			logging.Op().Info("Quasar backend started", "addr", cfg.Server.ListenAddr, "profiles", cfg.Profiles.Path)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			sig := <-sigCh
			logging.Op().Info("shutdown signal received", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := api.ShutdownHTTPServer(ctx, server); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to JSON config file")
	cmd.Flags().StringVar(&profilesPath, "profiles", "profiles.yaml", "Path to the profile store")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")

	return cmd
}
