package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"vax-admin/internal/config"
	"vax-admin/internal/metrics"
	"vax-admin/internal/state"
	"vax-admin/internal/telemetry"
	"vax-admin/internal/web"
)

// version is set at build time via -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "vax-admin",
		Short:         "Vaccination clinic admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	logInfo("Starting vax-admin", "version", version)
	if cfg.ConfigPath != "" {
		logInfo("Config file loaded", "path", cfg.ConfigPath)
	}
	logDebug("Page configuration", "home", cfg.HomePage, "details", cfg.DetailsPage, "locale", cfg.Locale)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logError("Tracer shutdown failed", "error", err)
		}
	}()
	if cfg.OTLPEndpoint != "" {
		logInfo("Exporting traces", "endpoint", cfg.OTLPEndpoint)
	}

	appState := state.New(cfg.MaxActivity)
	server, err := web.New(cfg, appState, metrics.New(), version)
	if err != nil {
		return err
	}

	if err := server.Run(ctx); err != nil {
		return err
	}
	logInfo("Shutting down gracefully")
	return nil
}

func logDebug(msg string, attrs ...any) {
	slog.Debug(msg, append([]any{"component", "Main"}, attrs...)...)
}

func logInfo(msg string, attrs ...any) {
	slog.Info(msg, append([]any{"component", "Main"}, attrs...)...)
}

func logError(msg string, attrs ...any) {
	slog.Error(msg, append([]any{"component", "Main"}, attrs...)...)
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
