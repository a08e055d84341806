package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mlsvc/internal/config"
	"mlsvc/internal/httpapi"
	"mlsvc/internal/predictor"
	"mlsvc/internal/registry"
	"mlsvc/pkg/types"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	// Flags with environment variable defaults
	defaultAddr := ":3008"
	if v := os.Getenv("MLSVC_ADDR"); v != "" {
		defaultAddr = v
	}
	var (
		addr         string
		configPath   string
		registryPath string
		logLevel     string
		corsEnabled  bool
		corsOrigins  string
	)
	root := &cobra.Command{
		Use:           "mlsvc",
		Short:         "Mock ML scoring service for local development",
		Long:          "mlsvc serves canned model metadata and pseudo-random prediction scores over HTTP. No real model is loaded.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			// Flags win over file values
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("registry") || cfg.RegistryFile == "" {
				cfg.RegistryFile = registryPath
			}
			if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("cors") {
				cfg.CORSEnabled = corsEnabled
			}
			if cmd.Flags().Changed("cors-origins") {
				cfg.CORSOrigins = splitCSV(corsOrigins)
			}
			return run(cfg)
		},
	}
	root.Flags().StringVar(&addr, "addr", defaultAddr, "HTTP listen address, e.g. :3008 (env MLSVC_ADDR)")
	root.Flags().StringVar(&configPath, "config", "", "Optional config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&registryPath, "registry", "", "Optional registry file overriding the built-in mock models")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level: off, error, info, debug")
	root.Flags().BoolVar(&corsEnabled, "cors", false, "Enable CORS")
	root.Flags().StringVar(&corsOrigins, "cors-origins", "*", "Comma-separated allowed CORS origins")
	return root
}

func run(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	var reg []types.ModelInfo
	if cfg.RegistryFile != "" {
		loaded, err := registry.LoadFile(cfg.RegistryFile)
		if err != nil {
			return fmt.Errorf("load registry: %w", err)
		}
		reg = loaded
		logger.Info().Str("file", cfg.RegistryFile).Int("models", len(reg)).Msg("registry loaded from file")
	} else {
		reg = registry.Default()
	}
	svc := predictor.New(reg)

	httpapi.SetLogger(logger)
	if cfg.MaxBodyBytes > 0 {
		httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	}
	if cfg.CORSEnabled {
		origins := cfg.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		httpapi.SetCORSOptions(true, origins, cfg.CORSMethods, cfg.CORSHeaders)
	}

	// Base context canceled on shutdown so in-flight handlers stop too.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(svc)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Int("models", len(reg)).Msg("mlsvc listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "off":
		lvl = zerolog.Disabled
	case "error":
		lvl = zerolog.ErrorLevel
	case "debug":
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma-separated flag value, trimming spaces and dropping
// empty items.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
