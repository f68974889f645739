// Package main is the entry point for the panoview panorama viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/app"
	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var flags *config.Flags

var rootCmd = &cobra.Command{
	Use:   "panoview [photos...]",
	Short: "View 360° equirectangular panoramas",
	Long: `panoview shows equirectangular panoramas on the inside of a sphere.
Drag to look around, scroll or pinch to zoom, use the arrow keys or the
thumbnail strip to switch photos. Photos may be local paths or http(s) URLs.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

func init() {
	flags = config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flags, args)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== panoview ===", zap.String("version", version))
	logger.Sugar.Debugf("Config: %+v", cfg)

	photos, err := app.Photos(cfg)
	if err != nil {
		logger.Error("failed to list photos", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, photos)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		return err
	}

	runErr := a.Run()
	if err := a.Close(); err != nil {
		logger.Warn("cleanup failed", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("viewer error", zap.Error(runErr))
		return runErr
	}

	logger.Info("viewer closed normally")
	return nil
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
