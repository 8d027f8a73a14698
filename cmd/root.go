// Package cmd implements the payback CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/logger"
)

var (
	flagDataDir  string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "payback",
	Short: "Track paying back a personal debt, one payday at a time",
	Long: "Record payments against a debt, plan a per-payday amount, " +
		"see when it will be paid off, and get reminded on payday.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress hints and progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// openApp is the shared wiring path used by all commands. CLI commands log
// to a file in the data directory so terminal output stays clean.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openAppWith(ctx, cfg, cfg.LogPath())
}

func openAppWith(ctx context.Context, cfg config.Config, logPath string) (*app.App, error) {
	log, err := logger.New(cfg.Log.Level, logPath)
	if err != nil {
		return nil, err
	}

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Debug("opened data dir", zap.String("path", cfg.DataDir()))
	return a, nil
}

// closeApp flushes the logger and closes the store.
func closeApp(a *app.App) {
	_ = a.Log.Sync()
	_ = a.Close()
}

// withApp runs fn with a wired app and a bounded context.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(a)
	return fn(ctx, a)
}

func hint(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
