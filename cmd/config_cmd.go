package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory:  %s\n", cfg.DataDir())
	fmt.Printf("    Original amount: %s (used when the ledger is created)\n", cfg.General.OriginalAmount)
	fmt.Println()

	fmt.Println("  [Currency]")
	fmt.Printf("    Code:   %s\n", cfg.Currency.Code)
	fmt.Printf("    Locale: %s\n", cfg.Currency.Locale)
	fmt.Println()

	fmt.Println("  [Payday]")
	if cal, err := cfg.Calendar(); err != nil {
		fmt.Printf("    Invalid: %v\n", err)
	} else {
		fmt.Printf("    Rule: %s\n", cal)
	}
	fmt.Println()

	fmt.Println("  [Reminders]")
	fmt.Printf("    Count:     %d\n", cfg.Reminders.Count)
	fmt.Printf("    ID prefix: %s\n", cfg.Reminders.IDPrefix)
	fmt.Printf("    Title:     %s\n", cfg.Reminders.Title)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s\n", cfg.LogPath())
	fmt.Println()

	fmt.Println("  Run `payback setup` to reconfigure.")
	return nil
}
