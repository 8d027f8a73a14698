package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/tui"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dash"},
	Short:   "Launch the interactive dashboard",
	Args:    cobra.NoArgs,
	RunE:    runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so every background fill produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The ledger is created with the original amount, so first-run setup
	// has to happen before the store is opened.
	if !config.Exists() {
		values := tui.SetupValuesFrom(cfg)
		err := tui.NewSetupForm(&values).Run()
		switch {
		case errors.Is(err, huh.ErrUserAborted):
			hint("Setup skipped; using defaults. Run `payback setup` to change them.")
		case err != nil:
			return err
		default:
			if err := values.Apply(&cfg); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			theme.SetActive(cfg.Appearance.Theme)
		}
	}

	a, err := openAppWith(cmd.Context(), cfg, cfg.LogPath())
	if err != nil {
		return err
	}
	defer closeApp(a)

	m := tui.NewApp(a)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
