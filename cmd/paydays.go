package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/cli"
)

var flagPaydaysCount int

var paydaysCmd = &cobra.Command{
	Use:   "paydays",
	Short: "List upcoming paydays",
	Args:  cobra.NoArgs,
	RunE:  runPaydays,
}

func init() {
	paydaysCmd.Flags().IntVarP(&flagPaydaysCount, "count", "n", 6, "Number of paydays to list")
	rootCmd.AddCommand(paydaysCmd)
}

func runPaydays(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		now := time.Now()
		days := a.Calendar.NextN(flagPaydaysCount, now)

		rows := make([][]string, len(days))
		for i, d := range days {
			rows[i] = []string{fmt.Sprintf("%d", i+1), cli.FormatDateTime(d), cli.FormatCountdown(d.Sub(now))}
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   a.Calendar.String(),
			Headers: []string{"#", "Payday", "In"},
			Rows:    rows,
		}))
		return nil
	})
}
