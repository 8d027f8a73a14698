package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/reminder"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage payday reminders",
	Args:  cobra.NoArgs,
	RunE:  runRemindStatus,
}

var remindStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show reminder permission and pending reminders",
	Args:  cobra.NoArgs,
	RunE:  runRemindStatus,
}

var remindAllowCmd = &cobra.Command{
	Use:   "allow",
	Short: "Allow reminders and schedule the next batch",
	Args:  cobra.NoArgs,
	RunE:  runRemindAllow,
}

var remindDenyCmd = &cobra.Command{
	Use:   "deny",
	Short: "Turn reminders off and withdraw pending ones",
	Args:  cobra.NoArgs,
	RunE:  runRemindDeny,
}

var remindScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Replace pending reminders with one per upcoming payday",
	Args:  cobra.NoArgs,
	RunE:  runRemindSchedule,
}

var remindClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Withdraw all pending payday reminders",
	Args:  cobra.NoArgs,
	RunE:  runRemindClear,
}

func init() {
	remindCmd.AddCommand(remindStatusCmd, remindAllowCmd, remindDenyCmd, remindScheduleCmd, remindClearCmd)
	rootCmd.AddCommand(remindCmd)
}

func runRemindStatus(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		st := a.Policy.Refresh(ctx)
		status, err := a.Center.AuthorizationStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Print(cli.RenderKV([]cli.KV{
			{Label: "Permission", Value: string(status)},
			{Label: "Reminders", Value: reminderLabel(st)},
		}))
		fmt.Println()
		if note, warn := reminderNote(status, st, a.Policy.Enabled(ctx)); note != "" {
			fmt.Print(cli.RenderNote(note, warn))
			fmt.Println()
		}
		return printUpcoming(ctx, a)
	})
}

func runRemindAllow(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		n, err := a.AllowReminders(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("  Reminders on. Scheduled %d of %d.\n", n, a.Config.Reminders.Count)
		hint("Run `payback daemon --detach` to have them delivered.")
		return nil
	})
}

func runRemindDeny(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		if err := a.DenyReminders(ctx); err != nil {
			return err
		}
		fmt.Println("  Reminders off.")
		return nil
	})
}

func runRemindSchedule(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		n := a.Policy.Schedule(ctx)
		if !a.Policy.State().HasPermission {
			fmt.Print(cli.RenderNote("Reminders are not allowed; nothing scheduled.", true))
			hint("Run `payback remind allow` first.")
			return nil
		}
		fmt.Printf("  Scheduled %d of %d reminders.\n", n, a.Config.Reminders.Count)
		return printUpcoming(ctx, a)
	})
}

func runRemindClear(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		a.Policy.Clear(ctx)
		fmt.Println("  Pending payday reminders withdrawn.")
		return nil
	})
}

// reminderNote explains why no reminders are coming, if that is the case.
func reminderNote(status notify.Status, st reminder.State, enabled bool) (string, bool) {
	switch {
	case status == notify.StatusDenied:
		return "Reminders are denied; `payback remind allow` turns them back on.", true
	case st.HasPermission && !enabled:
		return "Reminders were cleared; the daemon will not refill them until `payback remind schedule`.", false
	default:
		return "", false
	}
}

const maxTitleWidth = 28

func printUpcoming(ctx context.Context, a *app.App) error {
	upcoming, err := a.Policy.Upcoming(ctx)
	if err != nil {
		return err
	}
	if len(upcoming) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([][]string, len(upcoming))
	for i, r := range upcoming {
		rows[i] = []string{
			r.ID,
			cli.Truncate(r.Title, maxTitleWidth),
			cli.FormatDateTime(r.FireAt.Local()),
			cli.FormatCountdown(r.FireAt.Sub(now)),
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Upcoming reminders",
		Headers:  []string{"ID", "Title", "Fires", "In"},
		Rows:     rows,
		LeftCols: 2,
	}))
	return nil
}
