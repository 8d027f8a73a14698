package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/tui/components"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

var errRemindersOff = errors.New("reminders are off; press Enter to allow them")

func (a App) updateRemindersKey(key string) (App, tea.Cmd, bool) {
	if a.busy != "" {
		return a, nil, false
	}
	core := a.app

	switch key {
	case "enter", "a":
		m, cmd := a.run("Allowing reminders", func(ctx context.Context) (string, error) {
			n, err := core.AllowReminders(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Reminders on: %d scheduled", n), nil
		})
		return m, cmd, true
	case "s":
		m, cmd := a.run("Scheduling reminders", func(ctx context.Context) (string, error) {
			n := core.Policy.Schedule(ctx)
			if !core.Policy.State().HasPermission {
				return "", errRemindersOff
			}
			return fmt.Sprintf("Scheduled %d reminders", n), nil
		})
		return m, cmd, true
	case "c":
		m, cmd := a.run("Clearing reminders", func(ctx context.Context) (string, error) {
			core.Policy.Clear(ctx)
			return "Payday reminders withdrawn", nil
		})
		return m, cmd, true
	case "D":
		m, cmd := a.run("Turning reminders off", func(ctx context.Context) (string, error) {
			if err := core.DenyReminders(ctx); err != nil {
				return "", err
			}
			return "Reminders off", nil
		})
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) renderRemindersTab(cw int) string {
	t := theme.Active
	now := a.now()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	idStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	permission := string(a.permission)
	if permission == "" {
		permission = "unknown"
	}

	var st strings.Builder
	st.WriteString(labelStyle.Render("Permission  "))
	st.WriteString(valueStyle.Render(permission))
	st.WriteString("\n")
	st.WriteString(labelStyle.Render("Status      "))
	st.WriteString(a.reminderBadge())
	st.WriteString("\n")
	st.WriteString(labelStyle.Render("Paydays     "))
	st.WriteString(valueStyle.Render(a.app.Calendar.String()))
	st.WriteString("\n\n")
	for _, k := range [][2]string{{"Enter", "allow"}, {"s", "reschedule"}, {"c", "clear"}, {"D", "turn off"}} {
		st.WriteString(keyStyle.Render("[" + k[0] + "]"))
		st.WriteString(dimStyle.Render(" " + k[1] + "  "))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Payday reminders", st.String(), cw))
	b.WriteString("\n")

	var list strings.Builder
	if len(a.upcoming) == 0 {
		list.WriteString(dimStyle.Render("Nothing scheduled."))
	}
	for i, r := range a.upcoming {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString(idStyle.Render(fmt.Sprintf("%-20s", r.ID)))
		list.WriteString(valueStyle.Render(fmt.Sprintf("%-28s", cli.FormatDateTime(r.FireAt.Local()))))
		list.WriteString(dimStyle.Render("in " + cli.FormatCountdown(r.FireAt.Sub(now))))
	}
	b.WriteString(components.ContentCard("Upcoming", list.String(), cw))
	return b.String()
}
