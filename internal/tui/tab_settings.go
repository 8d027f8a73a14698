package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/tui/components"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldCurrency
	settingsFieldLocale
	settingsFieldWeekday
	settingsFieldTime
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (App, tea.Cmd) {
	cfg := a.app.Config
	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldTheme:
		names := make([]string, len(theme.All))
		for i, t := range theme.All {
			names[i] = t.Name
		}
		ti.Placeholder = strings.Join(names, ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "USD"
		ti.SetValue(cfg.Currency.Code)
	case settingsFieldLocale:
		ti.Placeholder = "en-US"
		ti.SetValue(cfg.Currency.Locale)
	case settingsFieldWeekday:
		ti.Placeholder = "wednesday"
		ti.SetValue(cfg.Payday.Weekday)
	case settingsFieldTime:
		ti.Placeholder = "09:00"
		ti.SetValue(cfg.Payday.Time)
	}

	ti.Focus()
	a.settings.editing = true
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		return a, a.settingsSave()
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value, applies it to the running app,
// and writes the config file. A payday change reschedules reminders that
// were already queued.
func (a *App) settingsSave() tea.Cmd {
	val := strings.TrimSpace(a.settings.input.Value())

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		a.setFlash(err.Error(), false)
		return nil
	}

	reschedule := false
	switch a.settings.cursor {
	case settingsFieldTheme:
		if !theme.Exists(val) {
			a.setFlash(fmt.Sprintf("unknown theme %q", val), false)
			return nil
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
		a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent).Background(theme.Active.Surface)
	case settingsFieldCurrency, settingsFieldLocale:
		code, locale := cfg.Currency.Code, cfg.Currency.Locale
		if a.settings.cursor == settingsFieldCurrency {
			if !money.ValidCurrency(val) {
				a.setFlash(fmt.Sprintf("%s: %q", money.ErrUnknownCurrency, val), false)
				return nil
			}
			code = strings.ToUpper(val)
		} else {
			locale = val
		}
		f := money.NewFormatter(code, locale)
		if f.Code() == "" {
			a.setFlash(fmt.Sprintf("cannot format %s for locale %q", code, locale), false)
			return nil
		}
		cfg.Currency.Code, cfg.Currency.Locale = code, locale
		a.app.Formatter = f
	case settingsFieldWeekday, settingsFieldTime:
		if a.settings.cursor == settingsFieldWeekday {
			cfg.Payday.Weekday = strings.ToLower(val)
		} else {
			cfg.Payday.Time = val
		}
		cal, err := cfg.Calendar()
		if err != nil {
			a.setFlash(err.Error(), false)
			return nil
		}
		a.app.SetCalendar(cal)
		reschedule = a.reminders.Scheduled
	}

	a.app.Config.Appearance = cfg.Appearance
	a.app.Config.Currency = cfg.Currency
	a.app.Config.Payday = cfg.Payday
	a.setDebt(a.app.Book.Debt())

	if err := config.SaveTo(a.configPath, cfg); err != nil {
		a.setFlash("save failed: "+err.Error(), false)
		return nil
	}
	a.setFlash("Saved", true)

	if !reschedule || a.busy != "" {
		return nil
	}
	policy := a.app.Policy
	m, cmd := a.run("Moving reminders", func(ctx context.Context) (string, error) {
		n := policy.Schedule(ctx)
		if n == 0 {
			return "", errors.New("payday saved, but no reminders could be rescheduled")
		}
		return fmt.Sprintf("Payday saved; %d reminders moved", n), nil
	})
	*a = m
	return cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.app.Config

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Currency", cfg.Currency.Code},
		{"Locale", cfg.Currency.Locale},
		{"Payday", cfg.Payday.Weekday},
		{"Payday time", cfg.Payday.Time},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-14s ", f.label)))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			line := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-14s ", f.label+":")) +
				selectedStyle.Render(f.value)
			form.WriteString(line)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(labelStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-14s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	info := []struct{ label, value string }{
		{"Sample amount", a.formatter().Format(money.MustParse("1234.5"))},
		{"Next paydays", strings.Join(a.nextPaydayLabels(3), ", ")},
		{"Original debt", a.formatter().Format(a.debt.OriginalAmount)},
		{"Data directory", cfg.DataDir()},
		{"Config file", a.configPath},
	}
	var infoBody strings.Builder
	for i, r := range info {
		if i > 0 {
			infoBody.WriteString("\n")
		}
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", r.label)))
		infoBody.WriteString(valueStyle.Render(r.value))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}

func (a App) nextPaydayLabels(n int) []string {
	days := a.app.Calendar.NextN(n, a.now())
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Local().Format("Jan 2")
	}
	return out
}
