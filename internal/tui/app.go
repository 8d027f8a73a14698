// Package tui provides the interactive Bubble Tea dashboard for payback.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/model"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/payoff"
	"github.com/theirongolddev/payback/internal/reminder"
	"github.com/theirongolddev/payback/internal/tui/components"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

const (
	tabDashboard = iota
	tabPayments
	tabPlan
	tabReminders
	tabSettings
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 140
	minContentHeight = 5

	actionTimeout = 10 * time.Second
	reloadEvery   = 5 // ticks between ledger reloads
	flashFor      = 4 * time.Second
)

// ledgerMsg carries the ledger after a committed change.
type ledgerMsg struct {
	Debt ledger.Debt
}

// policyMsg carries the reminder flags after a refresh.
type policyMsg struct {
	State reminder.State
}

// remindersMsg carries the host's view of this installation's reminders.
type remindersMsg struct {
	Status   notify.Status
	Upcoming []notify.Request
	Err      error
}

// actionDoneMsg is sent when a background action finishes.
type actionDoneMsg struct {
	Text string
	Err  error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	app        *app.App
	updates    chan tea.Msg
	detach     func()
	now        func() time.Time
	configPath string

	// Data
	debt       ledger.Debt
	summary    model.Summary
	projection []payoff.Row
	reminders  reminder.State
	permission notify.Status
	upcoming   []notify.Request

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	ticks     int

	busy    string
	spinner spinner.Model
	flash   string
	flashOK bool
	flashAt time.Time

	payForm  *paymentForm
	payments paymentsState
	settings settingsState
}

// NewApp creates the dashboard over a. Ledger and reminder changes made
// anywhere in this process are pushed into the model.
func NewApp(a *app.App) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	updates := make(chan tea.Msg, 16)
	stopLedger := a.Book.Subscribe(func(d ledger.Debt) {
		select {
		case updates <- ledgerMsg{Debt: d}:
		default: // the tick catches up
		}
	})
	stopPolicy := a.Policy.OnChange(func(st reminder.State) {
		select {
		case updates <- policyMsg{State: st}:
		default:
		}
	})

	detach := func() {
		stopLedger()
		stopPolicy()
	}

	m := App{
		app:        a,
		updates:    updates,
		detach:     detach,
		now:        time.Now,
		configPath: config.Path(),
		spinner:    sp,
		reminders:  a.Policy.State(),
		payments:   newPaymentsState(),
	}
	m.setDebt(a.Book.Debt())
	return m
}

// Close stops the ledger and reminder subscriptions made by NewApp. Call it
// once the program has exited.
func (a App) Close() {
	if a.detach != nil {
		a.detach()
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		waitForUpdate(a.updates),
		loadRemindersCmd(a.app),
		tickCmd(),
	)
}

// setDebt recomputes everything derived from the ledger.
func (a *App) setDebt(d ledger.Debt) {
	now := a.now()
	a.debt = d
	a.summary = app.Summarize(d, a.app.Calendar, now)
	a.projection = payoff.Schedule(a.app.Calendar, d.CurrentBalance(), d.PeriodicPayment, now)
	a.payments.setRows(d.Recent(), a.app.Formatter)
}

func (a *App) setFlash(text string, ok bool) {
	a.flash = text
	a.flashOK = ok
	a.flashAt = a.now()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.payments.resize(a.contentWidth(), a.height)
		if a.payForm != nil {
			a.payForm.form = a.payForm.form.WithWidth(min(msg.Width, 60))
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.payForm != nil || a.settings.editing {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ledgerMsg:
		a.setDebt(msg.Debt)
		return a, waitForUpdate(a.updates)

	case policyMsg:
		a.reminders = msg.State
		return a, tea.Batch(waitForUpdate(a.updates), loadRemindersCmd(a.app))

	case remindersMsg:
		if msg.Err != nil {
			a.app.Log.Warn("loading reminders failed", zap.Error(msg.Err))
			return a, nil
		}
		a.permission = msg.Status
		a.upcoming = msg.Upcoming
		return a, nil

	case actionDoneMsg:
		a.busy = ""
		if msg.Err != nil {
			a.setFlash(msg.Err.Error(), false)
		} else {
			a.setFlash(msg.Text, true)
		}
		return a, loadRemindersCmd(a.app)

	case spinner.TickMsg:
		if a.busy == "" {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		a.ticks++
		if a.flash != "" && a.now().Sub(a.flashAt) > flashFor {
			a.flash = ""
		}
		// Paydays and countdowns move with the clock.
		a.setDebt(a.app.Book.Debt())

		cmds := []tea.Cmd{tickCmd()}
		if a.ticks%reloadEvery == 0 {
			cmds = append(cmds, reloadCmd(a.app))
		}
		return a, tea.Batch(cmds...)
	}

	if a.payForm != nil {
		return a.updatePaymentForm(msg)
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Modal input owns the keyboard.
	if a.payForm != nil {
		return a.updatePaymentForm(msg)
	}
	if a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.payments.confirming() {
		return a.updateDeleteConfirm(key)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key == "q" {
		return a, tea.Quit
	}

	if tab := components.TabIdxByKey(key); tab >= 0 {
		a.activeTab = tab
		return a, nil
	}
	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	switch a.activeTab {
	case tabPayments:
		if m, cmd, ok := a.updatePaymentsKey(msg); ok {
			return m, cmd
		}
	case tabReminders:
		if m, cmd, ok := a.updateRemindersKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	if a.busy != "" {
		return a, nil
	}

	switch key {
	case "1", "2", "3", "4":
		amount := ledger.QuickAmounts[key[0]-'1']
		return a.addPayment(amount)
	case "n":
		return a.openPaymentForm()
	case "+", "=":
		return a.stepPeriodic(1)
	case "-", "_":
		return a.stepPeriodic(-1)
	}
	return a, nil
}

// run executes fn in the background and reports its outcome as an
// actionDoneMsg. Only one action runs at a time.
func (a App) run(label string, fn func(ctx context.Context) (string, error)) (App, tea.Cmd) {
	a.busy = label
	a.flash = ""
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		text, err := fn(ctx)
		return actionDoneMsg{Text: text, Err: err}
	})
}

func (a App) addPayment(amount decimal.Decimal) (tea.Model, tea.Cmd) {
	book, f := a.app.Book, a.app.Formatter
	return a.run("Saving payment", func(ctx context.Context) (string, error) {
		p, err := book.AddPayment(ctx, amount)
		if err != nil {
			return "", err
		}
		return "Paid " + f.Format(p.Amount), nil
	})
}

func (a App) stepPeriodic(steps int) (tea.Model, tea.Cmd) {
	next := ledger.StepPeriodic(a.debt.PeriodicPayment, steps)
	if next.Equal(a.debt.PeriodicPayment) {
		return a, nil
	}
	book, f := a.app.Book, a.app.Formatter
	return a.run("Saving plan", func(ctx context.Context) (string, error) {
		if err := book.SetPeriodicPayment(ctx, next); err != nil {
			return "", err
		}
		return "Per payday: " + f.Format(next), nil
	})
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.payForm != nil {
		return a.viewPaymentForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  payback needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, max(a.height, 5)), max(a.height, 5))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d p l r x", "Jump to tab"},
			{"← →", "Previous / next tab"},
			{"j k", "Move in lists"},
		}},
		{"Payments", [][2]string{
			{"1 2 3 4", "Quick pay 20 / 50 / 100 / 200"},
			{"n", "Enter a payment"},
			{"+ -", "Change the per-payday amount"},
			{"del", "Delete the selected payment"},
		}},
		{"Reminders", [][2]string{
			{"Enter", "Allow and schedule"},
			{"s c", "Reschedule / clear"},
			{"D", "Turn reminders off"},
		}},
		{"General", [][2]string{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w, h := a.width, a.height
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	status := components.Status{
		Flash:   a.flash,
		FlashOK: a.flashOK,
		Right:   "next payday " + cli.FormatDateTime(a.summary.NextPayday.Local()),
	}
	if a.busy != "" {
		status.Busy = a.spinner.View() + " " + a.busy
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabPayments:
		content = a.renderPaymentsTab(cw)
	case tabPlan:
		content = a.renderPlanTab(cw)
	case tabReminders:
		content = a.renderRemindersTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForUpdate blocks until the next pushed change.
func waitForUpdate(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadCmd picks up ledger changes written by other processes. A change
// arrives through the ledger subscription.
func reloadCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if _, err := a.Book.Reload(ctx); err != nil {
			a.Log.Warn("reloading ledger failed", zap.Error(err))
		}
		return nil
	}
}

func loadRemindersCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		status, err := a.Center.AuthorizationStatus(ctx)
		if err != nil {
			return remindersMsg{Err: err}
		}
		upcoming, err := a.Policy.Upcoming(ctx)
		return remindersMsg{Status: status, Upcoming: upcoming, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at column x, or -1. Hitboxes follow the
// widths used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

// formatter returns the configured currency formatter.
func (a App) formatter() *money.Formatter {
	return a.app.Formatter
}
