package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/tui/components"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

// paymentsState tracks the payments tab.
type paymentsState struct {
	table    table.Model
	payments []ledger.Payment // newest first, parallel to the table rows
	confirm  *ledger.Payment  // payment awaiting delete confirmation
}

func newPaymentsState() paymentsState {
	tbl := table.New(
		table.WithColumns(paymentColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	return paymentsState{table: tbl}
}

func paymentColumns(width int) []table.Column {
	dateW := width - 4 - 10 - 16 - 8
	if dateW < 16 {
		dateW = 16
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "ID", Width: 10},
		{Title: "Date", Width: dateW},
		{Title: "Amount", Width: 16},
	}
}

func (s *paymentsState) setRows(payments []ledger.Payment, f *money.Formatter) {
	s.payments = payments
	rows := make([]table.Row, len(payments))
	for i, p := range payments {
		rows[i] = table.Row{
			fmt.Sprintf("%d", len(payments)-i),
			p.ShortID(),
			cli.FormatDateTime(p.Date.Local()),
			f.Format(p.Amount),
		}
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) {
		s.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (s *paymentsState) resize(cw, height int) {
	inner := components.CardInnerWidth(cw)
	s.table.SetColumns(paymentColumns(inner))
	s.table.SetWidth(inner)
	s.table.SetHeight(max(height-10, 3))
}

func (s paymentsState) confirming() bool {
	return s.confirm != nil
}

func (s paymentsState) selected() (ledger.Payment, bool) {
	c := s.table.Cursor()
	if c < 0 || c >= len(s.payments) {
		return ledger.Payment{}, false
	}
	return s.payments[c], true
}

func (a App) updatePaymentsKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch msg.String() {
	case "j", "k", "up", "down", "g", "G", "home", "end", "pgup", "pgdown":
		var cmd tea.Cmd
		a.payments.table, cmd = a.payments.table.Update(msg)
		return a, cmd, true
	case "delete", "backspace":
		if p, ok := a.payments.selected(); ok && a.busy == "" {
			a.payments.confirm = &p
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	p := *a.payments.confirm
	a.payments.confirm = nil
	if key != "y" && key != "Y" {
		a.setFlash("Kept payment "+p.ShortID(), true)
		return a, nil
	}

	book, f := a.app.Book, a.formatter()
	return a.run("Deleting payment", func(ctx context.Context) (string, error) {
		removed, err := book.DeletePayment(ctx, p.ID)
		if err != nil {
			return "", err
		}
		if !removed {
			return "Payment was already gone", nil
		}
		return "Deleted " + f.Format(p.Amount) + " payment", nil
	})
}

func (a App) renderPaymentsTab(cw int) string {
	t := theme.Active
	f := a.formatter()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface).Bold(true)

	if len(a.payments.payments) == 0 {
		body := labelStyle.Render("No payments yet. Press 1-4 for a quick payment or n to enter one.")
		return components.ContentCard("Payments", body, cw)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.TextMuted).
		Background(t.Surface).
		BorderForeground(t.Border).
		BorderBackground(t.Surface).
		BorderBottom(true).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary).Background(t.Surface)
	styles.Selected = styles.Selected.Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	tbl := a.payments.table
	tbl.SetStyles(styles)

	var b strings.Builder
	b.WriteString(tbl.View())
	b.WriteString("\n\n")
	if a.payments.confirm != nil {
		p := a.payments.confirm
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete %s payment from %s? [y/N]",
			f.Format(p.Amount), cli.FormatDate(p.Date.Local()))))
	} else {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Total paid %s  ·  [j/k] select  [del] delete  [n] new payment",
			f.Format(a.debt.TotalPaid()))))
	}

	title := fmt.Sprintf("Payments (%d)", len(a.payments.payments))
	return components.ContentCard(title, b.String(), cw)
}

// ─── Payment entry form ─────────────────────────────────────────

// paymentForm is the custom amount entry. It is shared by pointer so the
// huh field keeps writing to the same string across model copies.
type paymentForm struct {
	form   *huh.Form
	amount string
}

func validatePaymentAmount(s string) error {
	if _, err := money.ParseAmount(s); err != nil {
		return errors.New("enter an amount greater than zero, e.g. 25.00")
	}
	return nil
}

func (a App) openPaymentForm() (tea.Model, tea.Cmd) {
	pf := &paymentForm{}
	pf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Payment amount").
				Description("Balance is " + a.formatter().Format(a.summary.Balance) + ". Esc cancels.").
				Placeholder("25.00").
				Value(&pf.amount).
				Validate(validatePaymentAmount),
		),
	).WithTheme(theme.Active.Form()).WithWidth(min(max(a.width, 40), 60))

	a.payForm = pf
	return a, pf.form.Init()
}

func (a App) updatePaymentForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.payForm = nil
		return a, nil
	}

	form, cmd := a.payForm.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.payForm.form = f
	}

	switch a.payForm.form.State {
	case huh.StateCompleted:
		text := a.payForm.amount
		a.payForm = nil
		amount, err := money.ParseAmount(text)
		if err != nil {
			a.setFlash(err.Error(), false)
			return a, nil
		}
		return a.addPayment(amount)
	case huh.StateAborted:
		a.payForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) viewPaymentForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.payForm.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
