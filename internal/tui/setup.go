package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/payday"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

// SetupValues are the answers collected by the setup form.
type SetupValues struct {
	OriginalAmount string
	Weekday        string
	Time           string
	Currency       string
	Theme          string
}

// SetupValuesFrom seeds the form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		OriginalAmount: cfg.General.OriginalAmount,
		Weekday:        strings.ToLower(cfg.Payday.Weekday),
		Time:           cfg.Payday.Time,
		Currency:       cfg.Currency.Code,
		Theme:          cfg.Appearance.Theme,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	amount, err := money.ParseAmount(v.OriginalAmount)
	if err != nil {
		return err
	}
	cfg.General.OriginalAmount = amount.StringFixed(2)
	cfg.Payday.Weekday = strings.ToLower(strings.TrimSpace(v.Weekday))
	cfg.Payday.Time = strings.TrimSpace(v.Time)
	cfg.Currency.Code = strings.ToUpper(strings.TrimSpace(v.Currency))
	cfg.Appearance.Theme = v.Theme
	return nil
}

// NewSetupForm builds the first-run form. Answers are written to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	weekdays := make([]huh.Option[string], 0, 7)
	for d := 0; d < 7; d++ {
		name := payday.WeekdayName(d)
		weekdays = append(weekdays, huh.NewOption(name, strings.ToLower(name)))
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("How much do you owe?").
				Description("The original debt. It is fixed once the ledger is created.").
				Placeholder("5055.00").
				Value(&v.OriginalAmount).
				Validate(func(s string) error {
					_, err := money.ParseAmount(s)
					return err
				}),
			huh.NewInput().
				Title("Currency").
				Description("ISO 4217 code, e.g. USD or EUR.").
				CharLimit(3).
				Value(&v.Currency).
				Validate(validateCurrency),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Payday").
				Options(weekdays...).
				Value(&v.Weekday),
			huh.NewInput().
				Title("Payday time").
				Description("24-hour clock, local time.").
				Placeholder("09:00").
				Value(&v.Time).
				Validate(func(s string) error {
					_, _, err := payday.ParseClock(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	).WithTheme(theme.Active.Form())
}

func validateCurrency(s string) error {
	if !money.ValidCurrency(s) {
		return money.ErrUnknownCurrency
	}
	return nil
}
