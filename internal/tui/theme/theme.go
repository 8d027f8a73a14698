// Package theme defines the color themes of the payback dashboard and the
// matching styles for its forms.
package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceBright lipgloss.Color // Selected row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // Focused card
	TextDim       lipgloss.Color // Hints, disabled
	TextMuted     lipgloss.Color // Labels
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	Paid          lipgloss.Color // Money already paid, paid-off state
	Owed          lipgloss.Color // Remaining balance
	Warn          lipgloss.Color
	Danger        lipgloss.Color
	Info          lipgloss.Color // Dates and reminders
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme, a warm paper-inspired dark palette.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	Paid:          lipgloss.Color("#879A39"),
	Owed:          lipgloss.Color("#DA702C"),
	Warn:          lipgloss.Color("#D0A215"),
	Danger:        lipgloss.Color("#D14D41"),
	Info:          lipgloss.Color("#4385BE"),
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:          "catppuccin-mocha",
	Background:    lipgloss.Color("#1E1E2E"),
	Surface:       lipgloss.Color("#313244"),
	SurfaceBright: lipgloss.Color("#585B70"),
	Border:        lipgloss.Color("#585B70"),
	BorderAccent:  lipgloss.Color("#89B4FA"),
	TextDim:       lipgloss.Color("#6C7086"),
	TextMuted:     lipgloss.Color("#A6ADC8"),
	TextPrimary:   lipgloss.Color("#CDD6F4"),
	Accent:        lipgloss.Color("#89B4FA"),
	AccentBright:  lipgloss.Color("#B4D0FB"),
	Paid:          lipgloss.Color("#A6E3A1"),
	Owed:          lipgloss.Color("#FAB387"),
	Warn:          lipgloss.Color("#F9E2AF"),
	Danger:        lipgloss.Color("#F38BA8"),
	Info:          lipgloss.Color("#94E2D5"),
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    lipgloss.Color("#1A1B26"),
	Surface:       lipgloss.Color("#24283B"),
	SurfaceBright: lipgloss.Color("#414868"),
	Border:        lipgloss.Color("#565F89"),
	BorderAccent:  lipgloss.Color("#7AA2F7"),
	TextDim:       lipgloss.Color("#565F89"),
	TextMuted:     lipgloss.Color("#A9B1D6"),
	TextPrimary:   lipgloss.Color("#C0CAF5"),
	Accent:        lipgloss.Color("#7AA2F7"),
	AccentBright:  lipgloss.Color("#A9C1FF"),
	Paid:          lipgloss.Color("#9ECE6A"),
	Owed:          lipgloss.Color("#FF9E64"),
	Warn:          lipgloss.Color("#E0AF68"),
	Danger:        lipgloss.Color("#F7768E"),
	Info:          lipgloss.Color("#7DCFFF"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	Paid:          lipgloss.Color("2"),
	Owed:          lipgloss.Color("3"),
	Warn:          lipgloss.Color("11"),
	Danger:        lipgloss.Color("1"),
	Info:          lipgloss.Color("4"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Form returns huh form styles in t's colors.
func (t Theme) Form() *huh.Theme {
	f := huh.ThemeBase()

	f.Focused.Base = f.Focused.Base.BorderForeground(t.BorderAccent)
	f.Focused.Title = f.Focused.Title.Foreground(t.Accent).Bold(true)
	f.Focused.Description = f.Focused.Description.Foreground(t.TextMuted)
	f.Focused.ErrorIndicator = f.Focused.ErrorIndicator.Foreground(t.Danger)
	f.Focused.ErrorMessage = f.Focused.ErrorMessage.Foreground(t.Danger)
	f.Focused.SelectSelector = f.Focused.SelectSelector.Foreground(t.AccentBright)
	f.Focused.SelectedOption = f.Focused.SelectedOption.Foreground(t.Paid)
	f.Focused.TextInput.Prompt = f.Focused.TextInput.Prompt.Foreground(t.Accent)
	f.Focused.TextInput.Placeholder = f.Focused.TextInput.Placeholder.Foreground(t.TextDim)

	f.Blurred.Title = f.Blurred.Title.Foreground(t.TextMuted)
	f.Blurred.Description = f.Blurred.Description.Foreground(t.TextDim)
	return f
}
