// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate formats a payday or payoff date, e.g. "Wed Oct 21, 2026".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon Jan 2, 2006")
}

// FormatDateTime formats an instant with its wall-clock time,
// e.g. "Wed Oct 21, 2026 9:00 AM".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon Jan 2, 2006 3:04 PM")
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatCountdown formats the time until an instant.
// e.g., 50h -> "2d 2h", 90m -> "1h 30m", past -> "now"
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "now"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", max(mins, 1))
	}
}

// FormatPeriods formats a count of pay periods, e.g. "1 payday", "4 paydays".
func FormatPeriods(n int) string {
	if n == 1 {
		return "1 payday"
	}
	return fmt.Sprintf("%d paydays", n)
}

// Truncate shortens s to limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:limit-1])) + "…"
}
