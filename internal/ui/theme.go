// Package ui holds the terminal presentation used by the djcraft commands:
// the color theme, cards, progress reporting and TTY detection.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette hex values for dark terminals. Light terminals get the
// adaptive counterparts in Theme.color.
const (
	ColorPrimary   = "#0C9F6A"
	ColorSecondary = "#44B78B"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#4B5563"
)

var lightVariants = map[string]string{
	ColorPrimary:   "#092E20",
	ColorSecondary: "#0C4B33",
	ColorSuccess:   "#059669",
	ColorWarning:   "#D97706",
	ColorError:     "#DC2626",
	ColorMuted:     "#9CA3AF",
	ColorBorder:    "#D1D5DB",
}

// Colors is the palette a Theme draws with.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
	Border    string
}

// Theme renders styled text. With NoColor set every helper returns its
// input undecorated, apart from card borders.
type Theme struct {
	NoColor bool
	Colors  Colors
}

// NewTheme returns the default djcraft theme.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors: Colors{
			Primary:   ColorPrimary,
			Secondary: ColorSecondary,
			Success:   ColorSuccess,
			Warning:   ColorWarning,
			Error:     ColorError,
			Muted:     ColorMuted,
			Border:    ColorBorder,
		},
	}
}

func (t *Theme) color(hex string) lipgloss.TerminalColor {
	if light, ok := lightVariants[hex]; ok {
		return lipgloss.AdaptiveColor{Light: light, Dark: hex}
	}
	return lipgloss.Color(hex)
}

func (t *Theme) style(hex string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(t.color(hex))
}

// Primary renders s bold in the primary color.
func (t *Theme) Primary(s string) string { return t.style(t.Colors.Primary).Bold(!t.NoColor).Render(s) }

// Success renders s in the success color.
func (t *Theme) Success(s string) string { return t.style(t.Colors.Success).Render(s) }

// Warning renders s in the warning color.
func (t *Theme) Warning(s string) string { return t.style(t.Colors.Warning).Render(s) }

// Error renders s in the error color.
func (t *Theme) Error(s string) string { return t.style(t.Colors.Error).Render(s) }

// Muted renders s in the muted color.
func (t *Theme) Muted(s string) string { return t.style(t.Colors.Muted).Render(s) }

// Check, Cross and Bang are the status symbols used in command output.
func (t *Theme) Check() string { return t.Success("✓") }
func (t *Theme) Cross() string { return t.Error("✗") }
func (t *Theme) Bang() string  { return t.Warning("!") }

func (t *Theme) cardStyle() lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if !t.NoColor {
		s = s.BorderForeground(t.color(t.Colors.Border))
	}
	return s
}

// Card renders content inside a rounded box under a bold title.
func (t *Theme) Card(title, content string) string {
	body := t.Primary(title)
	if content != "" {
		body += "\n\n" + content
	}
	return t.cardStyle().Render(body)
}

// SuccessCard renders a check-marked title followed by detail lines.
func (t *Theme) SuccessCard(title string, details ...string) string {
	var body strings.Builder
	body.WriteString(t.Check() + " " + title)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return t.cardStyle().Render(body.String())
}

// List renders items one per line with a muted bullet.
func (t *Theme) List(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = t.Muted("•") + " " + it
	}
	return strings.Join(lines, "\n")
}
