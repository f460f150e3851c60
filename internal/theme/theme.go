// Package theme holds the color schemes of the terminal UI.
//
// The theme is presentation configuration. It is chosen at startup from the
// config file and toggled at runtime, and is never persisted with task data.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a set of lipgloss styles for one color scheme.
type Theme struct {
	Name string

	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Border   lipgloss.Style
}

// shade is one color role in both schemes.
type shade struct{ light, dark string }

var (
	fgShade     = shade{light: "#1F2937", dark: "#E5E7EB"}
	mutedShade  = shade{light: "#6B7280", dark: "#B0B7C3"}
	accentShade = shade{light: "#7C3AED", dark: "#A78BFA"}
	doneShade   = shade{light: "#9CA3AF", dark: "#6B7280"}
	errShade    = shade{light: "#B91C1C", dark: "#F87171"}
)

// Light returns the light theme.
func Light() Theme {
	return build("light", func(s shade) lipgloss.TerminalColor { return lipgloss.Color(s.light) })
}

// Dark returns the dark theme.
func Dark() Theme {
	return build("dark", func(s shade) lipgloss.TerminalColor { return lipgloss.Color(s.dark) })
}

// Auto returns a theme whose colors follow the terminal background.
func Auto() Theme {
	return build("auto", func(s shade) lipgloss.TerminalColor {
		return lipgloss.AdaptiveColor{Light: s.light, Dark: s.dark}
	})
}

func build(name string, color func(shade) lipgloss.TerminalColor) Theme {
	return Theme{
		Name:     name,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(color(accentShade)),
		Item:     lipgloss.NewStyle().Foreground(color(fgShade)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(color(accentShade)),
		Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(color(doneShade)),
		Muted:    lipgloss.NewStyle().Foreground(color(mutedShade)),
		Status:   lipgloss.NewStyle().Italic(true).Foreground(color(mutedShade)),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(color(errShade)),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(mutedShade)).
			Padding(0, 1),
	}
}

// Parse returns the theme called name: light, dark or auto.
func Parse(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return Light(), nil
	case "dark":
		return Dark(), nil
	case "", "auto":
		return Auto(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme: %s", name)
}

// Toggle returns the opposite scheme. Auto resolves against the terminal
// background first.
func (t Theme) Toggle() Theme {
	dark := t.Name == "dark"
	if t.Name == "auto" {
		dark = lipgloss.HasDarkBackground()
	}
	if dark {
		return Light()
	}
	return Dark()
}
