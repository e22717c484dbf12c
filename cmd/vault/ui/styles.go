// Package ui renders vault output in the terminal, colored by the emotional
// theme of the text being shown.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Fallback palette used when a theme leaves a hint out.
var (
	DefaultAccent     = lipgloss.Color("#4a9eff")
	DefaultBackground = lipgloss.Color("#2b2b2b")
	DefaultForeground = lipgloss.Color("#e0e0e0")
	Muted             = lipgloss.Color("#8a8f98")
	Warning           = lipgloss.Color("#FFC107")
	Success           = lipgloss.Color("#8BC34A")
)

// Theme hint keys read from the emotional_themes table.
const (
	HintAccent     = "accent"
	HintBackground = "background"
	HintForeground = "foreground"
	HintLabel      = "label"
)

// Theme is an emotional theme resolved to terminal colors.
type Theme struct {
	Label      string
	Accent     lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Extra      map[string]string
}

// ThemeFromHints builds a Theme from a display-hint map. Unknown keys are
// kept in Extra.
func ThemeFromHints(tone string, hints map[string]string) Theme {
	t := Theme{
		Label:      tone,
		Accent:     DefaultAccent,
		Background: DefaultBackground,
		Foreground: DefaultForeground,
		Extra:      make(map[string]string),
	}
	for k, v := range hints {
		switch k {
		case HintAccent:
			t.Accent = lipgloss.Color(v)
		case HintBackground:
			t.Background = lipgloss.Color(v)
		case HintForeground:
			t.Foreground = lipgloss.Color(v)
		case HintLabel:
			t.Label = v
		default:
			t.Extra[k] = v
		}
	}
	return t
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles derives styles from t.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Label:   lipgloss.NewStyle().Foreground(Muted).Width(18),
		Value:   lipgloss.NewStyle().Foreground(t.Foreground),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(Warning),
		Success: lipgloss.NewStyle().Foreground(Success),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
	}
}

// Field renders one "label value" row.
func (s Styles) Field(label string, value any) string {
	return s.Label.Render(label) + s.Value.Render(fmt.Sprint(value))
}

// RenderTheme draws a swatch panel for one tone's theme.
func RenderTheme(tone string, t Theme) string {
	s := NewStyles(t)
	swatch := lipgloss.NewStyle().
		Background(t.Background).
		Foreground(t.Foreground).
		Padding(0, 2).
		Render(t.Label)

	rows := []string{
		s.Title.Render(tone) + "  " + swatch,
		s.Field(HintAccent, string(t.Accent)),
		s.Field(HintBackground, string(t.Background)),
		s.Field(HintForeground, string(t.Foreground)),
	}
	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, s.Field(k, t.Extra[k]))
	}
	return s.Panel.Render(strings.Join(rows, "\n"))
}

// ApplyColorPreference switches rendering to plain text when noColor is
// set or the NO_COLOR environment variable is present.
func ApplyColorPreference(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
