package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestThemeFromHints(t *testing.T) {
	th := ThemeFromHints("joy", map[string]string{
		"accent": "#ffc857",
		"label":  "Joyful",
		"font":   "serif",
	})

	assert.Equal(t, "Joyful", th.Label)
	assert.Equal(t, lipgloss.Color("#ffc857"), th.Accent)
	assert.Equal(t, DefaultBackground, th.Background)
	assert.Equal(t, map[string]string{"font": "serif"}, th.Extra)
}

func TestThemeFromHints_Empty(t *testing.T) {
	th := ThemeFromHints("calm", nil)
	assert.Equal(t, "calm", th.Label)
	assert.Equal(t, DefaultAccent, th.Accent)
	assert.Empty(t, th.Extra)
}

func TestRenderTheme_PlainText(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderTheme("joy", ThemeFromHints("joy", map[string]string{
		"accent": "#ffc857",
		"label":  "Joyful",
		"font":   "serif",
	}))

	assert.Contains(t, out, "joy")
	assert.Contains(t, out, "Joyful")
	assert.Contains(t, out, "#ffc857")
	assert.Contains(t, out, "serif")
	assert.NotContains(t, out, "\x1b[")
}
