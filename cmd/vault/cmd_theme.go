package main

import (
	"fmt"
	"sort"

	"promptvault/cmd/vault/ui"
	"promptvault/internal/config"

	"github.com/spf13/cobra"
)

var (
	themeAll  bool
	themeText string
)

// themeCmd renders emotional themes
var themeCmd = &cobra.Command{
	Use:   "theme [TONE]",
	Short: "Render the display theme for a tone",
	Long: `Shows the emotional theme for TONE, falling back to "neutral" when the tone
has no theme of its own. With --text the tone is detected from the text first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTheme,
}

func init() {
	themeCmd.Flags().BoolVar(&themeAll, "all", false, "Render every configured theme")
	themeCmd.Flags().StringVar(&themeText, "text", "", "Detect the tone of this text and render its theme")
}

func runTheme(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	if themeAll {
		themes := s.engine.Tables().EmotionalThemes()
		tones := make([]string, 0, len(themes))
		for tone := range themes {
			tones = append(tones, tone)
		}
		sort.Strings(tones)
		for _, tone := range tones {
			fmt.Fprintln(out, ui.RenderTheme(tone, ui.ThemeFromHints(tone, themes[tone])))
		}
		return nil
	}

	tone := config.NeutralTone
	switch {
	case themeText != "":
		tone = s.engine.Analyze(themeText).Tone
	case len(args) == 1:
		tone = args[0]
	}
	fmt.Fprintln(out, ui.RenderTheme(tone, ui.ThemeFromHints(tone, s.engine.Theme(tone))))
	return nil
}
