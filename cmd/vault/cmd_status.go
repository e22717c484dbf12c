package main

import (
	"fmt"

	"promptvault/cmd/vault/ui"
	"promptvault/internal/config"

	"github.com/spf13/cobra"
)

// statusCmd shows workspace and feature status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show feature toggles, table locations and technique states",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	styles := ui.NewStyles(ui.ThemeFromHints(config.NeutralTone, s.engine.Theme(config.NeutralTone)))
	configPath, techniquesPath := s.engine.Tables().Paths()
	f := s.engine.Features()

	history := "off"
	if s.cfg.History.Enabled {
		history = s.historyPath()
	}

	enabled := 0
	infos := s.engine.Techniques()
	for _, info := range infos {
		if info.Enabled {
			enabled++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Title.Render("promptvault "+s.cfg.Version))
	fmt.Fprintln(out, styles.Field("workspace", s.workspace))
	fmt.Fprintln(out, styles.Field("features", f.Status()))
	fmt.Fprintln(out, styles.Field("  emotional", onOff(f.Emotional)))
	fmt.Fprintln(out, styles.Field("  cognitive", onOff(f.Cognitive)))
	fmt.Fprintln(out, styles.Field("  behavioral", onOff(f.Behavioral)))
	fmt.Fprintln(out, styles.Field("techniques", fmt.Sprintf("%d/%d enabled", enabled, len(infos))))
	fmt.Fprintln(out, styles.Field("config", configPath))
	fmt.Fprintln(out, styles.Field("techniques file", techniquesPath))
	fmt.Fprintln(out, styles.Field("history", history))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
