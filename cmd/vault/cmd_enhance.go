package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"promptvault/cmd/vault/ui"
	"promptvault/internal/core"
	"promptvault/internal/prompt"
	"promptvault/internal/store"
	"promptvault/internal/usage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	enhanceSeed      uint64
	enhanceNoHistory bool
	enhanceJSON      bool
	enhanceDisable   []string
	enhanceCategory  string
)

// enhanceCmd runs the stealth pipeline over a prompt
var enhanceCmd = &cobra.Command{
	Use:   "enhance TEXT...",
	Short: "Rewrite a prompt through the stealth pipeline",
	Long: `Selects a psychological profile from the prompt's keywords (creative,
strategic, tactical, otherwise analytical) and applies every enabled technique
in the configured order.

Examples:
  vault enhance "brainstorm names for a coffee shop"
  vault enhance --seed 7 --json "plan the q3 roadmap"
  vault enhance --disable syntactic_pressure_gradients "summarize this. briefly."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().Uint64Var(&enhanceSeed, "seed", 0, "Seed the filler sampler for reproducible output (0 = random)")
	enhanceCmd.Flags().BoolVar(&enhanceNoHistory, "no-history", false, "Do not journal this enhancement")
	enhanceCmd.Flags().BoolVar(&enhanceJSON, "json", false, "Emit the result and report as JSON")
	enhanceCmd.Flags().StringSliceVar(&enhanceDisable, "disable", nil, "Technique to skip for this run (repeatable)")
	enhanceCmd.Flags().StringVar(&enhanceCategory, "category", "", "Category recorded with the activity")
}

// enhanceOutput is the --json shape.
type enhanceOutput struct {
	ID       string        `json:"id,omitempty"`
	Enhanced string        `json:"enhanced"`
	Report   prompt.Report `json:"report"`
}

func runEnhance(cmd *cobra.Command, args []string) error {
	var opts []core.Option
	if enhanceSeed != 0 {
		opts = append(opts, core.WithSampler(prompt.NewSeededSampler(enhanceSeed)))
	}
	s, err := openSession(opts...)
	if err != nil {
		return err
	}
	defer s.close()

	for _, name := range enhanceDisable {
		t, ok := prompt.ParseTechnique(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown technique %q", name)
		}
		s.engine.SetTechniqueEnabled(t, false)
	}

	text := joinArgs(args)
	enhanced, report := s.engine.Enhance(text)

	meta := usage.Metadata{}
	if enhanceCategory != "" {
		meta[usage.MetadataCategory] = enhanceCategory
	}
	s.engine.RecordActivity(usage.ActionEnhance, meta)

	logger.Info("Prompt enhanced",
		zap.String("profile", report.ProfileName),
		zap.Strings("techniques", report.TechniqueNames()),
		zap.Float64("stealth_score", report.StealthScore))

	result := enhanceOutput{Enhanced: enhanced, Report: report}
	if s.cfg.History.Enabled && !enhanceNoHistory {
		id, err := journal(s, report)
		if err != nil {
			// Journal failures do not fail the command.
			logger.Warn("History not recorded", zap.Error(err))
		}
		result.ID = id
	}

	out := cmd.OutOrStdout()
	if enhanceJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	styles := ui.NewStyles(ui.ThemeFromHints(report.Profile.EmotionalTone, s.engine.Theme(report.Profile.EmotionalTone)))
	fmt.Fprintln(out, enhanced)
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Title.Render("Enhancement report"))
	fmt.Fprintln(out, styles.Field("profile", report.ProfileName))
	fmt.Fprintln(out, styles.Field("length", fmt.Sprintf("%d -> %d", report.OriginalLength, report.EnhancedLength)))
	fmt.Fprintln(out, styles.Field("techniques", formatTechniques(report.TechniquesApplied)))
	fmt.Fprintln(out, styles.Field("stealth score", fmt.Sprintf("%.2f", report.StealthScore)))
	if result.ID != "" {
		fmt.Fprintln(out, styles.Muted.Render("journaled as "+result.ID))
	}
	return nil
}

func journal(s *session, report prompt.Report) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	h, err := store.Open(s.historyPath())
	if err != nil {
		return "", err
	}
	defer h.Close()

	entry, err := h.Record(ctx, store.EntryFromReport(report))
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func formatTechniques(ts []prompt.Technique) string {
	if len(ts) == 0 {
		return "none"
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.DisplayName()
	}
	return strings.Join(names, ", ")
}
