package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"promptvault/internal/perception"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeJSON     bool
	analyzeScores   bool
	analyzeParallel int
)

// analyzeCmd reports tone and load for files or literal text
var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE|TEXT...",
	Short: "Detect emotional tone and cognitive load",
	Long: `Analyzes each argument. An argument naming an existing file is read from
disk; anything else is analyzed as literal text.

Examples:
  vault analyze notes/draft.txt
  vault analyze "why is this still broken again"
  vault analyze --features none prompts/*.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit JSON lines")
	analyzeCmd.Flags().BoolVar(&analyzeScores, "scores", false, "Include per-tone match counts")
	analyzeCmd.Flags().IntVar(&analyzeParallel, "parallel", 4, "Maximum inputs analyzed at once")
}

// analyzeResult is one row of analyze output.
type analyzeResult struct {
	perception.Analysis

	Source string                 `json:"source"`
	Scores []perception.ToneScore `json:"scores,omitempty"`
}

// readInput returns the file content when arg names a regular file.
func readInput(arg string) (source, text string, err error) {
	info, statErr := os.Stat(arg)
	if statErr != nil || info.IsDir() {
		return "text", arg, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return arg, string(data), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// The analyzer is read-only, so inputs can be scored concurrently.
	analyzer := perception.NewAnalyzer(s.engine.Tables().EmotionalLexicon())
	features := s.engine.Features()
	results := make([]analyzeResult, len(args))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(analyzeParallel, 1))
	for i, arg := range args {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			source, text, err := readInput(arg)
			if err != nil {
				return err
			}
			r := analyzeResult{Source: source, Analysis: analyzer.Analyze(features, text)}
			if analyzeScores {
				r.Scores = analyzer.Scores(features, text)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	logger.Debug("Analyzed inputs", zap.Int("count", len(results)))

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tTONE\tLOAD")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", r.Source, r.Tone, r.Load)
		for _, sc := range r.Scores {
			fmt.Fprintf(tw, "\t  %s\t%d\n", sc.Tone, sc.Score)
		}
	}
	return tw.Flush()
}
