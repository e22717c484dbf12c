package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"promptvault/cmd/vault/ui"
	"promptvault/internal/config"
	"promptvault/internal/core"
	"promptvault/internal/usage"
	"promptvault/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCategory string

// watchCmd re-analyzes a draft on every save
var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Analyze a draft on every save and suggest breaks",
	Long: `Watches FILE. Each settled save is recorded as an edit, the text is
re-analyzed, and a break is suggested when the edit rate stays high (more than
15 saves within 10 minutes, at most once every 5 minutes).

Press Ctrl+C to stop; a usage summary is printed on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchCategory, "category", "", "Category recorded with every edit")
}

// editReporter turns watcher deliveries into engine calls. It only runs on
// the watcher goroutine.
type editReporter struct {
	engine   *core.Engine
	out      io.Writer
	category string
}

func (r *editReporter) handle(_ context.Context, path string, content []byte) {
	meta := usage.Metadata{}
	if r.category != "" {
		meta[usage.MetadataCategory] = r.category
	}
	r.engine.RecordActivity(usage.ActionEdit, meta)

	a := r.engine.Analyze(string(content))
	styles := ui.NewStyles(ui.ThemeFromHints(a.Tone, r.engine.Theme(a.Tone)))
	fmt.Fprintf(r.out, "%s  tone=%s load=%.2f\n", styles.Muted.Render(path), styles.Title.Render(a.Tone), a.Load)

	if r.engine.ShouldIntervene() {
		fmt.Fprintln(r.out, styles.Warning.Render("You've been editing rapidly. Consider taking a short break."))
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	reporter := &editReporter{engine: s.engine, out: out, category: watchCategory}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fw, err := watch.New(path, s.cfg.GetWatchDebounce(), reporter.handle)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}
	logger.Info("Watching", zap.String("path", fw.Path()), zap.Duration("debounce", s.cfg.GetWatchDebounce()))
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", fw.Path())

	<-ctx.Done()
	fw.Stop()

	printUsageSummary(out, s.engine)
	return nil
}

// printUsageSummary reports the session once the watcher has stopped.
func printUsageSummary(out io.Writer, engine *core.Engine) {
	styles := ui.NewStyles(ui.ThemeFromHints(config.NeutralTone, engine.Theme(config.NeutralTone)))
	snap := engine.UsageSnapshot()
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Field("edits", snap.Edits))
	fmt.Fprintln(out, styles.Field("features", engine.Features().Status()))
	fmt.Fprintln(out, styles.Field("insight", engine.Insight().Message))
}
