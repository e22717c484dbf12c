package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"promptvault/internal/config"
	"promptvault/internal/store"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
	historyStats bool
)

// historyCmd lists journaled enhancement reports
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent enhancement reports",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", store.DefaultRecentLimit, "Number of entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Emit JSON")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Show technique totals across the journal")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ws, cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	h, err := store.Open(config.ResolvePath(ws, cfg.History.DatabasePath))
	if err != nil {
		return err
	}
	defer h.Close()

	out := cmd.OutOrStdout()
	if historyStats {
		return printHistoryStats(ctx, cmd, h)
	}

	entries, err := h.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []store.Entry{}
		}
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No enhancements journaled yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tID\tPROFILE\tLENGTH\tSCORE\tTECHNIQUES")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d->%d\t%.2f\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(e.ID), e.ProfileName, e.OriginalLength, e.EnhancedLength,
			e.StealthScore, strings.Join(e.Techniques, ","))
	}
	return tw.Flush()
}

func printHistoryStats(ctx context.Context, cmd *cobra.Command, h *store.History) error {
	total, err := h.Count(ctx)
	if err != nil {
		return err
	}
	counts, err := h.TechniqueCounts(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d enhancements journaled\n", total)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-30s %d\n", name, counts[name])
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
