package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var techniquesJSON bool

// techniquesCmd lists the pipeline stages
var techniquesCmd = &cobra.Command{
	Use:   "techniques",
	Short: "List stealth techniques in application order",
	Args:  cobra.NoArgs,
	RunE:  runTechniques,
}

func init() {
	techniquesCmd.Flags().BoolVar(&techniquesJSON, "json", false, "Emit JSON")
}

func runTechniques(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	infos := s.engine.Techniques()
	out := cmd.OutOrStdout()
	if techniquesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTECHNIQUE\tENABLED\tSCORE")
	for _, info := range infos {
		pos := "-"
		if info.Position >= 0 {
			pos = fmt.Sprint(info.Position + 1)
		}
		enabled := "off"
		if info.Enabled {
			enabled = "on"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", pos, info.Technique.DisplayName(), enabled, info.Weight)
	}
	return tw.Flush()
}
