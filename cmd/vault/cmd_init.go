package main

import (
	"fmt"

	"promptvault/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initForce bool

// initCmd writes the default tables into the workspace
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write default vault.yaml and table documents into .vault/",
	Long: `Creates the .vault/ directory with:
  vault.yaml        application settings (features, history, logging)
  config.json       lexicons, filler buffer, stories, templates, profiles, themes
  techniques.json   technique descriptors and application order

Existing files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	written, err := config.WriteDefaults(ws, initForce)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	logger.Info("Workspace initialized", zap.String("workspace", ws), zap.Int("files", len(written)))

	out := cmd.OutOrStdout()
	if len(written) == 0 {
		fmt.Fprintln(out, "Already initialized; nothing written (use --force to overwrite).")
		return nil
	}
	for _, p := range written {
		fmt.Fprintf(out, "wrote %s\n", p)
	}
	return nil
}
