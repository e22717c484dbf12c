package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"promptvault/cmd/vault/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose      bool
	noColor      bool
	workspace    string
	featuresFlag string
	timeout      time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "promptvault - tone-aware prompt enhancement",
	Long: `promptvault analyzes prompt text for emotional tone and cognitive load,
tracks editing activity to suggest breaks, and rewrites prompts through a
configurable stealth pipeline (fractal pretexting, lexical density cloaking,
syntactic pressure gradients, zero-token scaffolding).

Tables are read from .vault/config.json and .vault/techniques.json.
Run "vault init" once per workspace to write the defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		ui.ApplyColorPreference(noColor)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&featuresFlag, "features", "", `Feature toggles: "all", "none" or a list such as "emotional,cognitive" (default: from vault.yaml)`)
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(techniquesCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// joinArgs joins command arguments into a single prompt.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
