package main

import (
	"fmt"

	"promptvault/internal/config"

	"github.com/spf13/cobra"
)

// schemaCmd prints the JSON schemas of the table documents
var schemaCmd = &cobra.Command{
	Use:       "schema [config.json|techniques.json]",
	Short:     "Print JSON schemas for the table documents",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"config.json", "techniques.json"},
	RunE:      runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	names := []string{"config.json", "techniques.json"}
	if len(args) == 1 {
		names = args
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		data, err := config.SchemaJSON(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	}
	return nil
}
