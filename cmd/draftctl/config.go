package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/the-drafts/internal/config"
)

const configHeader = "# Drafts Configuration Example\n# Copy this file to config.yaml and customize as needed\n\n"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate [file|-]",
		Short: "Write a config file with every default filled in",
		Args:  cobra.MaximumNArgs(1),
		// Defaults only; the user's config and environment are not loaded
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := defaultConfigYAML()
			if err != nil {
				return err
			}

			outputFile := "config.example.yaml"
			if len(args) > 0 {
				outputFile = args[0]
			}

			if outputFile == "-" {
				fmt.Fprint(cmd.OutOrStdout(), output)
				return nil
			}

			if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config: %s\n", outputFile)
			return nil
		},
	})

	return cmd
}

func defaultConfigYAML() (string, error) {
	yamlData, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("generating YAML: %w", err)
	}
	return configHeader + string(yamlData), nil
}
