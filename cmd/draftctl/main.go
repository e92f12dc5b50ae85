// Command draftctl publishes exported drafts, moves the draft collection
// between store backends and writes example configuration.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/logger"
	"github.com/debemdeboas/the-drafts/internal/publish"
	"github.com/debemdeboas/the-drafts/internal/store"
)

var version = "dev"

type styles struct {
	heading lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
}

var out = styles{
	heading: lipgloss.NewStyle().Bold(true),
	pass:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"}),
	fail:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}),
	dim:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "7"}),
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "draftctl",
		Short:         "Manage Markdown drafts published to GitHub",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(configPath)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config.yaml")

	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig reads .env.local and .env, then the YAML config, and quiets the
// library loggers unless LOG_LEVEL asks otherwise.
func loadConfig(path string) error {
	for _, file := range []string{".env.local", ".env"} {
		_ = godotenv.Load(file)
	}

	if path == "" {
		path = "config.yaml"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	l := logger.New(level, "console")
	config.SetLogger(l)
	publish.SetLogger(l)
	store.SetLogger(l)

	return config.LoadConfig(path)
}
