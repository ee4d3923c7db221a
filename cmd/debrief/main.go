// Package main provides the debrief CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	app := newApp()

	rootCmd := &cobra.Command{
		Use:   "debrief",
		Short: "Post-session briefings for Claude Code",
		Long: `debrief extracts a structured briefing from a Claude Code session:
what got built, how the pieces connect, and what will bite you later.

Run 'debrief setup' once to register the session hooks, then briefings
are generated automatically when a session ends. 'debrief analyze' runs
the same extraction by hand.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "analysis", Title: "Analysis:"},
		&cobra.Group{ID: "integration", Title: "Integration:"},
		&cobra.Group{ID: "prompts", Title: "Prompts:"},
	)

	for _, cmd := range []*cobra.Command{
		analyzeCmd(app),
		sessionsCmd(app),
		briefingCmd(app),
		statusCmd(app),
	} {
		cmd.GroupID = "analysis"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		setupCmd(app),
		hookCmd(app),
		serveCmd(app),
	} {
		cmd.GroupID = "integration"
		rootCmd.AddCommand(cmd)
	}

	prompt := promptCmd(app)
	prompt.GroupID = "prompts"
	rootCmd.AddCommand(prompt)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
