package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/debrief/internal/hooks"
)

// hookCmd wires the subcommands Claude Code invokes directly. They read
// the hook payload from stdin, always answer {"continue": true} on
// stdout and always exit zero: a hook failure must never block the
// editor.
func hookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hook",
		Short:  "Hook entrypoints invoked by Claude Code",
		Hidden: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Handle the Stop hook",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			handler := hooks.NewHandler(a.locks, a.spawner())
			handler.OnStop(os.Stdin, os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pre-compact",
		Short: "Handle the PreCompact hook",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			handler := hooks.NewHandler(a.locks, a.spawner())
			handler.OnPreCompact(os.Stdin, os.Stdout)
		},
	})

	return cmd
}
