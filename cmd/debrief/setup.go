package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/debrief/internal/hooks"
)

func setupCmd(a *app) *cobra.Command {
	var (
		remove bool
		status bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the session hooks in Claude Code settings",
		Long: `Install the Stop and PreCompact hooks into the Claude Code settings
file so briefings are generated automatically. Other hooks in the file
are preserved. --remove uninstalls only the debrief hooks; --status
shows what is currently registered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			installer := a.installer()

			if status {
				fmt.Println(a.out.HookStatus(installer.Check(), hooks.Events()))
				return nil
			}

			if remove {
				results, err := installer.Uninstall()
				if err != nil {
					return err
				}
				fmt.Println(a.out.HookResults("Removing Hooks", results, hooks.Events()))
				return nil
			}

			results, err := installer.Install()
			if err != nil {
				return err
			}
			fmt.Println(a.out.HookResults("Installing Hooks", results, hooks.Events()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Uninstall the debrief hooks")
	cmd.Flags().BoolVar(&status, "status", false, "Show hook registration status")

	return cmd
}
