package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionsCmd(a *app) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded Claude Code sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.reader.List(projectPath)
			if err != nil {
				return err
			}
			fmt.Println(a.out.Sessions(sessions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "Limit to sessions of one project path")

	return cmd
}
