package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, briefing and insight counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.pipeline().Status()
			if err != nil {
				return err
			}
			fmt.Println(a.out.Status(status.TotalSessions, status.TotalBriefings, status.Projects, status.Insights))
			return nil
		},
	}
}
