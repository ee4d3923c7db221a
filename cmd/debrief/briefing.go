package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func briefingCmd(a *app) *cobra.Command {
	var (
		sessionID string
		detail    bool
		full      bool
	)

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Show a stored briefing, or list all of them",
		Long: `Show the briefing for a session. Without --session-id all stored
briefings are listed. --detail adds file descriptions and architecture
notes; --full prints the complete Markdown document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				summaries, err := a.briefings.List()
				if err != nil {
					return err
				}
				fmt.Println(a.out.Briefings(summaries))
				return nil
			}

			b, err := a.briefings.Load(sessionID)
			if err != nil {
				return err
			}

			switch {
			case full:
				fmt.Println(a.out.BriefingFull(b))
			case detail:
				fmt.Println(a.out.BriefingDetail(b))
			default:
				fmt.Println(a.out.BriefingCompact(b))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session-id", "s", "", "Session whose briefing to show")
	cmd.Flags().BoolVar(&detail, "detail", false, "Show the detailed view")
	cmd.Flags().BoolVar(&full, "full", false, "Show the full Markdown briefing")

	return cmd
}
