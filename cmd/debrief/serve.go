package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/debrief/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sessions, briefings and prompts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			promptStore, err := a.promptStore()
			if err != nil {
				return err
			}
			defer promptStore.Close()

			srv := server.New(a.pipeline(), a.reader, a.briefings, promptStore)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7391", "Listen address")

	return cmd
}
