package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "selfie-filter-backend",
		Short: "Selfie upload API that burns decorative filters into photos",
		Long: `Receives selfies, composites the chosen filter sticker onto them, stores the
result under the uploads directory and serves the photo gallery API.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newFiltersCmd())

	return cmd
}
