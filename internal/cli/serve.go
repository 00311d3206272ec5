package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/authcore/internal/entrypoint"
)

func newServeCmd(opts *options, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		RunE: func(*cobra.Command, []string) error {
			return runServe(opts, version)
		},
	}
}

func runServe(opts *options, version string) error {
	return entrypoint.Run(opts.load(), version)
}
