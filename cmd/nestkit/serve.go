package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nestkit/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, corsOrigins string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve prior transforms, status and metrics over HTTP",
		Example: "  nestkit serve --config nestkit.yaml --addr :8090",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Addr
			}
			if cmd.Flags().Changed("cors-origins") {
				a.cfg.CORSOrigins = splitCSV(corsOrigins)
			}
			priors, err := a.priors()
			if err != nil {
				return err
			}
			a.log.Info().Int("priors", priors.Len()).Msg("priors loaded")
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr, httpapi.NewBackend(a.newHub(nil), priors))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config, else :8090)")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; empty disables CORS")
	return cmd
}
