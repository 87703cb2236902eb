package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"nestkit/internal/httpapi"
	"nestkit/internal/progress"
	"nestkit/internal/sampler"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		toyCfg    sampler.ToyConfig
		worker    string
		quiet     bool
		serveAddr string
	)
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the toy nested sampler with progress reporting",
		Example: "  nestkit run --num-live 200 --seed 7\n  nestkit run --quiet --serve :8090",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("worker") {
				worker = a.cfg.Worker
			}
			if !cmd.Flags().Changed("quiet") {
				quiet = a.cfg.Quiet
			}
			if !cmd.Flags().Changed("seed") && a.cfg.Seed != 0 {
				toyCfg.Seed = a.cfg.Seed
			}

			sinks := progress.MultiSink{progress.LogSink{Logger: a.log}}
			if !quiet {
				sinks = append(sinks, progress.NewTerminalSink(cmd.ErrOrStderr()))
			}
			hub := a.newHub(sinks)
			toy := sampler.NewToy(toyCfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			g, gctx := errgroup.WithContext(ctx)
			runCtx, finished := context.WithCancel(gctx)
			defer finished()

			var final sampler.State
			g.Go(func() error {
				defer finished()
				var err error
				final, err = progress.RunSampler(toy.Running, toy.Step, toy.Init(), !quiet || serveAddr != "", hub, worker)
				if err != nil {
					return err
				}
				wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return hub.Wait(wctx)
			})
			if serveAddr != "" {
				priors, err := a.priors()
				if err != nil {
					return err
				}
				g.Go(func() error { return a.serve(runCtx, serveAddr, httpapi.NewBackend(hub, priors)) })
			}
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "log_Z=%.6f analytic_log_Z=%.6f steps=%d num_likelihood_evals=%d\n",
				final.EvidenceCalculation.LogZMean, toy.AnalyticLogZ(), final.StepIdx, final.NumLikelihoodEvaluations)
			return nil
		},
	}
	cmd.Flags().StringVar(&worker, "worker", "", "Worker/device label for the progress display (default from config)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Disable the terminal progress display")
	cmd.Flags().StringVar(&serveAddr, "serve", "", "Also serve status and metrics on this address while running")
	cmd.Flags().IntVar(&toyCfg.NumLive, "num-live", 0, "Number of live points (default 400)")
	cmd.Flags().Float64Var(&toyCfg.Sigma, "sigma", 0, "Likelihood width (default 0.1)")
	cmd.Flags().Float64Var(&toyCfg.Tolerance, "tolerance", 0, "Stopping tolerance on remaining evidence (default 1e-3)")
	cmd.Flags().IntVar(&toyCfg.MaxSteps, "max-steps", 0, "Step bound (default 100000)")
	cmd.Flags().Uint64Var(&toyCfg.Seed, "seed", 0, "Random seed (default from config)")
	return cmd
}
