package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nestkit/internal/prior"
	"nestkit/internal/quantile"
	"nestkit/internal/samples"
)

func newIcdfCmd(a *app) *cobra.Command {
	var samplesPath, weightsPath, at string
	var seed uint64
	var bins int
	var showBins bool
	cmd := &cobra.Command{
		Use:     "icdf",
		Short:   "Build an empirical quantile from a sample file and evaluate it",
		Example: "  nestkit icdf --samples chain.csv --at 0.05,0.5,0.95\n  nestkit icdf --samples x.csv --log-weights lw.csv --at 0.5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := samples.Load(samplesPath)
			if err != nil {
				return err
			}
			var lw *prior.Array
			if weightsPath != "" {
				w, err := samples.Load(weightsPath)
				if err != nil {
					return err
				}
				lw = &w
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}
			var opts []quantile.Option
			if seed != 0 {
				opts = append(opts, quantile.WithSeed(seed))
			}
			if bins > 0 {
				opts = append(opts, quantile.WithBins(bins))
			}
			p, err := prior.NewFromSamples(samplesPath, s, lw, true, opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showBins {
				q := p.Quantile()
				cum := q.CumFreq()
				for i, c := range q.BinCenters() {
					fmt.Fprintf(out, "# bin %d center=%g cum_freq=%g\n", i, c, cum[i])
				}
			}
			if at == "" {
				return nil
			}
			vs, err := parseFloats("at", at)
			if err != nil {
				return err
			}
			x, err := p.Transform(prior.Vector(vs))
			if err != nil {
				return err
			}
			printValues(out, x.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&samplesPath, "samples", "", "Sample file (.csv, .txt, .json)")
	cmd.Flags().StringVar(&weightsPath, "log-weights", "", "Optional log-weight file, same length as samples")
	cmd.Flags().StringVar(&at, "at", "", "Comma-separated unit-cube values to evaluate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Resampling seed for weighted samples (default from config, else built-in)")
	cmd.Flags().IntVar(&bins, "bins", 0, "Override the number of histogram bins")
	cmd.Flags().BoolVar(&showBins, "show-bins", false, "Print bin centers and cumulative frequencies")
	_ = cmd.MarkFlagRequired("samples")
	return cmd
}
