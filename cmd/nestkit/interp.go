package main

import (
	"github.com/spf13/cobra"

	"nestkit/internal/interp"
)

func newInterpCmd(a *app) *cobra.Command {
	var u, x, at string
	var sorted bool
	cmd := &cobra.Command{
		Use:     "interp",
		Short:   "Evaluate a piecewise-linear quantile at unit-cube values",
		Example: "  nestkit interp --u 0,1,2 --x 0,10,20 --at 0.5,-1,3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			us, err := parseFloats("u", u)
			if err != nil {
				return err
			}
			xs, err := parseFloats("x", x)
			if err != nil {
				return err
			}
			vs, err := parseFloats("at", at)
			if err != nil {
				return err
			}
			k, err := interp.Build(us, xs, sorted)
			if err != nil {
				return err
			}
			a.log.Debug().Int("knots", k.Len()).Bool("sorted", sorted).Msg("interp")
			printValues(cmd.OutOrStdout(), k.Transform(vs))
			return nil
		},
	}
	cmd.Flags().StringVar(&u, "u", "", "Comma-separated knot positions")
	cmd.Flags().StringVar(&x, "x", "", "Comma-separated knot values")
	cmd.Flags().StringVar(&at, "at", "", "Comma-separated points to evaluate")
	cmd.Flags().BoolVar(&sorted, "sorted", false, "Knots are already sorted by u")
	_ = cmd.MarkFlagRequired("u")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}
