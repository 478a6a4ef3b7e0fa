package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adriftlabs/taylorint/taylor"
)

var (
	integrateTo       float64
	integrateMaxSteps int
)

var integrateCmd = &cobra.Command{
	Use:   "integrate <system>",
	Short: "Propagate a built-in system to a target time and report the trajectory summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadFileConfig(configPath)
		if err != nil {
			return err
		}

		d, state, err := lookupSystem(args[0])
		if err != nil {
			return err
		}

		in, err := taylor.NewIntegrator(d, state, 0, cfg.RTol, cfg.ATol, nil,
			taylor.Config{OptLevel: cfg.OptLevel, HighAccuracy: cfg.HighAccuracy, CompactMode: cfg.CompactMode}, nil)
		if err != nil {
			return err
		}

		log.WithField("system", args[0]).WithField("target_time", integrateTo).Info("starting propagation")

		res, err := in.PropagateUntil(integrateTo, integrateMaxSteps)
		if err != nil {
			return err
		}

		entry := log.WithField("system", args[0]).
			WithField("outcome", res.Outcome.String()).
			WithField("n_steps", res.NSteps).
			WithField("min_h", res.MinH).
			WithField("max_h", res.MaxH)
		if res.Outcome.IsError() {
			entry.Error("propagation ended in a numerical failure")
		} else {
			entry.Info("propagation complete")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "outcome: %s\n", res.Outcome)
		fmt.Fprintf(cmd.OutOrStdout(), "steps: %d (order %d..%d, h %.3e..%.3e)\n",
			res.NSteps, res.MinOrder, res.MaxOrder, res.MinH, res.MaxH)
		fmt.Fprintf(cmd.OutOrStdout(), "final time: %v\n", in.GetTime())
		fmt.Fprintf(cmd.OutOrStdout(), "final state: %v\n", in.GetState())
		return nil
	},
}

func init() {
	integrateCmd.Flags().Float64Var(&integrateTo, "to", 1, "target time to propagate to")
	integrateCmd.Flags().IntVar(&integrateMaxSteps, "max-steps", 100000, "maximum number of steps before giving up")
}
