package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adriftlabs/taylorint/expr"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose <system>",
	Short: "Print a built-in system's Taylor decomposition IR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, state, err := lookupSystem(args[0])
		if err != nil {
			return err
		}
		log.WithField("system", args[0]).WithField("n_vars", d.NEq).Info("decomposed system")
		for i, e := range d.Defs {
			fmt.Fprintf(cmd.OutOrStdout(), "u_%d = %s\n", i, expr.String(e))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "initial state: %v\n", state)
		return nil
	},
}
