package main

import "github.com/spf13/cobra"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taylorintctl",
	Short: "Decompose and integrate symbolic ODE systems via Taylor series",
	Long: `taylorintctl exposes the expr/taylor pipeline from the command
line: decompose a built-in system into its intermediate representation,
or propagate it to a target time and report the outcome, step
statistics, and final time and state.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (tolerances, stepper options)")
	rootCmd.AddCommand(decomposeCmd)
	rootCmd.AddCommand(integrateCmd)
}
