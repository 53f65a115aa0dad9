// Package main provides the dorifit CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dorifit",
		Short: "Best-team optimizer for a rhythm card game",
		Long: `dorifit picks the five cards that maximize a player's event score,
searching every combination of band, attribute and magazine items the player
owns. Skill-sensitive events simulate the chart to weigh card skills.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newOptimizeCmd(),
		newSimulateCmd(),
		newDecodeCmd(),
		newCacheCmd(),
	)
	return rootCmd
}
