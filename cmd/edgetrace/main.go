package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "edgetrace",
	Short: "Call-graph diff engine",
	Long: `edgetrace compares two static call graphs extracted from two builds of
the same program and assigns every edge of the larger graph a relevance
score approximating how responsible that edge is for the extra reachable
code present in it but absent from the smaller graph.`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}
