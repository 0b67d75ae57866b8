package main

import (
	"os"

	"github.com/spf13/cobra"

	"strata/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Static analysis for JavaScript sources",
	Long:  `strata builds scope, reference and type models over JavaScript sources and reports type-safety problems.`,
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to strata.toml (default: search upward from the target)")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel analysis jobs (0 = number of CPUs)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the analysis disk cache")

	if err := rootCmd.Execute(); err != nil {
		if err != errAnalysisFailed {
			rootCmd.PrintErrln("error:", err)
		}
		os.Exit(1)
	}
}
