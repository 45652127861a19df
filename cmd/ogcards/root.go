package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ogcards",
	Short: "Generate Open Graph and Twitter Card preview images",
	Long: `ogcards renders the site's social preview images: a 1200x630 Open Graph
image and a 1200x630 Twitter Card image, both written as JPEG.

Running ogcards without a subcommand is the same as "ogcards generate".`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.PersistentFlags().String("config", "ogcards.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	addGenerateFlags(rootCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
