// Package cmd implements the newscrawl command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	crawlcmd "github.com/polibrief/newscrawl/cmd/crawl"
	discovercmd "github.com/polibrief/newscrawl/cmd/discover"
	reportcmd "github.com/polibrief/newscrawl/cmd/report"
	runcmd "github.com/polibrief/newscrawl/cmd/run"
	servecmd "github.com/polibrief/newscrawl/cmd/serve"
	sourcescmd "github.com/polibrief/newscrawl/cmd/sources"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "newscrawl",
	Short: "Korean news crawler and job orchestrator",
	Long: `newscrawl collects news articles from configured Korean sources,
runs the per-source crawler jobs sequentially, classifies their output,
and reports the results.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default looks for config.yaml in . and ./config)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newscrawl version %s\n", version)
		},
	})

	rootCmd.AddCommand(crawlcmd.Command())
	rootCmd.AddCommand(runcmd.Command())
	rootCmd.AddCommand(sourcescmd.Command())
	rootCmd.AddCommand(discovercmd.Command())
	rootCmd.AddCommand(reportcmd.Command())
	rootCmd.AddCommand(servecmd.Command())
}
