// Package sources implements the sources command group for inspecting
// the configured news source registry.
package sources

import (
	"github.com/spf13/cobra"
)

// Command builds the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage configured news sources",
		Long:  `Sources inspects the news source registry the crawler runs from.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(listCommand())

	return cmd
}
