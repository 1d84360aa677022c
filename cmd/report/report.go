// Package report implements the report command: render a saved run
// report file as the console table.
package report

import (
	"github.com/spf13/cobra"

	internalreport "github.com/polibrief/newscrawl/internal/report"
)

// Command builds the report command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "report <file>",
		Short: "Render a saved run report",
		Long:  `Report reads a JSON run report written by the run command and renders it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := internalreport.Load(args[0])
			if err != nil {
				return err
			}
			internalreport.NewReporter(cmd.OutOrStdout()).Render(rep)
			return nil
		},
	}
}
