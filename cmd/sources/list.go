package sources

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/polibrief/newscrawl/cmd/common"
)

// listCommand builds the sources list subcommand.
func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}

			registry, err := common.LoadRegistry(deps.Config)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if registry.Len() == 0 {
				fmt.Fprintln(out, "no sources configured")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Group", "Politics URL", "Table", "Render"})
			for _, src := range registry.All() {
				render := ""
				if src.Render {
					render = "yes"
				}
				t.AppendRow(table.Row{src.Name, src.Group, src.PoliticsURL, src.TableName, render})
			}
			t.Render()

			fmt.Fprintf(out, "\n%d sources\n", registry.Len())
			return nil
		},
	}
}
