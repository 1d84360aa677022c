// Package discover implements the discover command: analyze a news
// listing page and propose a registry entry with scored selector chains.
package discover

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/polibrief/newscrawl/cmd/common"
	"github.com/polibrief/newscrawl/internal/discover"
)

// Command builds the discover command.
func Command() *cobra.Command {
	var (
		name     string
		htmlFile string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "discover <url>",
		Short: "Propose selectors for a news listing page",
		Long: `Discover fetches a listing page, scores candidate CSS selectors for
article containers, titles, content, and timestamps, and prints a source
registry entry ready to paste into sources.yml. The candidate table goes
to stderr so the YAML on stdout stays pipeable. With --file the page is
read from a saved HTML file instead of fetched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			return run(cmd, deps, args[0], name, htmlFile, output)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "source name for the generated entry (default derived from the host)")
	cmd.Flags().StringVar(&htmlFile, "file", "", "analyze a saved HTML file instead of fetching the URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the generated entry to a file instead of stdout")

	return cmd
}

func run(cmd *cobra.Command, deps common.Deps, pageURL, name, htmlFile, output string) error {
	result, err := analyze(cmd, deps, pageURL, htmlFile)
	if err != nil {
		return err
	}

	printCandidates(cmd.ErrOrStderr(), result)

	entry, err := discover.GenerateSourceYAML(name, pageURL, result)
	if err != nil {
		return err
	}

	if output != "" {
		if writeErr := os.WriteFile(output, []byte(entry), 0o644); writeErr != nil {
			return fmt.Errorf("write entry: %w", writeErr)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), entry)
	return nil
}

func analyze(cmd *cobra.Command, deps common.Deps, pageURL, htmlFile string) (discover.Result, error) {
	if htmlFile != "" {
		f, err := os.Open(htmlFile)
		if err != nil {
			return discover.Result{}, fmt.Errorf("open html file: %w", err)
		}
		defer f.Close()
		return discover.AnalyzeHTML(f, pageURL)
	}

	deps.Logger.Info("fetching page", "url", pageURL)
	doc, err := discover.FetchDocument(cmd.Context(), pageURL, deps.Config.Crawl.Timeout)
	if err != nil {
		return discover.Result{}, err
	}

	analyzer, err := discover.NewAnalyzer(doc, pageURL)
	if err != nil {
		return discover.Result{}, err
	}
	return analyzer.Discover(), nil
}

// printCandidates renders the scored candidates per field, best first.
func printCandidates(out io.Writer, result discover.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Selector", "Confidence", "Matches", "Sample"})

	fields := []struct {
		name       string
		candidates []discover.Candidate
	}{
		{"container", result.Container},
		{"title", result.Title},
		{"content", result.Content},
		{"link", result.Link},
		{"timestamp", result.Timestamp},
	}
	for _, field := range fields {
		for _, c := range field.candidates {
			t.AppendRow(table.Row{field.name, c.Selector, fmt.Sprintf("%.2f", c.Confidence), c.Matches, c.Sample})
		}
	}
	t.Render()
}
