// Package report renders orchestration reports to the console and
// persists them as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/polibrief/newscrawl/internal/domain"
)

// DefaultFile is where the run report lands unless overridden.
const DefaultFile = "crawler_report.json"

// Reporter writes human-facing report output.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Render prints the per-job table, the summary block, and the itemized
// success/failure lists.
func (r *Reporter) Render(rep *domain.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Status", "Articles", "Duration", "Error"})

	for i, res := range rep.Results {
		t.AppendRow(table.Row{
			i + 1,
			res.Name,
			string(res.Status),
			orDash(res.ArticlesCollected),
			durationCell(res.Duration),
			orDashString(res.ErrorMessage),
		})
	}
	t.Render()

	s := rep.Summary
	fmt.Fprintf(r.out, "\nTotal crawlers: %d\n", s.TotalCrawlers)
	fmt.Fprintf(r.out, "Successful:     %d\n", s.Successful)
	fmt.Fprintf(r.out, "Failed:         %d\n", s.Failed)
	fmt.Fprintf(r.out, "Error:          %d\n", s.Error)
	fmt.Fprintf(r.out, "Total articles: %d\n", s.TotalArticles)
	fmt.Fprintf(r.out, "Total duration: %s\n", time.Duration(s.TotalDuration).String())

	r.renderLists(rep)
}

// renderLists prints the succeeded jobs with counts and, when any job went
// wrong, the failed and errored jobs with their detail.
func (r *Reporter) renderLists(rep *domain.RunReport) {
	fmt.Fprintf(r.out, "\nSucceeded:\n")
	for _, res := range rep.Results {
		if res.Status == domain.StatusSuccess {
			fmt.Fprintf(r.out, "  + %s: %d articles\n", res.Name, res.ArticlesCollected)
		}
	}

	if rep.Summary.Failed == 0 && rep.Summary.Error == 0 {
		return
	}

	fmt.Fprintf(r.out, "\nFailed:\n")
	for _, res := range rep.Results {
		if res.Status == domain.StatusFailed || res.Status == domain.StatusError {
			fmt.Fprintf(r.out, "  - %s: %s\n", res.Name, orDashString(res.ErrorMessage))
		}
	}
}

// Save persists the report as indented JSON.
func Save(path string, rep *domain.RunReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// Load reads a previously saved report.
func Load(path string) (*domain.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}

	var rep domain.RunReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse report file: %w", err)
	}
	return &rep, nil
}

func orDash(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func orDashString(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func durationCell(d domain.Duration) string {
	if d == 0 {
		return "-"
	}
	return time.Duration(d).String()
}
