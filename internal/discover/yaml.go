package discover

import (
	"fmt"
	"net/url"
	"strings"
)

// GenerateSourceYAML renders a registry entry for the discovered selectors,
// indented to paste directly under a group in sources.yml. An empty name is
// derived from the page hostname.
func GenerateSourceYAML(name, pageURL string, result Result) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if name == "" {
		name = sourceNameFromHost(parsed.Hostname())
	}

	var b strings.Builder
	writeEntryHeader(&b, name, parsed, pageURL)
	writeSelectorChains(&b, result)
	return b.String(), nil
}

func writeEntryHeader(b *strings.Builder, name string, parsed *url.URL, pageURL string) {
	baseURL := parsed.Scheme + "://" + parsed.Host

	fmt.Fprintf(b, "    - name: %q\n", name)
	fmt.Fprintf(b, "      base_url: %q\n", baseURL)
	fmt.Fprintf(b, "      politics_url: %q\n", pageURL)
	fmt.Fprintf(b, "      table_name: %q\n", tableNameFromHost(parsed.Hostname()))
	b.WriteString("      selectors:\n")
}

func writeSelectorChains(b *strings.Builder, result Result) {
	if len(result.Container) == 0 {
		b.WriteString("        # no container candidates found; the page may build its\n")
		b.WriteString("        # listing in the browser, try render: true\n")
		return
	}

	writeChain(b, "container", result.Container)
	writeChain(b, "title", result.Title)
	writeChain(b, "content", result.Content)
	writeChain(b, "link", result.Link)
	writeChain(b, "timestamp", result.Timestamp)
}

// writeChain emits one field as a comma-joined scalar, the form the
// registry loader splits back into a chain.
func writeChain(b *strings.Builder, field string, candidates []Candidate) {
	if len(candidates) == 0 {
		return
	}

	n := len(candidates)
	if n > maxChainLen {
		n = maxChainLen
	}
	selectors := make([]string, 0, n)
	for _, c := range candidates[:n] {
		selectors = append(selectors, c.Selector)
	}

	fmt.Fprintf(b, "        %s: %q  # confidence %.2f, %d matches\n",
		field, strings.Join(selectors, ","), candidates[0].Confidence, candidates[0].Matches)
	if candidates[0].Sample != "" {
		fmt.Fprintf(b, "        # sample: %s\n", escapeComment(candidates[0].Sample))
	}
}

// sourceNameFromHost turns "www.example.co.kr" into "Example".
func sourceNameFromHost(hostname string) string {
	hostname = strings.TrimPrefix(hostname, "www.")
	parts := strings.Split(hostname, ".")
	main := parts[0]
	if main == "" {
		return hostname
	}
	return strings.ToUpper(main[:1]) + strings.ToLower(main[1:])
}

// tableNameFromHost turns "news.example.com" into "example_politics".
func tableNameFromHost(hostname string) string {
	hostname = strings.TrimPrefix(hostname, "www.")
	hostname = strings.TrimPrefix(hostname, "news.")
	parts := strings.Split(hostname, ".")
	main := strings.ToLower(strings.ReplaceAll(parts[0], "-", "_"))
	if main == "" {
		return "source_politics"
	}
	return main + "_politics"
}

// escapeComment strips newlines so samples cannot break the YAML comment.
func escapeComment(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
