// Package discover analyzes news listing pages and proposes selector
// chains for the source registry.
package discover

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/polibrief/newscrawl/internal/extract"
)

const (
	sampleTextLength = 100

	// Confidence tiers by selector specificity.
	semanticConfidence = 0.90
	classConfidence    = 0.85
	patternConfidence  = 0.75
	genericConfidence  = 0.65

	// Coverage bonuses. A field probe that hits in most containers is
	// worth more than one that hits in a few.
	fullCoverageBonus    = 0.05
	partialCoverageBonus = 0.02
	fullCoverage         = 0.8
	partialCoverage      = 0.5

	// Matches shorter than these rune counts are noise, same thresholds
	// the extractor applies.
	minTitleRunes   = 5
	minContentRunes = 20

	// maxChainLen caps how many candidates Chains keeps per field.
	maxChainLen = 3
)

// probe is one selector tried against the page, with the base confidence
// its tier earns when it matches.
type probe struct {
	selector   string
	confidence float64
}

var containerProbes = []probe{
	{"article", semanticConfidence},
	{".news-item", classConfidence},
	{".article", classConfidence},
	{".post", classConfidence},
	{".story-card-container", classConfidence},
	{".news-list li", classConfidence},
	{`[class*="news"]`, patternConfidence},
	{`[class*="article"]`, patternConfidence},
	{`[class*="card"]`, patternConfidence},
	{"li", genericConfidence},
	{".item", genericConfidence},
}

var titleProbes = []probe{
	{"h1", semanticConfidence},
	{"h2", semanticConfidence},
	{"h3", semanticConfidence},
	{"h4", classConfidence},
	{`[class*="title"]`, classConfidence},
	{`[class*="headline"]`, classConfidence},
	{`[class*="subject"]`, classConfidence},
	{"dt", patternConfidence},
	{"a", genericConfidence},
}

var contentProbes = []probe{
	{`[class*="content"]`, classConfidence},
	{`[class*="body"]`, classConfidence},
	{`[class*="deck"]`, classConfidence},
	{`[class*="summary"]`, classConfidence},
	{`[class*="text"]`, patternConfidence},
	{`[class*="desc"]`, patternConfidence},
	{"p", genericConfidence},
}

var timestampProbes = []probe{
	{"time", semanticConfidence},
	{`[class*="date"]`, classConfidence},
	{`[class*="time"]`, patternConfidence},
}

// Candidate is one scored selector for a chain position.
type Candidate struct {
	Selector   string
	Confidence float64
	Matches    int
	Sample     string
}

// Result holds the scored candidates per chain, best first.
type Result struct {
	PageURL   string
	Container []Candidate
	Title     []Candidate
	Content   []Candidate
	Link      []Candidate
	Timestamp []Candidate
}

// Chains converts the result into a selector set, keeping the top
// candidates of each field in confidence order.
func (r Result) Chains() extract.SelectorSet {
	return extract.SelectorSet{
		Container: topSelectors(r.Container),
		Title:     topSelectors(r.Title),
		Content:   topSelectors(r.Content),
		Link:      topSelectors(r.Link),
		Timestamp: topSelectors(r.Timestamp),
	}
}

func topSelectors(candidates []Candidate) []string {
	n := len(candidates)
	if n > maxChainLen {
		n = maxChainLen
	}
	selectors := make([]string, 0, n)
	for _, c := range candidates[:n] {
		selectors = append(selectors, c.Selector)
	}
	return selectors
}

// Analyzer scores selector probes against one parsed listing page.
type Analyzer struct {
	doc *goquery.Document
	url *url.URL
}

// NewAnalyzer creates an analyzer for a parsed document.
func NewAnalyzer(doc *goquery.Document, pageURL string) (*Analyzer, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	return &Analyzer{doc: doc, url: parsed}, nil
}

// AnalyzeHTML parses HTML from r and discovers selector candidates for it.
func AnalyzeHTML(r io.Reader, pageURL string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}
	analyzer, err := NewAnalyzer(doc, pageURL)
	if err != nil {
		return Result{}, err
	}
	return analyzer.Discover(), nil
}

// Discover runs every probe and returns the scored candidates. Field
// probes run inside the best container's matches so the proposed chains
// compose the way the extractor applies them.
func (a *Analyzer) Discover() Result {
	containers := a.discoverContainers()

	scope := a.doc.Selection
	if len(containers) > 0 {
		scope = a.doc.Find(containers[0].Selector)
	}

	return Result{
		PageURL:   a.url.String(),
		Container: containers,
		Title:     discoverField(scope, titleProbes, minTitleRunes),
		Content:   discoverField(scope, contentProbes, minContentRunes),
		Link:      discoverLinks(scope),
		Timestamp: discoverField(scope, timestampProbes, 0),
	}
}

// discoverContainers scores container probes by how many of their matches
// look like article cards: an anchor plus title-sized text.
func (a *Analyzer) discoverContainers() []Candidate {
	var out []Candidate
	for _, p := range containerProbes {
		matches := a.doc.Find(p.selector)
		total := matches.Length()
		if total == 0 {
			continue
		}

		usable := 0
		sample := ""
		matches.Each(func(_ int, s *goquery.Selection) {
			text := normalizeSpace(s.Text())
			if s.Find("a[href]").Length() == 0 || utf8.RuneCountInString(text) <= minTitleRunes {
				return
			}
			usable++
			if sample == "" {
				sample = truncateSample(text)
			}
		})
		if usable == 0 {
			continue
		}

		out = append(out, Candidate{
			Selector:   p.selector,
			Confidence: p.confidence + coverageBonus(usable, total),
			Matches:    usable,
			Sample:     sample,
		})
	}
	sortCandidates(out)
	return out
}

// discoverField scores field probes by the fraction of containers they
// match with significant text.
func discoverField(scope *goquery.Selection, probes []probe, minRunes int) []Candidate {
	total := scope.Length()
	if total == 0 {
		return nil
	}

	var out []Candidate
	for _, p := range probes {
		hits := 0
		sample := ""
		scope.Each(func(_ int, s *goquery.Selection) {
			text := normalizeSpace(s.Find(p.selector).First().Text())
			if utf8.RuneCountInString(text) <= minRunes {
				return
			}
			hits++
			if sample == "" {
				sample = truncateSample(text)
			}
		})
		if hits == 0 {
			continue
		}

		out = append(out, Candidate{
			Selector:   p.selector,
			Confidence: p.confidence + coverageBonus(hits, total),
			Matches:    hits,
			Sample:     sample,
		})
	}
	sortCandidates(out)
	return out
}

// discoverLinks checks anchor coverage across the containers. The sample
// carries the first href so the operator can sanity-check the pattern.
func discoverLinks(scope *goquery.Selection) []Candidate {
	total := scope.Length()
	if total == 0 {
		return nil
	}

	hits := 0
	sample := ""
	scope.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		hits++
		if sample == "" {
			sample = truncateSample(strings.TrimSpace(href))
		}
	})
	if hits == 0 {
		return nil
	}

	return []Candidate{{
		Selector:   "a",
		Confidence: semanticConfidence + coverageBonus(hits, total),
		Matches:    hits,
		Sample:     sample,
	}}
}

func coverageBonus(hits, total int) float64 {
	frac := float64(hits) / float64(total)
	switch {
	case frac >= fullCoverage:
		return fullCoverageBonus
	case frac >= partialCoverage:
		return partialCoverageBonus
	default:
		return 0
	}
}

func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Matches > candidates[j].Matches
	})
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateSample cuts sample text to a displayable length, on rune
// boundaries so Korean text survives the cut.
func truncateSample(text string) string {
	runes := []rune(text)
	if len(runes) <= sampleTextLength {
		return text
	}
	return string(runes[:sampleTextLength]) + "..."
}
