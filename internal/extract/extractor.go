package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/polibrief/newscrawl/internal/domain"
)

// ContentPreviewLen is the rune length beyond which content is cut and
// suffixed with the ellipsis marker. Truncation happens here, before
// deduplication, so identity is computed on the truncated form.
const ContentPreviewLen = 200

// ellipsisMarker terminates truncated content.
const ellipsisMarker = "..."

// Extractor extracts candidate news items from HTML using selector chains.
type Extractor struct {
	selectors SelectorSet
}

// NewExtractor creates an extractor for one source. Chains missing from the
// set fall back to the generic chains.
func NewExtractor(selectors SelectorSet) *Extractor {
	return &Extractor{selectors: selectors.withDefaults()}
}

// Extract parses a page and returns zero or more candidate items.
// Candidates with an empty title or empty content are discarded here.
func (e *Extractor) Extract(pageURL string, body []byte) ([]domain.NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	containers := findContainers(doc, e.selectors.Container)
	if containers == nil {
		return nil, nil
	}

	items := make([]domain.NewsItem, 0, containers.Length())
	containers.Each(func(_ int, container *goquery.Selection) {
		if item, ok := e.extractItem(container, base); ok {
			items = append(items, item)
		}
	})

	return items, nil
}

// findContainers returns the matches of the first container selector that
// matches anything, or nil when none do.
func findContainers(doc *goquery.Document, chain []string) *goquery.Selection {
	for _, selector := range chain {
		if matches := doc.Find(selector); matches.Length() > 0 {
			return matches
		}
	}
	return nil
}

// extractItem applies the field chains to one container.
func (e *Extractor) extractItem(container *goquery.Selection, base *url.URL) (domain.NewsItem, bool) {
	title := firstText(container, e.selectors.Title, minTitleLen)
	if title == "" {
		return domain.NewsItem{}, false
	}

	content := firstText(container, e.selectors.Content, minContentLen)
	if content == "" {
		return domain.NewsItem{}, false
	}

	return domain.NewsItem{
		Title:     title,
		Content:   truncateContent(content),
		Link:      resolveLink(container, e.selectors.Link, base),
		Source:    base.Host,
		Timestamp: firstText(container, e.selectors.Timestamp, 0),
	}, true
}

// firstText walks a chain and returns the first match whose collapsed text
// is longer than minLen runes, or "" when no selector qualifies.
func firstText(container *goquery.Selection, chain []string, minLen int) string {
	for _, selector := range chain {
		text := normalizeSpace(container.Find(selector).First().Text())
		if utf8.RuneCountInString(text) > minLen {
			return text
		}
	}
	return ""
}

// resolveLink finds the item's href and resolves it against the page URL.
// Items without any usable link point back at the page itself.
func resolveLink(container *goquery.Selection, chain []string, base *url.URL) string {
	href := findHref(container, chain)
	if href == "" {
		return base.String()
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return base.String()
	}

	return base.ResolveReference(ref).String()
}

// findHref tries the configured link chain, then the container itself when
// it is an anchor, then the first anchor inside the container.
func findHref(container *goquery.Selection, chain []string) string {
	for _, selector := range chain {
		if href, ok := container.Find(selector).First().Attr("href"); ok && href != "" {
			return href
		}
	}

	if href, ok := container.Attr("href"); ok && href != "" {
		return href
	}

	if href, ok := container.Find("a[href]").First().Attr("href"); ok && href != "" {
		return href
	}

	return ""
}

// truncateContent cuts content to the preview length in runes.
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= ContentPreviewLen {
		return content
	}
	return string(runes[:ContentPreviewLen]) + ellipsisMarker
}

// normalizeSpace trims and collapses internal whitespace runs to one space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
