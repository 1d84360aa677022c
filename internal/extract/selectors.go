// Package extract turns raw HTML pages into candidate news items using
// ordered CSS-selector chains.
package extract

// SelectorSet holds the ordered selector chains for one source. Each chain
// is evaluated first-match-wins: the first selector yielding significant
// text supplies the field and later selectors are not tried. A zero-value
// set falls back to the generic chains below.
type SelectorSet struct {
	Container []string `yaml:"container" mapstructure:"container"`
	Title     []string `yaml:"title" mapstructure:"title"`
	Content   []string `yaml:"content" mapstructure:"content"`
	Link      []string `yaml:"link" mapstructure:"link"`
	Timestamp []string `yaml:"timestamp" mapstructure:"timestamp"`
}

// Generic chains used when a source registers no selectors of its own.
// Ordered from most to least specific; news portals that match none of the
// container selectors yield no items.
var (
	genericContainers = []string{
		"article",
		".news-item",
		".article",
		".post",
		`[class*="news"]`,
		`[class*="article"]`,
		"li",
		".item",
	}

	genericTitles = []string{
		"h1", "h2", "h3", "h4",
		`[class*="title"]`,
		`[class*="headline"]`,
		"a",
	}

	genericContents = []string{
		`[class*="content"]`,
		`[class*="body"]`,
		`[class*="text"]`,
		"p",
	}

	genericTimestamps = []string{
		"time",
		`[class*="date"]`,
		`[class*="time"]`,
	}
)

// Significance thresholds: shorter matches are treated as noise (menu
// entries, icons) and the chain moves on to the next selector.
const (
	minTitleLen   = 5
	minContentLen = 20
)

// withDefaults fills empty chains from the generic set.
func (s SelectorSet) withDefaults() SelectorSet {
	if len(s.Container) == 0 {
		s.Container = genericContainers
	}
	if len(s.Title) == 0 {
		s.Title = genericTitles
	}
	if len(s.Content) == 0 {
		s.Content = genericContents
	}
	if len(s.Timestamp) == 0 {
		s.Timestamp = genericTimestamps
	}
	return s
}
