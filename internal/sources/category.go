package sources

import "strings"

// categoryMapping maps URL path fragments to category labels. Order
// matters: a URL can contain more than one fragment, so the specific
// labels are checked before the catch-all /politics/.
var categoryMapping = []struct {
	fragment string
	label    string
}{
	{"/north_korea/", "북한"},
	{"/politics_general/", "정치일반"},
	{"/politics/", "정치"},
}

// CategoryForURL maps a page URL to its category label, or "" when no
// fragment matches.
func CategoryForURL(pageURL string) string {
	for _, m := range categoryMapping {
		if strings.Contains(pageURL, m.fragment) {
			return m.label
		}
	}
	return ""
}
