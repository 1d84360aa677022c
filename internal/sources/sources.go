// Package sources loads and validates the news source registry.
package sources

import (
	"github.com/polibrief/newscrawl/internal/extract"
)

// DefaultPath is the registry file the commands read when no override is
// given.
const DefaultPath = "sources.yml"

// Group names in registry order.
const (
	GroupMajorNews    = "major_news"
	GroupBroadcasting = "broadcasting"
	GroupOnlineNews   = "online_news"
)

// Source describes one news site.
type Source struct {
	Name        string              `yaml:"name" mapstructure:"name"`
	BaseURL     string              `yaml:"base_url" mapstructure:"base_url"`
	PoliticsURL string              `yaml:"politics_url" mapstructure:"politics_url"`
	TableName   string              `yaml:"table_name" mapstructure:"table_name"`
	Render      bool                `yaml:"render" mapstructure:"render"`
	Selectors   extract.SelectorSet `yaml:"selectors" mapstructure:"selectors"`

	// Group is the registry section the source was declared under.
	Group string `yaml:"-" mapstructure:"-"`
}

// Registry is an ordered collection of sources: known groups first
// (major_news, broadcasting, online_news), declaration order within each.
type Registry struct {
	sources []Source
}

// NewRegistry builds a registry over an already ordered source list.
func NewRegistry(list []Source) *Registry {
	return &Registry{sources: list}
}

// All returns every source in registry order.
func (r *Registry) All() []Source {
	return r.sources
}

// Len returns the number of sources.
func (r *Registry) Len() int {
	return len(r.sources)
}

// Find returns the source with the given name.
func (r *Registry) Find(name string) (Source, bool) {
	for _, s := range r.sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// Group returns the sources declared under one group.
func (r *Registry) Group(name string) []Source {
	var group []Source
	for _, s := range r.sources {
		if s.Group == name {
			group = append(group, s)
		}
	}
	return group
}
