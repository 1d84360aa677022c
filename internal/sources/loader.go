package sources

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSources indicates no usable sources were found in the registry.
	ErrNoSources = errors.New("no sources found in registry")
	// ErrMissingRequiredField indicates a required source field is missing.
	ErrMissingRequiredField = errors.New("missing required field")
)

// knownGroups fixes the iteration order of the registry sections.
var knownGroups = []string{GroupMajorNews, GroupBroadcasting, GroupOnlineNews}

// registryFile is the on-disk structure of sources.yml.
type registryFile struct {
	Sources map[string][]map[string]any `yaml:"sources"`
}

// Loader reads a registry file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given registry path.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{path: path}
}

// Load reads, decodes, and validates the registry. Sources that fail
// validation are skipped; a registry with no usable source is an error.
func (l *Loader) Load() (*Registry, error) {
	raw, err := l.loadRaw()
	if err != nil {
		return nil, err
	}

	registry := &Registry{}
	for _, group := range groupOrder(raw.Sources) {
		for _, entry := range raw.Sources[group] {
			src, convertErr := convertSource(entry)
			if convertErr != nil {
				continue
			}
			if validateErr := validateSource(&src); validateErr != nil {
				continue
			}
			src.Group = group
			registry.sources = append(registry.sources, src)
		}
	}

	if registry.Len() == 0 {
		return nil, ErrNoSources
	}
	return registry, nil
}

func (l *Loader) loadRaw() (*registryFile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &registryFile{}, nil
		}
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry yaml: %w", err)
	}
	return &file, nil
}

// groupOrder returns the known groups first, then any extra groups sorted
// by name.
func groupOrder(groups map[string][]map[string]any) []string {
	order := make([]string, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, g := range knownGroups {
		if _, ok := groups[g]; ok {
			order = append(order, g)
			seen[g] = struct{}{}
		}
	}

	var extra []string
	for g := range groups {
		if _, ok := seen[g]; !ok {
			extra = append(extra, g)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

func convertSource(entry map[string]any) (Source, error) {
	var src Source
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &src,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return Source{}, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(entry); err != nil {
		return Source{}, fmt.Errorf("decode source: %w", err)
	}
	return src, nil
}

func validateSource(src *Source) error {
	if src.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if src.PoliticsURL == "" {
		return fmt.Errorf("%w: politics_url", ErrMissingRequiredField)
	}
	return nil
}
