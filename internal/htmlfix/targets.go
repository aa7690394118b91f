package htmlfix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Target names the attributes of one tag that carry JSON.
type Target struct {
	Tag        string
	Attributes []string
}

// DefaultTargets returns the built-in tag to attribute map.
func DefaultTargets() []Target {
	return []Target{
		{Tag: "timeline-event-card", Attributes: []string{"visuals", "key-elements"}},
		{Tag: "sticky-note", Attributes: []string{"items"}},
		{Tag: "floor-plan", Attributes: []string{"rooms"}},
		{Tag: "tech-diagram", Attributes: []string{"nodes", "connections"}},
	}
}

// LoadTargets reads a tag to attribute list map from a YAML (.yaml, .yml)
// or TOML (.toml) file. Tags are returned in sorted order.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	raw := make(map[string][]string)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported targets format %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse targets %s: %w", path, err)
	}

	return targetsFromMap(raw)
}

func targetsFromMap(raw map[string][]string) ([]Target, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("targets file defines no tags")
	}

	tags := make([]string, 0, len(raw))
	for tag := range raw {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	targets := make([]Target, 0, len(tags))
	for _, tag := range tags {
		attrs := raw[tag]
		if len(attrs) == 0 {
			return nil, fmt.Errorf("tag %q has no attributes", tag)
		}
		targets = append(targets, Target{Tag: strings.ToLower(tag), Attributes: attrs})
	}
	return targets, nil
}
