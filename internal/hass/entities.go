package hass

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
)

// MaxPatterns caps the naming pattern report.
const MaxPatterns = 20

// DefaultPatternPrefix selects entities for the naming report when no
// filter is given.
const DefaultPatternPrefix = "sensor"

// Entity is one Home Assistant state object.
type Entity struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Domain returns the part of the entity id before the first dot.
func (e Entity) Domain() string {
	domain, _, _ := strings.Cut(e.EntityID, ".")
	return domain
}

// FriendlyName returns the friendly_name attribute, or "" when unset.
func (e Entity) FriendlyName() string {
	name, _ := e.Attributes["friendly_name"].(string)
	return name
}

// LocationClue returns the id parts between the first and the last
// underscore, or "" when the id has fewer than two underscores.
func (e Entity) LocationClue() string {
	parts := strings.Split(e.EntityID, "_")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[1:len(parts)-1], "_")
}

// DomainGroup is the entities of one domain in response order.
type DomainGroup struct {
	Domain   string
	Entities []Entity
}

// Summary lists the entity ids of small groups in full and abbreviates
// larger ones to the first three.
func (g DomainGroup) Summary() string {
	ids := make([]string, 0, len(g.Entities))
	for _, e := range g.Entities {
		ids = append(ids, e.EntityID)
	}
	if len(ids) <= 5 {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s, ... (+%d)", strings.Join(ids[:3], ", "), len(ids)-3)
}

// GroupByDomain groups entities by domain in first-seen order.
func GroupByDomain(entities []Entity) []DomainGroup {
	index := make(map[string]int)
	var groups []DomainGroup
	for _, e := range entities {
		domain := e.Domain()
		i, ok := index[domain]
		if !ok {
			i = len(groups)
			index[domain] = i
			groups = append(groups, DomainGroup{Domain: domain})
		}
		groups[i].Entities = append(groups[i].Entities, e)
	}
	return groups
}

// Pattern is a location clue and how many entities carry it.
type Pattern struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// NamingPatterns counts location clues of entities whose id starts with
// prefix (DefaultPatternPrefix when empty). It returns the MaxPatterns most
// frequent clues; ties keep first-seen order.
func NamingPatterns(entities []Entity, prefix string) []Pattern {
	if prefix == "" {
		prefix = DefaultPatternPrefix
	}

	index := make(map[string]int)
	var patterns []Pattern
	for _, e := range entities {
		if !strings.HasPrefix(e.EntityID, prefix) {
			continue
		}
		clue := e.LocationClue()
		if clue == "" {
			continue
		}
		if i, ok := index[clue]; ok {
			patterns[i].Count++
			continue
		}
		index[clue] = len(patterns)
		patterns = append(patterns, Pattern{Pattern: clue, Count: 1})
	}

	slices.SortStableFunc(patterns, func(a, b Pattern) int { return b.Count - a.Count })
	if len(patterns) > MaxPatterns {
		patterns = patterns[:MaxPatterns]
	}
	return patterns
}

// Location is a known place entities may belong to.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Confidence levels of a location match.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// Match links an entity to a location.
type Match struct {
	EntityID     string `json:"entityId"`
	FriendlyName string `json:"friendlyName"`
	State        string `json:"state"`
	Domain       string `json:"domain"`
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Confidence   string `json:"confidence"`
}

// LoadLocations reads a JSON array of {id, name} objects.
func LoadLocations(path string) ([]Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	var locations []Location
	if err := sonic.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse locations %s: %w", path, err)
	}
	return locations, nil
}

// MatchLocations matches every entity against every location. An entity id
// containing the location id is a high confidence match; a friendly name
// containing the location name, ignoring case, is a medium one. An entity
// may match several locations.
func MatchLocations(entities []Entity, locations []Location) []Match {
	matches := []Match{}
	for _, e := range entities {
		name := e.FriendlyName()
		lowerName := strings.ToLower(name)

		for _, loc := range locations {
			byID := loc.ID != "" && strings.Contains(e.EntityID, loc.ID)
			byName := loc.Name != "" && name != "" && strings.Contains(lowerName, strings.ToLower(loc.Name))
			if !byID && !byName {
				continue
			}

			m := Match{
				EntityID:     e.EntityID,
				FriendlyName: name,
				State:        e.State,
				Domain:       e.Domain(),
				LocationID:   loc.ID,
				LocationName: loc.Name,
				Confidence:   ConfidenceMedium,
			}
			if m.FriendlyName == "" {
				m.FriendlyName = e.EntityID
			}
			if byID {
				m.Confidence = ConfidenceHigh
			}
			matches = append(matches, m)
		}
	}
	return matches
}

// MatchedEntities counts the distinct entities in matches. An entity that
// matches several locations is counted once.
func MatchedEntities(matches []Match) int {
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[m.EntityID] = struct{}{}
	}
	return len(seen)
}

var writeAPI = sonic.Config{EscapeHTML: false}.Froze()

// WriteJSON writes v to path as 2-space indented JSON.
func WriteJSON(path string, v any) error {
	data, err := writeAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
