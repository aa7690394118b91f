package entity

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/GriffinCanCode/roomdata/internal/source"
)

// DefaultPath is the dump read when no path is given.
const DefaultPath = "mockup-Room_entity_data.json"

// space is the Unicode whitespace class. RE2's \s only covers ASCII
// [\t\n\f\r ], which would miss separators such as NBSP or U+001C.
const space = `[\s\v\x1c-\x1f\x85\p{Z}]*`

// Anchor patterns match at the start of a trimmed line only.
var (
	entityIDPattern     = anchor("entity_id")
	idPattern           = anchor("id")
	friendlyNamePattern = anchor("friendly_name")
)

func anchor(key string) *regexp.Regexp {
	return regexp.MustCompile(`^` + key + space + `:` + space + `"([^"]+)"`)
}

// isSpace reports whether r is trimmed from line ends. unicode.IsSpace
// leaves out the information separators U+001C to U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// state is the position of the scanner relative to the current record.
type state int

const (
	stateIdle state = iota
	stateCollecting
	stateInAttrs
)

// String returns the string representation of the state
func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateCollecting:
		return "collecting"
	case stateInAttrs:
		return "collecting-in-attrs"
	default:
		return "unknown"
	}
}

// Stats describes a single extraction run.
type Stats struct {
	LinesScanned   int
	AnchorsSeen    int
	RecordsEmitted int
	RecordsDropped int
}

// Extractor is a single forward pass over dump lines. The zero value is
// ready to use; an Extractor is not safe for concurrent use.
type Extractor struct {
	state      state
	braceDepth int
	entry      Record
	records    []Record
	stats      Stats
}

// NewExtractor creates an extractor in the idle state.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Feed advances the state machine by one raw line.
func (e *Extractor) Feed(raw string) {
	e.stats.LinesScanned++
	line := strings.TrimFunc(raw, isSpace)

	switch e.state {
	case stateIdle:
		if !strings.HasPrefix(line, "entity_id") {
			return
		}
		m := entityIDPattern.FindStringSubmatch(line)
		if m == nil {
			return
		}
		e.stats.AnchorsSeen++
		e.entry = Record{EntityID: m[1]}
		e.state = stateCollecting

	case stateCollecting:
		if strings.HasPrefix(line, "attributes") {
			// The opening brace sits on the attributes line itself.
			e.braceDepth = 1
			e.state = stateInAttrs
			return
		}
		if line == "}," || line == "}" {
			e.records = append(e.records, e.entry)
			e.stats.RecordsEmitted++
			e.entry = Record{}
			e.state = stateIdle
		}

	case stateInAttrs:
		e.braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		if e.entry.ID == nil {
			if m := idPattern.FindStringSubmatch(line); m != nil {
				e.entry.ID = stringPtr(m[1])
			}
		}
		if e.entry.FriendlyName == nil {
			if m := friendlyNamePattern.FindStringSubmatch(line); m != nil {
				e.entry.FriendlyName = stringPtr(m[1])
			}
		}
		if e.braceDepth == 0 {
			e.state = stateCollecting
		}
	}
}

// Records returns the completed records in input order. An unterminated
// record in progress is never included.
func (e *Extractor) Records() []Record {
	out := make([]Record, len(e.records))
	copy(out, e.records)
	return out
}

// Stats returns counters for the lines fed so far. A record still in
// progress counts as dropped.
func (e *Extractor) Stats() Stats {
	s := e.stats
	if e.state != stateIdle {
		s.RecordsDropped++
	}
	return s
}

// Extract reads r fully and returns the completed records.
func Extract(r io.Reader) ([]Record, error) {
	records, _, err := ExtractWithStats(r)
	return records, err
}

// ExtractWithStats is Extract plus the run counters.
func ExtractWithStats(r io.Reader) ([]Record, Stats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read input: %w", err)
	}
	if err := source.ValidateUTF8(data); err != nil {
		return nil, Stats{}, err
	}
	records, stats := ExtractString(string(data))
	return records, stats, nil
}

// ExtractString extracts records from an in-memory dump.
func ExtractString(text string) ([]Record, Stats) {
	e := NewExtractor()
	for _, line := range splitLines(text) {
		e.Feed(line)
	}
	return e.Records(), e.Stats()
}

// ExtractFile loads path through the source package and extracts records
// from it. Nothing is returned when the file cannot be read or is not valid
// UTF-8.
func ExtractFile(path string) ([]Record, Stats, error) {
	data, err := source.ReadUTF8(path)
	if err != nil {
		return nil, Stats{}, err
	}
	records, stats := ExtractString(data)
	return records, stats, nil
}

// splitLines splits like a text-mode file read, accepting \n, \r\n and \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
