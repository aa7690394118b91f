package htmlfix

import (
	"fmt"
	"os"
	"strings"

	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/antchfx/htmlquery"
)

// AttributeReport counts the values of one attribute across a tag's elements.
type AttributeReport struct {
	Name            string `json:"name"`
	Present         int    `json:"present"`
	Empty           int    `json:"empty"`
	Valid           int    `json:"valid"`
	NeedsCompaction int    `json:"needs_compaction"`
	Invalid         int    `json:"invalid"`
}

// TagReport describes one target tag in a checked document.
type TagReport struct {
	Tag        string            `json:"tag"`
	Elements   int               `json:"elements"`
	Attributes []AttributeReport `json:"attributes"`
}

// CheckReport is the read-only analysis of one document.
type CheckReport struct {
	Path string      `json:"path"`
	Tags []TagReport `json:"tags"`
}

// Clean reports whether no attribute needs compaction or is invalid.
func (r *CheckReport) Clean() bool {
	for _, tag := range r.Tags {
		for _, attr := range tag.Attributes {
			if attr.NeedsCompaction > 0 || attr.Invalid > 0 {
				return false
			}
		}
	}
	return true
}

// CheckFile runs Check on the document at path.
func (f *Fixer) CheckFile(path string) (*CheckReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", source.ErrInputUnavailable, path, err)
	}
	if !source.IsText(raw) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, path)
	}

	report, err := f.Check(source.ToUTF8(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	report.Path = path
	return report, nil
}

// Check queries every target with XPath and classifies attribute values
// without modifying the document.
func (f *Fixer) Check(text string) (*CheckReport, error) {
	doc, err := htmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	report := &CheckReport{}
	for _, target := range f.targets {
		elements, err := htmlquery.QueryAll(doc, "//"+target.Tag)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", target.Tag, err)
		}
		tr := TagReport{Tag: target.Tag, Elements: len(elements)}

		for _, attr := range target.Attributes {
			nodes, err := htmlquery.QueryAll(doc, fmt.Sprintf("//%s[@%s]", target.Tag, attr))
			if err != nil {
				return nil, fmt.Errorf("query %s[@%s]: %w", target.Tag, attr, err)
			}

			ar := AttributeReport{Name: attr, Present: len(nodes)}
			for _, n := range nodes {
				value := htmlquery.SelectAttr(n, attr)
				if strings.TrimSpace(value) == "" {
					ar.Empty++
					continue
				}
				_, changed, warn := repair(value)
				switch {
				case warn != nil:
					ar.Invalid++
				case changed:
					ar.NeedsCompaction++
				default:
					ar.Valid++
				}
			}
			tr.Attributes = append(tr.Attributes, ar)
		}
		report.Tags = append(report.Tags, tr)
	}
	return report, nil
}
