package htmlfix

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/roomdata/internal/logging"
	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// ErrNotHTML is returned for files that are not text.
var ErrNotHTML = errors.New("not an html document")

// previewLen bounds attribute values quoted in warnings.
const previewLen = 100

var documentPattern = regexp.MustCompile(`(?i)<html[\s>]`)

// Warning kinds for attribute values that are not valid JSON.
const (
	WarnEntities = "entities"
	WarnTrimmed  = "trimmed"
	WarnInvalid  = "invalid"
)

// Warning describes an attribute whose value could not be repaired.
type Warning struct {
	Tag       string
	Attribute string
	Kind      string
	Err       error
	Value     string
}

// TagCount is the number of elements found for one target tag.
type TagCount struct {
	Tag      string
	Elements int
}

// Result summarises one fixed document.
type Result struct {
	Path     string
	Tags     []TagCount
	Fixed    int
	Warnings []Warning
	Modified bool
}

// Fixer compacts JSON attribute values in HTML documents.
type Fixer struct {
	targets []Target
	log     *logging.Logger
}

// New creates a Fixer for targets. A nil logger discards output.
func New(targets []Target, log *logging.Logger) *Fixer {
	if len(targets) == 0 {
		targets = DefaultTargets()
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Fixer{targets: targets, log: log}
}

// FixFile fixes the document at path and rewrites it only when an attribute
// changed.
func (f *Fixer) FixFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", source.ErrInputUnavailable, path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", source.ErrInputUnavailable, path, err)
	}
	if !source.IsText(raw) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, path)
	}

	log := f.log.WithFields(zap.String("path", path))
	log.Info("Processing document")

	out, res, err := f.fix(source.ToUTF8(raw), log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path

	if !res.Modified {
		log.Info("No JSON attributes needed fixing")
		return res, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	log.Info("Updated JSON attributes", zap.Int("fixed", res.Fixed))
	return res, nil
}

// Fix returns the repaired document text. The text is returned unchanged
// when nothing needed fixing.
func (f *Fixer) Fix(text string) (string, *Result, error) {
	return f.fix(text, f.log)
}

func (f *Fixer) fix(text string, log *logging.Logger) (string, *Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	res := &Result{}
	for _, target := range f.targets {
		elements := doc.Find(target.Tag)
		res.Tags = append(res.Tags, TagCount{Tag: target.Tag, Elements: elements.Length()})
		log.Debug("Found elements", zap.String("tag", target.Tag), zap.Int("count", elements.Length()))

		elements.Each(func(_ int, s *goquery.Selection) {
			for _, attr := range target.Attributes {
				value, ok := s.Attr(attr)
				if !ok {
					continue
				}
				fixed, changed, warn := repair(value)
				if warn != nil {
					warn.Tag, warn.Attribute = target.Tag, attr
					res.Warnings = append(res.Warnings, *warn)
					logWarning(log, *warn)
					continue
				}
				if changed {
					log.Debug("Updating attribute", zap.String("tag", target.Tag), zap.String("attribute", attr))
					s.SetAttr(attr, fixed)
					res.Fixed++
					res.Modified = true
				}
			}
		})
	}

	if !res.Modified {
		return text, res, nil
	}
	out, err := render(doc, text)
	if err != nil {
		return "", nil, err
	}
	return out, res, nil
}

// repair trims and compacts one attribute value. Empty values are skipped.
func repair(value string) (string, bool, *Warning) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value, false, nil
	}

	compact, err := compactJSON(trimmed)
	if err != nil {
		return value, false, &Warning{Kind: warningKind(value, trimmed), Err: err, Value: trimmed}
	}
	if compact == trimmed {
		return value, false, nil
	}
	return compact, true, nil
}

// compactAPI compacts json.Marshaler output, which validates it on the way.
var compactAPI = sonic.Config{CompactMarshaler: true}.Froze()

// compactJSON removes insignificant whitespace keeping key order and number
// literals as written.
func compactJSON(s string) (string, error) {
	return compactAPI.MarshalToString(json.RawMessage(s))
}

func warningKind(original, trimmed string) string {
	switch {
	case strings.Contains(original, "&apos;") || strings.Contains(original, "&quot;"):
		return WarnEntities
	case trimmed != original:
		return WarnTrimmed
	default:
		return WarnInvalid
	}
}

func logWarning(log *logging.Logger, w Warning) {
	fields := []zap.Field{
		zap.String("tag", w.Tag),
		zap.String("attribute", w.Attribute),
		zap.String("value", preview(w.Value)),
		zap.Error(w.Err),
	}
	switch w.Kind {
	case WarnEntities:
		log.Warn("Invalid JSON; value still contains HTML entities", fields...)
	case WarnTrimmed:
		log.Warn("Invalid JSON after trimming; check syntax", fields...)
	default:
		log.Warn("Invalid JSON; could not fix automatically", fields...)
	}
}

func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	return s[:previewLen] + "..."
}

// render serialises doc. Fragments without an <html> element are written
// back without the wrapper elements the parser adds.
func render(doc *goquery.Document, original string) (string, error) {
	if documentPattern.MatchString(original) {
		out, err := doc.Html()
		if err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
		return out, nil
	}

	head, err := doc.Find("head").Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return head + body, nil
}
