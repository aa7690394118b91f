package jsdump

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/GriffinCanCode/roomdata/internal/logging"
	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/dop251/goja"
)

// ExportName is the dump's exported entity array.
const ExportName = "ROOM_ENTITY_MAP"

var (
	// ErrNoExport is returned when a dump does not define ExportName.
	ErrNoExport = errors.New("dump does not define " + ExportName)
	// ErrNotArray is returned when ExportName is not an array.
	ErrNotArray = errors.New(ExportName + " is not an array")
)

var (
	mapExportPattern   = regexp.MustCompile(`export\s+const\s+` + ExportName + `\s*=`)
	otherExportPattern = regexp.MustCompile(`(?m)^(\s*)export\s+(const|let|var|function|class)\b`)
)

// project keeps entity_id and attributes of each element. JSON.stringify drops
// keys whose value is undefined.
const project = `JSON.stringify(` + ExportName + `.map(function (e) {
	return { entity_id: e.entity_id, attributes: e.attributes };
}), null, 2)`

// Result is the projected dump.
type Result struct {
	JSON     []byte
	Entities int
}

// Dumper evaluates entity dumps.
type Dumper struct {
	config Config
	log    *logging.Logger
}

// New creates a Dumper. Each dump runs in a fresh Runtime.
func New(config Config, log *logging.Logger) *Dumper {
	if log == nil {
		log = logging.NewNop()
	}
	return &Dumper{config: config, log: log}
}

// DumpFile evaluates the dump at path.
func (d *Dumper) DumpFile(ctx context.Context, path string) (*Result, error) {
	code, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.dump(ctx, filepath.Base(path), code)
}

// Dump evaluates code and returns the entity_id and attributes of every
// element of its entity array as 2-space indented JSON.
func (d *Dumper) Dump(ctx context.Context, code string) (*Result, error) {
	return d.dump(ctx, "dump.js", code)
}

func (d *Dumper) dump(ctx context.Context, name, code string) (*Result, error) {
	rt := NewRuntime(d.config, d.log)

	if _, err := rt.Run(ctx, name, Rewrite(code)); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	value := rt.Global(ExportName)
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, ErrNoExport
	}
	arr, ok := value.(*goja.Object)
	if !ok || arr.ClassName() != "Array" {
		return nil, ErrNotArray
	}

	out, err := rt.Run(ctx, "project.js", project)
	if err != nil {
		return nil, fmt.Errorf("project entities: %w", err)
	}

	return &Result{
		JSON:     append([]byte(out.String()), '\n'),
		Entities: int(arr.Get("length").ToInteger()),
	}, nil
}

// Rewrite turns the module's exports into plain global declarations.
func Rewrite(code string) string {
	code = mapExportPattern.ReplaceAllString(code, "var "+ExportName+" =")
	return otherExportPattern.ReplaceAllString(code, "${1}${2}")
}
