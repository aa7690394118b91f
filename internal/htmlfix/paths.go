package htmlfix

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// htmlExtensions are collected when walking a directory argument.
var htmlExtensions = map[string]bool{".html": true, ".htm": true}

// ExpandPaths resolves file, directory and doublestar glob arguments to a
// sorted list of files without duplicates.
func ExpandPaths(ctx context.Context, args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(paths ...string) {
		for _, p := range paths {
			p = filepath.Clean(p)
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}

	for _, arg := range args {
		if isGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: no files match %q", source.ErrInputUnavailable, arg)
			}
			add(matches...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", source.ErrInputUnavailable, arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		files, err := walkHTML(ctx, arg)
		if err != nil {
			return nil, err
		}
		add(files...)
	}

	sort.Strings(out)
	return out, nil
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// walkHTML collects .html and .htm files under root. fastwalk calls the
// callback from several goroutines.
func walkHTML(ctx context.Context, root string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}
		if htmlExtensions[strings.ToLower(filepath.Ext(p))] {
			mu.Lock()
			files = append(files, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
