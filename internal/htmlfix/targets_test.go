package htmlfix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargets(t *testing.T) {
	dir := t.TempDir()
	want := []Target{
		{Tag: "floor-plan", Attributes: []string{"rooms"}},
		{Tag: "room-card", Attributes: []string{"sensors", "layout"}},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "targets.yaml", "room-card: [sensors, layout]\nfloor-plan: [rooms]\n"},
		{"yml", "targets.yml", "room-card:\n  - sensors\n  - layout\nfloor-plan:\n  - rooms\n"},
		{"toml", "targets.toml", "room-card = [\"sensors\", \"layout\"]\nfloor-plan = [\"rooms\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadTargets(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadTargetsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTargets(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadTargets(writeFile(t, dir, "targets.json", `{}`))
	assert.ErrorContains(t, err, "unsupported targets format")

	_, err = LoadTargets(writeFile(t, dir, "empty.yaml", "{}\n"))
	assert.ErrorContains(t, err, "no tags")

	_, err = LoadTargets(writeFile(t, dir, "noattrs.toml", "floor-plan = []\n"))
	assert.ErrorContains(t, err, "no attributes")
}

func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets()
	require.Len(t, targets, 4)
	assert.Equal(t, "timeline-event-card", targets[0].Tag)
	assert.Equal(t, []string{"visuals", "key-elements"}, targets[0].Attributes)
}
