package jsdump

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModule = `// generated
export const ROOM_ENTITY_MAP = [
  {
    entity_id: "sensor.room_101_temperature",
    state: "21.5",
    attributes: { unit_of_measurement: "°C", friendly_name: "Room 101 Temperature" },
  },
  {
    entity_id: "binary_sensor.room_101_door",
    state: "off",
  },
];
`

func TestDump(t *testing.T) {
	res, err := New(DefaultConfig(), nil).Dump(context.Background(), sampleModule)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Entities)
	assert.Equal(t, `[
  {
    "entity_id": "sensor.room_101_temperature",
    "attributes": {
      "unit_of_measurement": "°C",
      "friendly_name": "Room 101 Temperature"
    }
  },
  {
    "entity_id": "binary_sensor.room_101_door"
  }
]
`, string(res.JSON))
}

func TestDumpEmptyArray(t *testing.T) {
	res, err := New(DefaultConfig(), nil).Dump(context.Background(), "export const ROOM_ENTITY_MAP = [];")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Entities)
	assert.Equal(t, "[]\n", string(res.JSON))
}

func TestDumpErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"no export", "const other = 1;", ErrNoExport},
		{"not an array", "export const ROOM_ENTITY_MAP = { a: 1 };", ErrNotArray},
		{"null", "export const ROOM_ENTITY_MAP = null;", ErrNoExport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultConfig(), nil).Dump(context.Background(), tt.code)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDumpSyntaxError(t *testing.T) {
	_, err := New(DefaultConfig(), nil).Dump(context.Background(), "export const ROOM_ENTITY_MAP = [")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluate")
}

func TestDumpHostGlobalsRemoved(t *testing.T) {
	for _, code := range []string{
		"require('fs'); export const ROOM_ENTITY_MAP = [];",
		"process.exit(1); export const ROOM_ENTITY_MAP = [];",
		"module.exports = []; export const ROOM_ENTITY_MAP = [];",
	} {
		_, err := New(DefaultConfig(), nil).Dump(context.Background(), code)
		assert.Error(t, err, code)
	}
}

func TestDumpTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond

	_, err := New(cfg, nil).Dump(context.Background(), "while (true) {}")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDumpCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(DefaultConfig(), nil).Dump(ctx, "while (true) {}")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDumpConsoleAllowed(t *testing.T) {
	res, err := New(DefaultConfig(), nil).Dump(context.Background(),
		`console.log("loading"); export const ROOM_ENTITY_MAP = [{ entity_id: "light.desk" }];`)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Entities)
}

func TestRewrite(t *testing.T) {
	assert.Equal(t, "var ROOM_ENTITY_MAP = [];", Rewrite("export const ROOM_ENTITY_MAP = [];"))
	assert.Equal(t, "var ROOM_ENTITY_MAP = [];", Rewrite("export  const\tROOM_ENTITY_MAP= [];"))
	assert.Equal(t, "const LEVELS = [1];\n  function f() {}", Rewrite("export const LEVELS = [1];\n  export function f() {}"))
}

func TestDumpFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mockup-Room_entity_data.js")
	require.NoError(t, os.WriteFile(path, []byte(sampleModule), 0o644))

	res, err := New(DefaultConfig(), nil).DumpFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Entities)

	_, err = New(DefaultConfig(), nil).DumpFile(context.Background(), filepath.Join(dir, "missing.js"))
	assert.ErrorIs(t, err, source.ErrInputUnavailable)
}
