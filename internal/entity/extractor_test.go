package entity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestExtractScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "single record",
			input: "entity_id: \"sensor.temp\"\nattributes: {\n  id: \"123\"\n  friendly_name: \"Temp Sensor\"\n}\n},\n",
			want: []Record{
				{EntityID: "sensor.temp", ID: str("123"), FriendlyName: str("Temp Sensor")},
			},
		},
		{
			name:  "unterminated record dropped",
			input: "entity_id: \"sensor.temp\"\nattributes: {\n  id: \"123\"\n}\n",
			want:  []Record{},
		},
		{
			name: "two records in order",
			input: `  {
    entity_id: "light.desk",
    state: "on",
    attributes: {
      friendly_name: "Desk Lamp",
    },
  },
  {
    entity_id: "sensor.co2",
    attributes: {
      id: "co2-1",
    },
  }
`,
			want: []Record{
				{EntityID: "light.desk", FriendlyName: str("Desk Lamp")},
				{EntityID: "sensor.co2", ID: str("co2-1")},
			},
		},
		{
			name:  "record without attributes block",
			input: "entity_id : \"person.anna\"\nstate: \"home\"\n}\n",
			want:  []Record{{EntityID: "person.anna"}},
		},
		{
			name:  "colon spacing variants",
			input: "entity_id:\"a.b\"\nattributes: {\nid :   \"x\"\nfriendly_name\t:\"Y\"\n}\n}\n",
			want:  []Record{{EntityID: "a.b", ID: str("x"), FriendlyName: str("Y")}},
		},
		{
			name:  "empty value does not anchor",
			input: "entity_id: \"\"\n}\n",
			want:  []Record{},
		},
		{
			name:  "non-ascii preserved",
			input: "entity_id: \"sensor.salle\"\nattributes: {\nfriendly_name: \"Salle à manger\"\n}\n},\n",
			want:  []Record{{EntityID: "sensor.salle", FriendlyName: str("Salle à manger")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstMatchWins(t *testing.T) {
	input := `entity_id: "sensor.a"
attributes: {
  id: "first"
  friendly_name: "First Name"
  id: "second"
  friendly_name: "Second Name"
}
},
`
	got, _ := ExtractString(input)
	require.Len(t, got, 1)
	assert.Equal(t, "first", *got[0].ID)
	assert.Equal(t, "First Name", *got[0].FriendlyName)
}

func TestNestedAttributesBlock(t *testing.T) {
	input := `entity_id: "sensor.nested"
attributes: {
  device: {
    id: "inner-id"
    friendly_name: "Inner Name"
  }
  unit: "C"
}
},
`
	got, stats := ExtractString(input)
	require.Len(t, got, 1)
	assert.Equal(t, "inner-id", *got[0].ID)
	assert.Equal(t, "Inner Name", *got[0].FriendlyName)
	assert.Equal(t, 1, stats.RecordsEmitted)
	assert.Equal(t, 0, stats.RecordsDropped)
}

func TestClosingBraceInsideAttributesDoesNotEndRecord(t *testing.T) {
	input := `entity_id: "sensor.a"
attributes: {
  device: {
  },
  friendly_name: "Still Inside"
}
},
`
	got, _ := ExtractString(input)
	require.Len(t, got, 1)
	assert.Equal(t, "Still Inside", *got[0].FriendlyName)
}

func TestUnclosedAttributesDropsRecord(t *testing.T) {
	input := `entity_id: "sensor.a"
attributes: {
  nested: {
  id: "1"
}
},
`
	got, stats := ExtractString(input)
	assert.Empty(t, got)
	assert.Equal(t, 1, stats.AnchorsSeen)
	assert.Equal(t, 1, stats.RecordsDropped)
}

// An opening brace on the line after "attributes" is counted on top of the
// implicit one, so the record's own closing line is consumed by the block.
func TestAttributesBraceOnNextLine(t *testing.T) {
	input := `entity_id: "sensor.a"
attributes:
{
  id: "x"
}
},
`
	got, stats := ExtractString(input)
	assert.Empty(t, got)
	assert.Equal(t, 1, stats.RecordsDropped)
}

func TestEntityIDWhileCollectingIsIgnored(t *testing.T) {
	input := `entity_id: "sensor.outer"
entity_id: "sensor.ignored"
},
`
	got, stats := ExtractString(input)
	require.Len(t, got, 1)
	assert.Equal(t, "sensor.outer", got[0].EntityID)
	assert.Equal(t, 1, stats.AnchorsSeen)
}

func TestIDPatternIsAnchored(t *testing.T) {
	input := `entity_id: "sensor.a"
attributes: {
  device_id: "not-this"
  identifiers: "nor-this"
  id: "this"
}
}
`
	got, _ := ExtractString(input)
	require.Len(t, got, 1)
	assert.Equal(t, "this", *got[0].ID)
}

func TestRecordCountBoundedByAnchors(t *testing.T) {
	input := strings.Repeat("entity_id: \"x.y\"\n},\n", 5) + "entity_id: \"x.z\"\n"
	got, stats := ExtractString(input)
	assert.Len(t, got, 5)
	assert.Equal(t, 6, stats.AnchorsSeen)
	assert.LessOrEqual(t, len(got), stats.AnchorsSeen)
}

func TestIdempotent(t *testing.T) {
	input := "entity_id: \"a.b\"\nattributes: {\nid: \"1\"\n}\n}\nentity_id: \"c.d\"\n},\n"
	first, _ := ExtractString(input)
	second, _ := ExtractString(input)
	assert.Equal(t, first, second)
}

func TestCRLFInput(t *testing.T) {
	input := "entity_id: \"a.b\"\r\nattributes: {\r\nfriendly_name: \"AB\"\r\n}\r\n},\r\n"
	got, _ := ExtractString(input)
	require.Len(t, got, 1)
	assert.Equal(t, "AB", *got[0].FriendlyName)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	require.NoError(t, os.WriteFile(path, []byte("entity_id: \"a.b\"\n},\n"), 0o644))

	got, stats, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Record{{EntityID: "a.b"}}, got)
	assert.Equal(t, 2, stats.LinesScanned)

	_, _, err = ExtractFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, source.ErrInputUnavailable)
}

func TestExtractFileRejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.json")
	require.NoError(t, os.WriteFile(path, []byte("entity_id: \"sensor.caf\xe9\"\n},\n"), 0o644))

	got, stats, err := ExtractFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrInputUnavailable)
	assert.ErrorIs(t, err, source.ErrNotUTF8)
	assert.Nil(t, got)
	assert.Zero(t, stats)
}

func TestExtractRejectsInvalidUTF8(t *testing.T) {
	_, err := Extract(strings.NewReader("entity_id: \"a\xff\"\n}\n"))
	assert.ErrorIs(t, err, source.ErrNotUTF8)
}

func TestExtractFileKeepsByteOrderMark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.json")
	content := "\xef\xbb\xbfentity_id: \"a.first\"\n},\nentity_id: \"a.second\"\n},\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, _, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Record{{EntityID: "a.second"}}, got)
}

func TestUnicodeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "information separator trimmed",
			input: "\x1centity_id: \"a.b\"\n},\x1f\n",
			want:  []Record{{EntityID: "a.b"}},
		},
		{
			name:  "nbsp before colon",
			input: "entity_id\u00a0: \"e.f\"\n}\n",
			want:  []Record{{EntityID: "e.f"}},
		},
		{
			name:  "ideographic space inside attributes",
			input: "entity_id: \"a.b\"\nattributes: {\n\u3000id\u3000:\u2003\"x\"\nfriendly_name:\v\"Y\"\n}\n}\n",
			want:  []Record{{EntityID: "a.b", ID: str("x"), FriendlyName: str("Y")}},
		},
		{
			name:  "zero width space is not whitespace",
			input: "\u200bentity_id: \"a.b\"\n}\n",
			want:  []Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ExtractString(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalRecords(t *testing.T) {
	out, err := MarshalRecords([]Record{
		{EntityID: "sensor.temp", ID: str("123"), FriendlyName: str("Temp <Sensor> é")},
		{EntityID: "light.x"},
	})
	require.NoError(t, err)

	want := `[
  {
    "entity_id": "sensor.temp",
    "id": "123",
    "friendly_name": "Temp <Sensor> é"
  },
  {
    "entity_id": "light.x",
    "id": null,
    "friendly_name": null
  }
]
`
	assert.Equal(t, want, string(out))
}

func TestMarshalRecordsEmpty(t *testing.T) {
	out, err := MarshalRecords(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", stateIdle.String())
	assert.Equal(t, "collecting", stateCollecting.String())
	assert.Equal(t, "collecting-in-attrs", stateInAttrs.String())
}
