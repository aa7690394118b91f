package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = "entity_id: \"sensor.temp\"\nattributes: {\n  friendly_name: \"Température\"\n}\n},\n"

func TestReadFilePlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDump, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputUnavailable)
}

func TestReadFileGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleDump))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "dump.json.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDump, got)
}

func TestDecompressZstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(sampleDump), nil)
	require.NoError(t, enc.Close())

	got, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, sampleDump, string(got))
}

func TestDecompressPassthrough(t *testing.T) {
	got, err := Decompress([]byte(sampleDump))
	require.NoError(t, err)
	assert.Equal(t, sampleDump, string(got))
}

func TestToUTF8(t *testing.T) {
	t.Run("valid utf-8 untouched", func(t *testing.T) {
		assert.Equal(t, "Café", ToUTF8([]byte("Café")))
	})

	t.Run("bom removed", func(t *testing.T) {
		assert.Equal(t, "abc", ToUTF8([]byte("\xef\xbb\xbfabc")))
	})

	t.Run("invalid input becomes valid", func(t *testing.T) {
		got := ToUTF8([]byte("friendly_name: \"Caf\xe9 Sensor in the main hall\"\n"))
		assert.True(t, utf8.ValidString(got))
		assert.Contains(t, got, "friendly_name")
	})
}

func TestReadUTF8(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid content returned as is", func(t *testing.T) {
		path := filepath.Join(dir, "bom.json")
		content := "\xef\xbb\xbf" + sampleDump
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		got, err := ReadUTF8(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("gzip decoded", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(sampleDump))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		path := filepath.Join(dir, "dump.json.gz")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		got, err := ReadUTF8(path)
		require.NoError(t, err)
		assert.Equal(t, sampleDump, got)
	})

	t.Run("latin-1 rejected", func(t *testing.T) {
		path := filepath.Join(dir, "latin1.json")
		require.NoError(t, os.WriteFile(path, []byte("entity_id: \"sensor.caf\xe9\"\n"), 0o644))

		got, err := ReadUTF8(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInputUnavailable)
		assert.ErrorIs(t, err, ErrNotUTF8)
		assert.Contains(t, err.Error(), "0xe9 at offset 22")
		assert.Empty(t, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadUTF8(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, ErrInputUnavailable)
		assert.NotErrorIs(t, err, ErrNotUTF8)
	})
}

func TestValidateUTF8(t *testing.T) {
	assert.NoError(t, ValidateUTF8([]byte("Café \u3000")))
	assert.NoError(t, ValidateUTF8(nil))

	err := ValidateUTF8([]byte("ab\xc3"))
	assert.ErrorIs(t, err, ErrNotUTF8)
	assert.Contains(t, err.Error(), "0xc3 at offset 2")
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText([]byte("<html><body>hi</body></html>")))
	assert.True(t, IsText([]byte(sampleDump)))
	assert.False(t, IsText([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}))
}
