// Package source loads dump and document files as UTF-8 text.
//
// Files are read whole. Gzip and zstd payloads are detected by content and
// decompressed. ReadFile converts input that is not valid UTF-8 from the
// detected charset; ReadUTF8 rejects it instead.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxInputSize limits decompressed input to 256MB
const MaxInputSize = 256 * 1024 * 1024

// ErrInputUnavailable is returned when the input file is missing or unreadable.
var ErrInputUnavailable = errors.New("input unavailable")

// ErrNotUTF8 is returned by strict reads of input that is not valid UTF-8.
var ErrNotUTF8 = errors.New("input is not valid UTF-8")

// ErrTooLarge is returned when decompressed input exceeds MaxInputSize.
var ErrTooLarge = errors.New("input exceeds maximum size")

// ReadFile reads path and returns its content as UTF-8 text.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInputUnavailable, path, err)
	}

	data, err := Decode(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInputUnavailable, path, err)
	}
	return data, nil
}

// ReadUTF8 reads path and decompresses it like ReadFile, but fails with
// ErrInputUnavailable and ErrNotUTF8 when the content is not valid UTF-8.
// The content is otherwise returned byte for byte, including any byte order
// mark.
func ReadUTF8(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInputUnavailable, path, err)
	}

	data, err := Decompress(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInputUnavailable, path, err)
	}
	if err := ValidateUTF8(data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInputUnavailable, path, err)
	}
	return string(data), nil
}

// ValidateUTF8 returns ErrNotUTF8 with the offset of the first invalid byte.
func ValidateUTF8(data []byte) error {
	if utf8.Valid(data) {
		return nil
	}
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		offset += size
	}
	return fmt.Errorf("%w: invalid byte 0x%02x at offset %d", ErrNotUTF8, data[offset], offset)
}

// Decode decompresses raw when needed and normalises it to UTF-8.
func Decode(raw []byte) (string, error) {
	data, err := Decompress(raw)
	if err != nil {
		return "", err
	}
	return ToUTF8(data), nil
}

// Decompress inflates gzip and zstd payloads and returns anything else as is.
func Decompress(raw []byte) ([]byte, error) {
	mtype := mimetype.Detect(raw)

	switch {
	case mtype.Is("application/gzip"):
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		return readLimited(zr)

	case mtype.Is("application/zstd"):
		zr, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		return readLimited(zr)
	}

	return raw, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if len(data) > MaxInputSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// DetectCharset detects and returns the charset of data
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// ToUTF8 returns data as a string, converting from the detected charset
// when data is not already valid UTF-8. A leading byte order mark is removed.
func ToUTF8(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}

	r, err := charset.NewReader(bytes.NewReader(data), "text/plain; charset="+DetectCharset(data))
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	converted, err := io.ReadAll(r)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return strings.ToValidUTF8(string(converted), "\uFFFD")
}

// IsText reports whether data looks like text rather than a binary format.
func IsText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
