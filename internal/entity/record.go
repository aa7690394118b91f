package entity

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Record is one extracted entity.
type Record struct {
	EntityID     string  `json:"entity_id"`
	ID           *string `json:"id"`
	FriendlyName *string `json:"friendly_name"`
}

// outputAPI keeps non-ASCII and HTML characters literal in the output.
var outputAPI = sonic.Config{
	EscapeHTML:       false,
	SortMapKeys:      false,
	CompactMarshaler: true,
}.Froze()

// MarshalRecords renders records as a 2-space indented JSON array followed by
// a newline. A nil or empty slice renders as [].
func MarshalRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := outputAPI.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(data) + 1)
	buf.Write(data)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func stringPtr(s string) *string {
	return &s
}
