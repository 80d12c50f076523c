package model

import (
	"bytes"
	"encoding/json"
)

// SchemaDetail is one resolved registry schema (key or value side).
type SchemaDetail struct {
	ID      int    `json:"id"`
	Subject string `json:"subject"`
	URL     string `json:"url"`
	Type    string `json:"type"`
	Schema  string `json:"schema"`
}

// PrettySchema returns the schema content pretty-printed when it is JSON
// (AVRO and JSON schemas are), verbatim otherwise (PROTOBUF).
func (s SchemaDetail) PrettySchema() string {
	if !json.Valid([]byte(s.Schema)) {
		return s.Schema
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s.Schema), "", "  "); err != nil {
		return s.Schema
	}
	return buf.String()
}

// ExportedSchemas is the JSON shape copied to the clipboard from the
// schemas panel.
type ExportedSchemas struct {
	Key   *SchemaDetail `json:"key,omitempty"`
	Value *SchemaDetail `json:"value,omitempty"`
}
