package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/topix-dev/topix/internal/constants"
	"github.com/topix-dev/topix/internal/util"
)

// Header is a single Kafka record header. Order of appearance on the wire
// is preserved in Record.Headers; rendering sorts by key.
type Header struct {
	Key   string
	Value string
}

// SchemaRef points at a registry schema extracted from the record's wire
// format (magic byte 0 + big-endian id). Type is filled in lazily once the
// registry has been consulted.
type SchemaRef struct {
	ID   int
	Type string
}

func (s SchemaRef) String() string {
	if s.Type == "" {
		return fmt.Sprintf("%d", s.ID)
	}
	return fmt.Sprintf("%d - %s", s.ID, s.Type)
}

// Record is one consumed Kafka record plus the query that matched it.
type Record struct {
	Topic       string
	Partition   int32
	Offset      int64
	Timestamp   time.Time
	Key         []byte
	Value       []byte
	Headers     []Header
	KeySchema   *SchemaRef
	ValueSchema *SchemaRef
	Query       string
}

func (r Record) KeyString() string {
	return bytesToDisplayString(r.Key)
}

func (r Record) ValueString() string {
	return bytesToDisplayString(r.Value)
}

// Size is the payload size in bytes, the same notion of size the query
// language's `size` variable exposes.
func (r Record) Size() int {
	return len(r.Key) + len(r.Value)
}

func (r Record) HasSchemas() bool {
	return r.KeySchema != nil || r.ValueSchema != nil
}

// SortedHeaders returns the headers ordered by key for stable rendering.
func (r Record) SortedHeaders() []Header {
	sorted := make([]Header, len(r.Headers))
	copy(sorted, r.Headers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return sorted
}

// Render is the one-line representation in the records panel.
func (r Record) Render() string {
	ts := r.Timestamp.Local().Format("15:04:05.000")
	value := util.Truncate(oneLine(r.ValueString()), constants.ValuePreviewMaxWidth)
	return fmt.Sprintf("%s  %s/%d@%d  %s  %s", ts, r.Topic, r.Partition, r.Offset, oneLine(r.KeyString()), value)
}

func (r Record) Equals(other interface{}) bool {
	otherRecord, ok := other.(Record)
	if !ok {
		return false
	}
	return r.Topic == otherRecord.Topic &&
		r.Partition == otherRecord.Partition &&
		r.Offset == otherRecord.Offset
}

// ExportedRecord is the JSON shape written by the exporter and put on the
// clipboard. It deliberately carries the query that matched the record so
// an export file can be traced back to the search that produced it.
type ExportedRecord struct {
	Topic         string            `json:"topic"`
	Partition     int32             `json:"partition"`
	Offset        int64             `json:"offset"`
	TimestampMs   int64             `json:"timestamp_ms"`
	Datetime      string            `json:"datetime"`
	Size          int               `json:"size"`
	Headers       map[string]string `json:"headers,omitempty"`
	Key           string            `json:"key"`
	Value         json.RawMessage   `json:"value"`
	KeySchemaID   *int              `json:"key_schema_id,omitempty"`
	ValueSchemaID *int              `json:"value_schema_id,omitempty"`
	SearchQuery   string            `json:"search_query,omitempty"`
}

func NewExportedRecord(r Record) ExportedRecord {
	e := ExportedRecord{
		Topic:       r.Topic,
		Partition:   r.Partition,
		Offset:      r.Offset,
		TimestampMs: r.Timestamp.UnixMilli(),
		Datetime:    r.Timestamp.UTC().Format(time.RFC3339Nano),
		Size:        r.Size(),
		Key:         r.KeyString(),
		SearchQuery: r.Query,
	}
	if len(r.Headers) > 0 {
		e.Headers = make(map[string]string, len(r.Headers))
		for _, h := range r.Headers {
			e.Headers[h.Key] = h.Value
		}
	}
	if json.Valid(r.Value) && len(r.Value) > 0 {
		e.Value = json.RawMessage(r.Value)
	} else {
		marshaled, err := json.Marshal(r.ValueString())
		if err != nil {
			marshaled = []byte(`""`)
		}
		e.Value = marshaled
	}
	if r.KeySchema != nil {
		id := r.KeySchema.ID
		e.KeySchemaID = &id
	}
	if r.ValueSchema != nil {
		id := r.ValueSchema.ID
		e.ValueSchemaID = &id
	}
	return e
}

func bytesToDisplayString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return fmt.Sprintf("<%d bytes of binary data>", len(b))
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}
