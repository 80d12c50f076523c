package model

import (
	"encoding/json"
	"testing"
	"time"
)

func sampleRecord() Record {
	return Record{
		Topic:     "orders",
		Partition: 2,
		Offset:    41,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Key:       []byte("order-7"),
		Value:     []byte(`{"hello":"world"}`),
		Headers: []Header{
			{Key: "z-last", Value: "1"},
			{Key: "a-first", Value: "2"},
		},
		ValueSchema: &SchemaRef{ID: 7, Type: "AVRO"},
		Query:       "from begin",
	}
}

func TestSortedHeaders(t *testing.T) {
	r := sampleRecord()
	sorted := r.SortedHeaders()
	if sorted[0].Key != "a-first" || sorted[1].Key != "z-last" {
		t.Errorf("headers not sorted by key: %+v", sorted)
	}
	// wire order stays untouched
	if r.Headers[0].Key != "z-last" {
		t.Errorf("original header order mutated: %+v", r.Headers)
	}
}

func TestSchemaRefString(t *testing.T) {
	if got := (SchemaRef{ID: 7}).String(); got != "7" {
		t.Errorf("got %q, want %q", got, "7")
	}
	if got := (SchemaRef{ID: 7, Type: "AVRO"}).String(); got != "7 - AVRO" {
		t.Errorf("got %q, want %q", got, "7 - AVRO")
	}
}

func TestKeyValueStringBinary(t *testing.T) {
	r := Record{Key: []byte{0xff, 0xfe, 0x01}}
	if got := r.KeyString(); got != "<3 bytes of binary data>" {
		t.Errorf("got %q", got)
	}
	if got := (Record{}).ValueString(); got != "" {
		t.Errorf("empty value should render empty, got %q", got)
	}
}

func TestEquals(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.Key = []byte("different key, same coordinates")
	if !a.Equals(b) {
		t.Error("records at the same topic/partition/offset should be equal")
	}
	b.Offset = 42
	if a.Equals(b) {
		t.Error("different offsets should not be equal")
	}
	if a.Equals("not a record") {
		t.Error("other types should not be equal")
	}
}

func TestNewExportedRecord(t *testing.T) {
	e := NewExportedRecord(sampleRecord())
	if e.Topic != "orders" || e.Partition != 2 || e.Offset != 41 {
		t.Errorf("coordinates wrong: %+v", e)
	}
	if e.TimestampMs != 1748779200000 {
		t.Errorf("got timestamp_ms %d", e.TimestampMs)
	}
	if e.Datetime != "2025-06-01T12:00:00Z" {
		t.Errorf("got datetime %q", e.Datetime)
	}
	if e.Headers["a-first"] != "2" || e.Headers["z-last"] != "1" {
		t.Errorf("got headers %v", e.Headers)
	}
	if e.ValueSchemaID == nil || *e.ValueSchemaID != 7 {
		t.Errorf("got value schema id %v", e.ValueSchemaID)
	}
	if e.KeySchemaID != nil {
		t.Errorf("key schema id should be absent, got %v", e.KeySchemaID)
	}
	if e.SearchQuery != "from begin" {
		t.Errorf("got query %q", e.SearchQuery)
	}

	// json values embed raw, everything else re-marshals as a string
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, ok := decoded["value"].(map[string]interface{})
	if !ok || value["hello"] != "world" {
		t.Errorf("json value should embed as an object, got %v", decoded["value"])
	}

	r := sampleRecord()
	r.Value = []byte("plain text")
	e = NewExportedRecord(r)
	if string(e.Value) != `"plain text"` {
		t.Errorf("non-json value should marshal as a string, got %s", e.Value)
	}
}
