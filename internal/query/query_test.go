package query

import (
	"testing"
	"time"

	"github.com/topix-dev/topix/internal/model"
)

func record(topic string, partition int32, offset int64, key, value string) model.Record {
	return model.Record{
		Topic:     topic,
		Partition: partition,
		Offset:    offset,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Key:       []byte(key),
		Value:     []byte(value),
	}
}

func TestParseEmpty(t *testing.T) {
	q, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Predicate != nil {
		t.Error("expected no predicate")
	}
	if q.From.Kind != FromEnd {
		t.Errorf("expected FromEnd, got %v", q.From.Kind)
	}
	if !q.Matches(record("orders", 0, 1, "k", "v")) {
		t.Error("empty query should match everything")
	}
}

func TestParsePredicates(t *testing.T) {
	r := record("orders", 2, 41, "order-7", `{"hello":"world","count":3,"nested":{"ok":true}}`)
	for _, tt := range []struct {
		query string
		want  bool
	}{
		{`topic == "orders"`, true},
		{`t == "orders"`, true},
		{`topic != "orders"`, false},
		{`partition == 2`, true},
		{`p > 1 and p < 3`, true},
		{`offset >= 41`, true},
		{`o < 41`, false},
		{`key == "order-7"`, true},
		{`k starts with "order"`, true},
		{`k starts with "invoice"`, false},
		{`value contains "world"`, true},
		{`v ~= "world"`, true},
		{`v ~= "absent"`, false},
		{`value.hello == "world"`, true},
		{`value.count > 2`, true},
		{`value.count >= 4`, false},
		{`value.nested.ok == "true"`, true},
		{`value.missing == "x"`, false},
		{`size > 10`, true},
		{`si > 100000`, false},
		{`partition == 0 or topic == "orders"`, true},
		{`(partition == 0 or partition == 2) and key != ""`, true},
		{`partition == 0 || partition == 2`, true},
		{`partition == 0 && partition == 2`, false},
	} {
		q, err := Parse(tt.query)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.query, err)
			continue
		}
		if got := q.Matches(r); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestParseHeaders(t *testing.T) {
	r := record("orders", 0, 1, "k", "v")
	r.Headers = []model.Header{{Key: "content-type", Value: "application/json"}}

	q, err := Parse(`headers.content-type == "application/json"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Matches(r) {
		t.Error("header equality should match")
	}

	q, err = Parse(`h.content-type starts with "text"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Matches(r) {
		t.Error("header prefix should not match")
	}

	if _, err := Parse(`headers == "x"`); err == nil {
		t.Error("headers without a key should not parse")
	}
}

func TestParseTimestampComparison(t *testing.T) {
	r := record("orders", 0, 1, "k", "v")
	q, err := Parse(`timestamp > "2025-01-01"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Matches(r) {
		t.Error("record from June should be after January")
	}
	q, err = Parse(`ts < "2025-01-01"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Matches(r) {
		t.Error("record from June should not be before January")
	}
}

func TestParseFromClauses(t *testing.T) {
	for _, tt := range []struct {
		query string
		kind  FromKind
		off   int64
	}{
		{"from begin", FromBegin, 0},
		{"from beginning", FromBegin, 0},
		{"from end", FromEnd, 0},
		{"from end - 5000", FromEndMinus, 5000},
		{"from offset 1200", FromOffset, 1200},
	} {
		q, err := Parse(tt.query)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.query, err)
			continue
		}
		if q.From.Kind != tt.kind || q.From.Offset != tt.off {
			t.Errorf("%q: got kind=%v offset=%d, want kind=%v offset=%d",
				tt.query, q.From.Kind, q.From.Offset, tt.kind, tt.off)
		}
	}

	q, err := Parse(`from "2025-06-01T12:00:00Z"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.From.Kind != FromTime {
		t.Fatalf("expected FromTime, got %v", q.From.Kind)
	}
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !q.From.Time.Equal(want) {
		t.Errorf("got %v, want %v", q.From.Time, want)
	}
}

func TestParseLimitAndOrderBy(t *testing.T) {
	q, err := Parse(`topic == "orders" from begin order by key desc limit 1000`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit != 1000 {
		t.Errorf("got limit %d, want 1000", q.Limit)
	}
	if q.OrderBy == nil || q.OrderBy.Field != "key" || !q.OrderBy.Descending {
		t.Errorf("got order by %+v, want key desc", q.OrderBy)
	}
	if q.From.Kind != FromBegin {
		t.Errorf("got from %v, want FromBegin", q.From.Kind)
	}

	// clauses parse in any order
	q, err = Parse(`limit 10 order by o from end - 100`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit != 10 || q.OrderBy == nil || q.OrderBy.Field != "offset" || q.OrderBy.Descending {
		t.Errorf("unexpected query %+v", q)
	}

	if _, err := Parse("limit 0"); err == nil {
		t.Error("limit 0 should not parse")
	}
	if _, err := Parse("limit -5"); err == nil {
		t.Error("negative limit should not parse")
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		`nope == "x"`,
		`topic = "x"`,
		`topic ==`,
		`topic == "x`,
		`(topic == "x"`,
		`topic.nested == "x"`,
		`order by value.hello`,
		`from nowhere`,
		`key starts "x"`,
	} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestSort(t *testing.T) {
	records := []model.Record{
		record("orders", 0, 5, "c", "v"),
		record("orders", 0, 2, "a", "v"),
		record("orders", 0, 9, "b", "v"),
	}

	q, err := Parse("order by offset")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q.Sort(records)
	if records[0].Offset != 2 || records[1].Offset != 5 || records[2].Offset != 9 {
		t.Errorf("ascending offset sort failed: %v %v %v", records[0].Offset, records[1].Offset, records[2].Offset)
	}

	q, err = Parse("order by key desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q.Sort(records)
	if string(records[0].Key) != "c" || string(records[2].Key) != "a" {
		t.Errorf("descending key sort failed: %s %s %s", records[0].Key, records[1].Key, records[2].Key)
	}

	// no order by leaves consumption order alone
	unsorted := []model.Record{records[0], records[1], records[2]}
	q, _ = Parse("")
	q.Sort(unsorted)
	if !unsorted[0].Equals(records[0]) {
		t.Error("sort without order by should be a no-op")
	}
}

func TestParseTimeLiteralRelative(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range []struct {
		in   string
		want time.Time
	}{
		{"30 seconds ago", now.Add(-30 * time.Second)},
		{"15 minutes ago", now.Add(-15 * time.Minute)},
		{"1 hours ago", now.Add(-time.Hour)},
		{"2 days ago", now.Add(-48 * time.Hour)},
		{"1 week ago", now.Add(-7 * 24 * time.Hour)},
	} {
		got, err := parseTimeLiteral(tt.in, now)
		if err != nil {
			t.Errorf("parseTimeLiteral(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTimeLiteral(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseTimeLiteral("3 fortnights ago", now); err == nil {
		t.Error("unknown unit should fail")
	}
}
