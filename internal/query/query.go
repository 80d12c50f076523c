// Package query implements the search language typed into the search bar:
//
//	value.hello == "world" and partition == 2 from begin order by key desc limit 1000
//
// A query is an optional predicate followed by optional from / order by /
// limit clauses in any order. The zero Query matches everything from the
// end of each selected topic.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/topix-dev/topix/internal/model"
)

type FromKind int

const (
	// FromEnd consumes new records from the end of the topic (default)
	FromEnd FromKind = iota
	// FromBegin consumes from the earliest available offset
	FromBegin
	// FromEndMinus consumes starting N records before the end
	FromEndMinus
	// FromOffset consumes from an absolute per-partition offset
	FromOffset
	// FromTime consumes records published at or after a timestamp
	FromTime
)

type From struct {
	Kind   FromKind
	Offset int64
	Time   time.Time
}

type OrderBy struct {
	Field      string
	Descending bool
}

type Query struct {
	Raw       string
	Predicate Expr
	From      From
	OrderBy   *OrderBy
	Limit     int
}

// Matches reports whether the record satisfies the predicate. A query
// without a predicate matches everything.
func (q Query) Matches(r model.Record) bool {
	if q.Predicate == nil {
		return true
	}
	return q.Predicate.Eval(r)
}

// Sort orders records in place per the order by clause; without one,
// records keep consumption order.
func (q Query) Sort(records []model.Record) {
	if q.OrderBy == nil {
		return
	}
	field := q.OrderBy.Field
	desc := q.OrderBy.Descending
	less := func(a, b model.Record) bool {
		av, bv := resolveField(field, "", a), resolveField(field, "", b)
		an, aok := av.number()
		bn, bok := bv.number()
		if aok && bok {
			return an < bn
		}
		return av.str < bv.str
	}
	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

// Expr is a parsed predicate node.
type Expr interface {
	Eval(r model.Record) bool
}

type binaryExpr struct {
	and         bool
	left, right Expr
}

func (e binaryExpr) Eval(r model.Record) bool {
	if e.and {
		return e.left.Eval(r) && e.right.Eval(r)
	}
	return e.left.Eval(r) || e.right.Eval(r)
}

type compareOp int

const (
	opEq compareOp = iota
	opNe
	opGt
	opGe
	opLt
	opLe
	opContains
	opStartsWith
)

type compareExpr struct {
	field string
	path  string // non-empty for value.<path> and headers.<key>
	op    compareOp
	lit   literal
}

func (e compareExpr) Eval(r model.Record) bool {
	v := resolveField(e.field, e.path, r)
	switch e.op {
	case opContains:
		return strings.Contains(v.str, e.lit.str)
	case opStartsWith:
		return strings.HasPrefix(v.str, e.lit.str)
	}

	// timestamp comparisons happen on the time axis so relative literals
	// like "1 hours ago" work
	if e.field == "timestamp" {
		lt, err := parseTimeLiteral(e.lit.str, time.Now())
		if err == nil {
			return compareInt(r.Timestamp.UnixMilli(), lt.UnixMilli(), e.op)
		}
	}

	vn, vok := v.number()
	ln, lok := e.lit.number()
	if vok && lok {
		return compareFloat(vn, ln, e.op)
	}
	return compareString(v.str, e.lit.str, e.op)
}

type literal struct {
	str   string
	num   float64
	isNum bool
}

func (l literal) number() (float64, bool) {
	return l.num, l.isNum
}

type value struct {
	str   string
	num   float64
	isNum bool
}

func (v value) number() (float64, bool) {
	return v.num, v.isNum
}

// canonicalField maps the documented aliases onto their long names.
var canonicalField = map[string]string{
	"topic": "topic", "t": "topic",
	"offset": "offset", "o": "offset",
	"key": "key", "k": "key",
	"value": "value", "v": "value",
	"partition": "partition", "p": "partition",
	"timestamp": "timestamp", "ts": "timestamp",
	"size": "size", "si": "size",
	"headers": "headers", "h": "headers",
}

func resolveField(field, path string, r model.Record) value {
	switch field {
	case "topic":
		return stringValue(r.Topic)
	case "offset":
		return numberValue(float64(r.Offset))
	case "partition":
		return numberValue(float64(r.Partition))
	case "size":
		return numberValue(float64(r.Size()))
	case "timestamp":
		return stringValue(r.Timestamp.UTC().Format(time.RFC3339))
	case "key":
		return stringValue(r.KeyString())
	case "value":
		if path == "" {
			return stringValue(r.ValueString())
		}
		res := gjson.GetBytes(r.Value, path)
		if !res.Exists() {
			return value{}
		}
		if res.Type == gjson.Number {
			return numberValue(res.Num)
		}
		return stringValue(res.String())
	case "headers":
		for _, h := range r.Headers {
			if h.Key == path {
				return stringValue(h.Value)
			}
		}
		return value{}
	}
	return value{}
}

func stringValue(s string) value {
	v := value{str: s}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		v.num, v.isNum = n, true
	}
	return v
}

func numberValue(n float64) value {
	return value{str: strconv.FormatFloat(n, 'f', -1, 64), num: n, isNum: true}
}

func compareFloat(a, b float64, op compareOp) bool {
	switch op {
	case opEq:
		return a == b
	case opNe:
		return a != b
	case opGt:
		return a > b
	case opGe:
		return a >= b
	case opLt:
		return a < b
	case opLe:
		return a <= b
	}
	return false
}

func compareInt(a, b int64, op compareOp) bool {
	return compareFloat(float64(a), float64(b), op)
}

func compareString(a, b string, op compareOp) bool {
	switch op {
	case opEq:
		return a == b
	case opNe:
		return a != b
	case opGt:
		return a > b
	case opGe:
		return a >= b
	case opLt:
		return a < b
	case opLe:
		return a <= b
	}
	return false
}

// parseTimeLiteral accepts RFC3339 ("2025-06-01T12:00:00Z"), a bare date
// ("2025-06-01"), or a relative phrase ("1 hours ago", "30 minutes ago").
func parseTimeLiteral(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 3 && fields[2] == "ago" {
		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time literal %q", s)
		}
		var unit time.Duration
		switch strings.TrimSuffix(fields[1], "s") {
		case "second", "sec":
			unit = time.Second
		case "minute", "min":
			unit = time.Minute
		case "hour":
			unit = time.Hour
		case "day":
			unit = 24 * time.Hour
		case "week":
			unit = 7 * 24 * time.Hour
		default:
			return time.Time{}, fmt.Errorf("unknown time unit %q", fields[1])
		}
		return now.Add(-time.Duration(n * float64(unit))), nil
	}
	return time.Time{}, fmt.Errorf("invalid time literal %q", s)
}
