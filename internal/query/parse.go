package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokOp     // == != >= <= > < ~= -
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// Parse turns a search bar string into a Query. The empty string is valid
// and yields the match-all query from the end of each topic.
func Parse(input string) (Query, error) {
	tokens, err := lex(input)
	if err != nil {
		return Query{}, err
	}
	p := &parser{tokens: tokens, input: input}
	q := Query{Raw: strings.TrimSpace(input), From: From{Kind: FromEnd}}

	if !p.atClauseOrEOF() {
		expr, err := p.parseOr()
		if err != nil {
			return Query{}, err
		}
		q.Predicate = expr
	}

	for p.peek().kind != tokEOF {
		switch {
		case p.acceptKeyword("from"):
			if err := p.parseFrom(&q); err != nil {
				return Query{}, err
			}
		case p.acceptKeyword("order"):
			if err := p.parseOrderBy(&q); err != nil {
				return Query{}, err
			}
		case p.acceptKeyword("limit"):
			tok := p.next()
			if tok.kind != tokNumber {
				return Query{}, p.errorAt(tok, "limit expects a number")
			}
			q.Limit = int(tok.num)
			if q.Limit <= 0 {
				return Query{}, p.errorAt(tok, "limit must be positive")
			}
		default:
			return Query{}, p.errorAt(p.peek(), "unexpected %q", p.peek().text)
		}
	}
	return q, nil
}

type parser struct {
	tokens []token
	idx    int
	input  string
}

func (p *parser) peek() token {
	if p.idx >= len(p.tokens) {
		return token{kind: tokEOF, pos: len(p.input)}
	}
	return p.tokens[p.idx]
}

func (p *parser) next() token {
	tok := p.peek()
	p.idx++
	return tok
}

func (p *parser) acceptKeyword(kw string) bool {
	tok := p.peek()
	if tok.kind == tokIdent && strings.EqualFold(tok.text, kw) {
		p.idx++
		return true
	}
	return false
}

func (p *parser) atClauseOrEOF() bool {
	tok := p.peek()
	if tok.kind == tokEOF {
		return true
	}
	if tok.kind != tokIdent {
		return false
	}
	switch strings.ToLower(tok.text) {
	case "from", "order", "limit":
		return true
	}
	return false
}

func (p *parser) errorAt(tok token, format string, args ...interface{}) error {
	return fmt.Errorf("query: %s (at position %d)", fmt.Sprintf(format, args...), tok.pos+1)
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		isOr := (tok.kind == tokIdent && strings.EqualFold(tok.text, "or")) ||
			(tok.kind == tokOp && tok.text == "||")
		if !isOr {
			return left, nil
		}
		p.idx++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{and: false, left: left, right: right}
	}
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		isAnd := (tok.kind == tokIdent && strings.EqualFold(tok.text, "and")) ||
			(tok.kind == tokOp && tok.text == "&&")
		if !isAnd {
			return left, nil
		}
		p.idx++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{and: true, left: left, right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokLParen {
		p.idx++
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorAt(closing, "expected )")
		}
		return expr, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	fieldTok := p.next()
	if fieldTok.kind != tokIdent {
		return nil, p.errorAt(fieldTok, "expected a variable, got %q", fieldTok.text)
	}
	field, path, err := splitField(fieldTok.text)
	if err != nil {
		return nil, p.errorAt(fieldTok, "%v", err)
	}

	var op compareOp
	opTok := p.next()
	switch {
	case opTok.kind == tokOp:
		switch opTok.text {
		case "==":
			op = opEq
		case "!=":
			op = opNe
		case ">":
			op = opGt
		case ">=":
			op = opGe
		case "<":
			op = opLt
		case "<=":
			op = opLe
		case "~=":
			op = opContains
		default:
			return nil, p.errorAt(opTok, "unknown operator %q", opTok.text)
		}
	case opTok.kind == tokIdent && strings.EqualFold(opTok.text, "contains"):
		op = opContains
	case opTok.kind == tokIdent && strings.EqualFold(opTok.text, "starts"):
		if !p.acceptKeyword("with") {
			return nil, p.errorAt(opTok, "expected 'starts with'")
		}
		op = opStartsWith
	default:
		return nil, p.errorAt(opTok, "expected an operator, got %q", opTok.text)
	}

	litTok := p.next()
	var lit literal
	switch litTok.kind {
	case tokString:
		lit = literal{str: litTok.text}
		if n, err := strconv.ParseFloat(litTok.text, 64); err == nil {
			lit.num, lit.isNum = n, true
		}
	case tokNumber:
		lit = literal{str: litTok.text, num: litTok.num, isNum: true}
	default:
		return nil, p.errorAt(litTok, "expected a string or number, got %q", litTok.text)
	}

	return compareExpr{field: field, path: path, op: op, lit: lit}, nil
}

func (p *parser) parseFrom(q *Query) error {
	tok := p.next()
	switch {
	case tok.kind == tokIdent && isOneOfFold(tok.text, "begin", "beginning", "start"):
		q.From = From{Kind: FromBegin}
	case tok.kind == tokIdent && strings.EqualFold(tok.text, "end"):
		q.From = From{Kind: FromEnd}
		if p.peek().kind == tokOp && p.peek().text == "-" {
			p.idx++
			numTok := p.next()
			if numTok.kind != tokNumber {
				return p.errorAt(numTok, "'from end -' expects a number")
			}
			q.From = From{Kind: FromEndMinus, Offset: int64(numTok.num)}
		}
	case tok.kind == tokIdent && strings.EqualFold(tok.text, "offset"):
		numTok := p.next()
		if numTok.kind != tokNumber {
			return p.errorAt(numTok, "'from offset' expects a number")
		}
		q.From = From{Kind: FromOffset, Offset: int64(numTok.num)}
	case tok.kind == tokString:
		t, err := parseTimeLiteral(tok.text, time.Now())
		if err != nil {
			return p.errorAt(tok, "%v", err)
		}
		q.From = From{Kind: FromTime, Time: t}
	default:
		return p.errorAt(tok, "from expects begin, end, offset <n> or a date")
	}
	return nil
}

func (p *parser) parseOrderBy(q *Query) error {
	if !p.acceptKeyword("by") {
		return p.errorAt(p.peek(), "expected 'order by'")
	}
	fieldTok := p.next()
	if fieldTok.kind != tokIdent {
		return p.errorAt(fieldTok, "order by expects a variable")
	}
	field, path, err := splitField(fieldTok.text)
	if err != nil {
		return p.errorAt(fieldTok, "%v", err)
	}
	if path != "" {
		return p.errorAt(fieldTok, "order by does not support nested paths")
	}
	ob := OrderBy{Field: field}
	if p.acceptKeyword("desc") {
		ob.Descending = true
	} else {
		p.acceptKeyword("asc")
	}
	q.OrderBy = &ob
	return nil
}

// splitField canonicalizes an identifier like "v.hello.world" into field
// "value" and gjson path "hello.world".
func splitField(ident string) (field, path string, err error) {
	name := ident
	if i := strings.IndexByte(ident, '.'); i >= 0 {
		name, path = ident[:i], ident[i+1:]
	}
	canonical, ok := canonicalField[strings.ToLower(name)]
	if !ok {
		return "", "", fmt.Errorf("unknown variable %q", name)
	}
	if path != "" && canonical != "value" && canonical != "headers" {
		return "", "", fmt.Errorf("%q does not support nested paths", canonical)
	}
	if canonical == "headers" && path == "" {
		return "", "", fmt.Errorf("headers requires a key, e.g. headers.content-type")
	}
	return canonical, path, nil
}

func isOneOfFold(s string, options ...string) bool {
	for _, option := range options {
		if strings.EqualFold(s, option) {
			return true
		}
	}
	return false
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '"' || c == '\'':
			quote := c
			j := i + 1
			for j < len(input) && input[j] != quote {
				j++
			}
			if j >= len(input) {
				return nil, fmt.Errorf("query: unterminated string (at position %d)", i+1)
			}
			tokens = append(tokens, token{kind: tokString, text: input[i+1 : j], pos: i})
			i = j + 1
		case strings.ContainsRune("=!<>~&|", rune(c)):
			j := i + 1
			for j < len(input) && strings.ContainsRune("=!<>~&|", rune(input[j])) {
				j++
			}
			op := input[i:j]
			switch op {
			case "==", "!=", ">", ">=", "<", "<=", "~=", "&&", "||":
			default:
				return nil, fmt.Errorf("query: unknown operator %q (at position %d)", op, i+1)
			}
			tokens = append(tokens, token{kind: tokOp, text: op, pos: i})
			i = j
		case c == '-' && !followedByDigit(input, i):
			tokens = append(tokens, token{kind: tokOp, text: "-", pos: i})
			i++
		case c >= '0' && c <= '9' || c == '-':
			j := i + 1
			for j < len(input) && (input[j] >= '0' && input[j] <= '9' || input[j] == '.' || input[j] == '_') {
				j++
			}
			text := strings.ReplaceAll(input[i:j], "_", "")
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("query: invalid number %q (at position %d)", input[i:j], i+1)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: n, pos: i})
			i = j
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(input) && isIdentRune(rune(input[j])) {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: input[i:j], pos: i})
			i = j
		default:
			return nil, fmt.Errorf("query: unexpected character %q (at position %d)", c, i+1)
		}
	}
	return tokens, nil
}

func followedByDigit(input string, i int) bool {
	return i+1 < len(input) && input[i+1] >= '0' && input[i+1] <= '9'
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'
}
