/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lexer splits TOON and JSON source text into located units and tokens.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/value"
)

// ErrLex is matched by every lexical failure returned from this package.
var ErrLex = diag.ErrLex

// DefaultIndent is the number of spaces per TOON nesting level.
const DefaultIndent = 2

// Options configures the TOON lexer.
type Options struct {
	// IndentSize is the number of spaces per level. Zero means DefaultIndent.
	IndentSize int
}

func (o Options) indent() int {
	if o.IndentSize <= 0 {
		return DefaultIndent
	}
	return o.IndentSize
}

// UnitKind distinguishes ordinary lines from rows of a tabular list.
type UnitKind int

const (
	// Entry is a key/value line, a header line, a list item, or a bare scalar.
	Entry UnitKind = iota
	// Row is a line beneath a tabular header.
	Row
)

// Header is a length tag such as [3], [2|]{a|b} or [#4].
type Header struct {
	Length    int
	Delimiter rune
	// Fields is non-nil for tabular headers.
	Fields []string
	Loc    value.Location
}

// Tabular reports whether the header declares field names.
func (h *Header) Tabular() bool {
	return h != nil && h.Fields != nil
}

// Scalar is a raw scalar slot. Text is the decoded content for quoted
// scalars and the raw content otherwise.
type Scalar struct {
	Raw    string
	Text   string
	Quoted bool
	Loc    value.Location
}

// Unit is one significant line of TOON source.
type Unit struct {
	Kind  UnitKind
	Line  int
	Depth int
	// Loc is the first character after indentation.
	Loc value.Location

	// Item is set when the line starts with the "- " list marker.
	Item bool

	HasKey    bool
	Key       string
	KeyQuoted bool
	KeyLoc    value.Location

	Header *Header

	// Value is the inline scalar, or nil when the line opens a nested block
	// or carries an inline array.
	Value *Scalar

	// Cells holds inline array values and the cells of Row units.
	Cells []Scalar
}

// ChildDepth is the depth at which the unit's nested lines are expected.
// Fields of an object opened by a keyed list item sit one level deeper
// than the item's siblings.
func (u *Unit) ChildDepth() int {
	if u.Item && u.HasKey {
		return u.Depth + 2
	}
	return u.Depth + 1
}

type table struct {
	childDepth int
	delim      rune
}

type toonLexer struct {
	indent int
	units  []Unit
	tables []table
}

// TOON splits text into units. It stops at the first lexical error, which
// is returned as a *diag.Error of kind lex-error.
func TOON(text string, opts Options) ([]Unit, error) {
	l := &toonLexer{indent: opts.indent()}
	text = strings.TrimPrefix(text, "\ufeff")
	for i, line := range strings.Split(text, "\n") {
		if err := l.line(i+1, strings.TrimSuffix(line, "\r")); err != nil {
			return l.units, err
		}
	}
	return l.units, nil
}

func (l *toonLexer) line(n int, line string) error {
	spaces := 0
	for spaces < len(line) && (line[spaces] == ' ' || line[spaces] == '\t') {
		if line[spaces] == '\t' {
			return lexErr(n, spaces+1, "tab character in indentation").
				WithSuggestion("indent with spaces only")
		}
		spaces++
	}
	content := line[spaces:]
	if strings.TrimSpace(content) == "" || strings.HasPrefix(content, "#") {
		return nil
	}
	if spaces%l.indent != 0 {
		return lexErr(n, 1, "indentation of %d spaces is not a multiple of %d", spaces, l.indent).
			WithSuggestion("indent each level by exactly " + strconv.Itoa(l.indent) + " spaces")
	}

	s := &lineScanner{line: line, n: n, pos: spaces}
	u := Unit{Line: n, Depth: spaces / l.indent, Loc: s.loc(spaces)}

	for len(l.tables) > 0 && u.Depth < l.tables[len(l.tables)-1].childDepth {
		l.tables = l.tables[:len(l.tables)-1]
	}
	if len(l.tables) > 0 {
		u.Kind = Row
		cells, err := s.cells(spaces, len(line), l.tables[len(l.tables)-1].delim)
		if err != nil {
			return err
		}
		u.Cells = cells
		l.units = append(l.units, u)
		return nil
	}

	if err := s.entry(&u); err != nil {
		return err
	}
	if u.Header.Tabular() && u.Cells == nil {
		l.tables = append(l.tables, table{childDepth: u.ChildDepth(), delim: u.Header.Delimiter})
	}
	l.units = append(l.units, u)
	return nil
}

func lexErr(line, col int, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.LexError, value.Location{Line: line, Column: col}, format, args...)
}

type lineScanner struct {
	line string
	n    int
	pos  int
}

func (s *lineScanner) loc(off int) value.Location {
	return value.Location{Line: s.n, Column: utf8.RuneCountInString(s.line[:off]) + 1}
}

func (s *lineScanner) errAt(off int, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.LexError, s.loc(off), format, args...)
}

func (s *lineScanner) peek() byte {
	if s.pos < len(s.line) {
		return s.line[s.pos]
	}
	return 0
}

func (s *lineScanner) entry(u *Unit) error {
	if s.line[s.pos] == '-' && (s.pos+1 == len(s.line) || s.line[s.pos+1] == ' ') {
		u.Item = true
		s.pos++
		for s.peek() == ' ' {
			s.pos++
		}
		if s.pos == len(s.line) {
			return nil
		}
	}

	start := s.pos
	switch s.line[s.pos] {
	case '{', '}', ']':
		return s.errAt(start, "unexpected %q at start of line", s.line[start])
	case '[':
		h, err := s.header()
		if err != nil {
			return err
		}
		u.Header = h
		return s.afterColon(u, h)
	case '"':
		text, end, err := s.quoted(start)
		if err != nil {
			return err
		}
		s.pos = end
		if c := s.peek(); c != ':' && c != '[' {
			sc, err := s.scalar(start, len(s.line))
			if err != nil {
				return err
			}
			u.Value = sc
			return nil
		}
		u.HasKey, u.Key, u.KeyQuoted, u.KeyLoc = true, text, true, s.loc(start)
	default:
		i := strings.IndexAny(s.line[start:], ":[")
		if i < 0 {
			sc, err := s.scalar(start, len(s.line))
			if err != nil {
				return err
			}
			u.Value = sc
			return nil
		}
		key := strings.TrimRight(s.line[start:start+i], " ")
		if key == "" {
			return s.errAt(start, "missing key")
		}
		u.HasKey, u.Key, u.KeyLoc = true, key, s.loc(start)
		s.pos = start + i
	}

	var h *Header
	if s.peek() == '[' {
		var err error
		if h, err = s.header(); err != nil {
			return err
		}
		u.Header = h
	}
	return s.afterColon(u, h)
}

// afterColon consumes the ':' that ends a key or header and the inline remainder.
func (s *lineScanner) afterColon(u *Unit, h *Header) error {
	if s.peek() != ':' {
		return s.errAt(s.pos, "expected ':'")
	}
	s.pos++
	if s.peek() == ' ' {
		s.pos++
	}
	if strings.TrimSpace(s.line[s.pos:]) == "" {
		return nil
	}
	if h == nil {
		sc, err := s.scalar(s.pos, len(s.line))
		if err != nil {
			return err
		}
		u.Value = sc
		return nil
	}
	if h.Tabular() {
		return s.errAt(s.pos, "tabular header cannot carry inline values")
	}
	cells, err := s.cells(s.pos, len(s.line), h.Delimiter)
	if err != nil {
		return err
	}
	u.Cells = cells
	return nil
}

// header scans "[N]", "[#N]", "[N<delim>]" and an optional "{fields}".
func (s *lineScanner) header() (*Header, error) {
	start := s.pos
	bad := func() error {
		return s.errAt(start, "unrecognized length tag").
			WithSuggestion("length tags look like [3], [3|] or [3]{a,b}")
	}
	s.pos++
	if s.peek() == '#' {
		s.pos++
	}
	digits := s.pos
	for s.peek() >= '0' && s.peek() <= '9' {
		s.pos++
	}
	if s.pos == digits {
		return nil, bad()
	}
	n, err := strconv.Atoi(s.line[digits:s.pos])
	if err != nil {
		return nil, bad()
	}
	h := &Header{Length: n, Delimiter: ',', Loc: s.loc(start)}
	switch s.peek() {
	case ',', '|', '\t':
		h.Delimiter = rune(s.peek())
		s.pos++
	}
	if s.peek() != ']' {
		return nil, bad()
	}
	s.pos++
	if s.peek() == '{' {
		end := strings.IndexByte(s.line[s.pos:], '}')
		if end < 0 {
			return nil, s.errAt(s.pos, "unterminated field list")
		}
		cells, err := s.cells(s.pos+1, s.pos+end, h.Delimiter)
		if err != nil {
			return nil, err
		}
		h.Fields = make([]string, 0, len(cells))
		for _, c := range cells {
			h.Fields = append(h.Fields, c.Text)
		}
		s.pos += end + 1
	}
	if s.peek() != ':' {
		return nil, bad()
	}
	return h, nil
}

// cells splits line[from:to] on delim outside quotes, trimming spaces.
func (s *lineScanner) cells(from, to int, delim rune) ([]Scalar, error) {
	d := byte(delim)
	out := []Scalar{}
	start := from
	for i := from; i <= to; i++ {
		if i < to && s.line[i] == '"' {
			_, end, err := s.quoted(i)
			if err != nil {
				return nil, err
			}
			i = end - 1
			continue
		}
		if i == to || s.line[i] == d {
			a, b := start, i
			for a < b && s.line[a] == ' ' {
				a++
			}
			for b > a && s.line[b-1] == ' ' {
				b--
			}
			sc, err := s.scalar(a, b)
			if err != nil {
				return nil, err
			}
			out = append(out, *sc)
			start = i + 1
		}
	}
	return out, nil
}

// scalar reads line[from:to] as a single scalar slot.
func (s *lineScanner) scalar(from, to int) (*Scalar, error) {
	raw := s.line[from:to]
	sc := &Scalar{Raw: raw, Text: raw, Loc: s.loc(from)}
	if !strings.HasPrefix(raw, `"`) {
		return sc, nil
	}
	text, end, err := s.quoted(from)
	if err != nil {
		return nil, err
	}
	if strings.TrimRight(s.line[end:to], " ") != "" {
		return nil, s.errAt(end, "unexpected text after quoted string")
	}
	sc.Text, sc.Quoted = text, true
	return sc, nil
}

// quoted decodes the string starting at the quote at off and returns the
// offset just past the closing quote.
func (s *lineScanner) quoted(off int) (string, int, error) {
	var sb strings.Builder
	for i := off + 1; i < len(s.line); i++ {
		c := s.line[i]
		switch c {
		case '"':
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 >= len(s.line) {
				return "", 0, s.errAt(off, "unterminated string")
			}
			i++
			switch s.line[i] {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return "", 0, s.errAt(i-1, "invalid escape sequence \\%c", s.line[i]).
					WithSuggestion(`valid escapes are \\ \" \n \r \t`)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, s.errAt(off, "unterminated string").WithSuggestion(`add a closing '"'`)
}
