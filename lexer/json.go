/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lexer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tidwall/jsonc"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/value"
)

// TokenKind identifies a JSON token.
type TokenKind int

const (
	EOF TokenKind = iota
	LBrace
	RBrace
	LBracket
	RBracket
	Colon
	Comma
	String
	Number
	True
	False
	Null
)

var tokenNames = [...]string{
	EOF:      "end of input",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LBracket: "'['",
	RBracket: "']'",
	Colon:    "':'",
	Comma:    "','",
	String:   "string",
	Number:   "number",
	True:     "true",
	False:    "false",
	Null:     "null",
}

// String returns a human-readable token name.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

// Token is a JSON token. Text holds the decoded content of strings and the
// literal of numbers.
type Token struct {
	Kind TokenKind
	Text string
	Loc  value.Location
}

// JSONOptions configures the JSON lexer.
type JSONOptions struct {
	// AllowComments blanks out // and /* */ comments and trailing commas.
	AllowComments bool
}

type jsonLexer struct {
	src    string
	pos    int
	line   int
	col    int
	tokens []Token
	open   []Token
}

// JSON splits text into tokens, checking bracket balance as it goes. The
// returned slice always ends with an EOF token unless an error occurs.
func JSON(text string, opts JSONOptions) ([]Token, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	if opts.AllowComments {
		text = stripComments(text)
	}
	l := &jsonLexer{src: text, line: 1, col: 1}
	if err := l.run(); err != nil {
		return l.tokens, err
	}
	return l.tokens, nil
}

// stripComments blanks comments and trailing commas with jsonc, then turns
// each blanked multi-byte rune into one space so that columns after a
// comment still count runes of the original line.
func stripComments(text string) string {
	stripped := jsonc.ToJSON([]byte(text))
	if len(stripped) != len(text) {
		return string(stripped)
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); {
		_, n := utf8.DecodeRuneInString(text[i:])
		if n > 1 && string(stripped[i:i+n]) != text[i:i+n] {
			sb.WriteByte(' ')
		} else {
			sb.Write(stripped[i : i+n])
		}
		i += n
	}
	return sb.String()
}

func (l *jsonLexer) here() value.Location {
	return value.Location{Line: l.line, Column: l.col}
}

func (l *jsonLexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *jsonLexer) emit(kind TokenKind, text string, loc value.Location) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Loc: loc})
}

func (l *jsonLexer) run() error {
	for l.pos < len(l.src) {
		loc := l.here()
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '{' || c == '[':
			kind := LBrace
			if c == '[' {
				kind = LBracket
			}
			l.advance()
			l.emit(kind, string(c), loc)
			l.open = append(l.open, l.tokens[len(l.tokens)-1])
		case c == '}' || c == ']':
			want := LBrace
			kind := RBrace
			if c == ']' {
				want, kind = LBracket, RBracket
			}
			if len(l.open) == 0 || l.open[len(l.open)-1].Kind != want {
				return diag.Errorf(diag.LexError, loc, "unmatched %q", c)
			}
			l.open = l.open[:len(l.open)-1]
			l.advance()
			l.emit(kind, string(c), loc)
		case c == ':':
			l.advance()
			l.emit(Colon, ":", loc)
		case c == ',':
			l.advance()
			l.emit(Comma, ",", loc)
		case c == '"':
			s, err := l.str()
			if err != nil {
				return err
			}
			l.emit(String, s, loc)
		case c == '-' || (c >= '0' && c <= '9'):
			n, err := l.number()
			if err != nil {
				return err
			}
			l.emit(Number, n, loc)
		case c >= 'a' && c <= 'z':
			start := l.pos
			for l.pos < len(l.src) && l.src[l.pos] >= 'a' && l.src[l.pos] <= 'z' {
				l.advance()
			}
			switch word := l.src[start:l.pos]; word {
			case "true":
				l.emit(True, word, loc)
			case "false":
				l.emit(False, word, loc)
			case "null":
				l.emit(Null, word, loc)
			default:
				return diag.Errorf(diag.LexError, loc, "unexpected literal %q", word)
			}
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			return diag.Errorf(diag.LexError, loc, "unexpected character %q", r)
		}
	}
	if len(l.open) > 0 {
		o := l.open[len(l.open)-1]
		return diag.Errorf(diag.LexError, o.Loc, "unclosed %s", o.Kind).
			WithSuggestion("add the matching closing bracket")
	}
	l.emit(EOF, "", l.here())
	return nil
}

func (l *jsonLexer) number() (string, error) {
	loc := l.here()
	start := l.pos
	digits := func() int {
		n := 0
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.advance()
			n++
		}
		return n
	}
	bad := func() error {
		return diag.Errorf(diag.LexError, loc, "invalid number %q", l.src[start:l.pos])
	}
	if l.src[l.pos] == '-' {
		l.advance()
	}
	intStart := l.pos
	if n := digits(); n == 0 || (n > 1 && l.src[intStart] == '0') {
		return "", bad()
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.advance()
		if digits() == 0 {
			return "", bad()
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		l.advance()
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.advance()
		}
		if digits() == 0 {
			return "", bad()
		}
	}
	return l.src[start:l.pos], nil
}

func (l *jsonLexer) str() (string, error) {
	loc := l.here()
	l.advance()
	var sb strings.Builder
	for l.pos < len(l.src) {
		escLoc := l.here()
		r := l.advance()
		switch {
		case r == '"':
			return sb.String(), nil
		case r == '\n' || r < 0x20:
			return "", diag.Errorf(diag.LexError, escLoc, "control character in string").
				WithSuggestion(`escape it, e.g. \n`)
		case r != '\\':
			sb.WriteRune(r)
			continue
		}
		if l.pos >= len(l.src) {
			break
		}
		switch e := l.advance(); e {
		case '"', '\\', '/':
			sb.WriteRune(e)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			u, ok := l.hex4()
			if !ok {
				return "", diag.Errorf(diag.LexError, escLoc, `invalid \u escape`)
			}
			if utf16.IsSurrogate(u) && strings.HasPrefix(l.src[l.pos:], `\u`) {
				save, line, col := l.pos, l.line, l.col
				l.advance()
				l.advance()
				if u2, ok := l.hex4(); ok {
					if dec := utf16.DecodeRune(u, u2); dec != utf8.RuneError {
						sb.WriteRune(dec)
						continue
					}
				}
				l.pos, l.line, l.col = save, line, col
			}
			sb.WriteRune(u)
		default:
			return "", diag.Errorf(diag.LexError, escLoc, "invalid escape sequence \\%c", e)
		}
	}
	return "", diag.Errorf(diag.LexError, loc, "unterminated string").
		WithSuggestion(`add a closing '"'`)
}

func (l *jsonLexer) hex4() (rune, bool) {
	if l.pos+4 > len(l.src) {
		return 0, false
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := l.src[l.pos+i]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	for i := 0; i < 4; i++ {
		l.advance()
	}
	return r, true
}
