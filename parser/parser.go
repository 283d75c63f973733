/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser builds value trees from TOON units and JSON tokens.
package parser

import (
	"regexp"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/value"
)

// ErrParse is matched by every grammar failure returned from this package.
var ErrParse = diag.ErrParse

// Options configures parsing.
type Options struct {
	// IndentSize is the number of spaces per TOON level. Zero means 2.
	IndentSize int

	// AllowComments accepts // and /* */ comments and trailing commas in JSON.
	AllowComments bool
}

// Parser parses documents of one format.
//
// The returned list holds structural errors recovered during parsing. A
// non-nil error is a lex or parse failure; the tree is nil in that case.
type Parser interface {
	// Format is the input format the parser reads.
	Format() format.Format

	// Parse parses text.
	Parse(text string, opts Options) (*value.Value, diag.List, error)
}

// For returns the parser for f, or nil for format.Auto, which has to be
// resolved by trying parsers in turn.
func For(f format.Format) Parser {
	switch f {
	case format.TOON:
		return NewTOONParser()
	case format.JSON:
		return NewJSONParser()
	default:
		return nil
	}
}

// numberPattern matches a canonical JSON number literal.
var numberPattern = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)

// IsNumber reports whether s is a number literal.
func IsNumber(s string) bool {
	return numberPattern.MatchString(s)
}
