/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package diag provides located validation errors shared by the lexer,
// parser, and validator.
package diag

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bennypowers.dev/tval/value"
)

// Kind is a stable, machine-readable error tag.
type Kind string

const (
	IoFailure            Kind = "io-failure"
	LexError             Kind = "lex-error"
	ParseError           Kind = "parse-error"
	LengthMismatch       Kind = "length-mismatch"
	RowWidthMismatch     Kind = "row-width-mismatch"
	DuplicateKey         Kind = "duplicate-key"
	AmbiguousString      Kind = "ambiguous-unquoted-string"
	IndentationViolation Kind = "indentation-violation"

	// Warnings
	EmptyObject Kind = "empty-object"
	EmptyList   Kind = "empty-list"
	EmptyTable  Kind = "empty-table"
)

// Fatal reports whether the kind ends a file's pipeline.
func (k Kind) Fatal() bool {
	return k == IoFailure || k == LexError || k == ParseError
}

// Structural reports whether the kind is a recoverable structural error.
func (k Kind) Structural() bool {
	switch k {
	case LengthMismatch, RowWidthMismatch, DuplicateKey, AmbiguousString, IndentationViolation:
		return true
	}
	return false
}

// Sentinel errors matched by Error.Is for the fatal kinds.
var (
	// ErrIO indicates the source text could not be read.
	ErrIO = errors.New("source could not be read")

	// ErrLex indicates a malformed low-level token.
	ErrLex = errors.New("lexical error")

	// ErrParse indicates a grammar error that leaves structure unrecoverable.
	ErrParse = errors.New("parse error")
)

// Severity distinguishes errors from warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a single located diagnostic.
type Error struct {
	Kind       Kind           `json:"kind"`
	Severity   Severity       `json:"severity"`
	Loc        value.Location `json:"location"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	// Path is the dotted document path, when known.
	Path string `json:"path,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Loc.String())
	sb.WriteString(": ")
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Is lets errors.Is match fatal diagnostics against ErrIO, ErrLex, and ErrParse.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case IoFailure:
		return target == ErrIO
	case LexError:
		return target == ErrLex
	case ParseError:
		return target == ErrParse
	}
	return false
}

// Errorf builds an error-severity diagnostic.
func Errorf(kind Kind, loc value.Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Severity: SeverityError, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(kind Kind, loc value.Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Severity: SeverityWarning, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// WithSuggestion sets an actionable fix and returns e.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithPath sets the document path and returns e.
func (e *Error) WithPath(p string) *Error {
	e.Path = p
	return e
}

// List is an ordered collection of diagnostics.
type List []*Error

// Add appends e to the list.
func (l *List) Add(e *Error) {
	*l = append(*l, e)
}

// HasKind reports whether any entry has kind k.
func (l List) HasKind(k Kind) bool {
	for _, e := range l {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Count returns the number of entries with kind k.
func (l List) Count(k Kind) int {
	n := 0
	for _, e := range l {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Merge combines lists, drops entries repeating an earlier kind and
// location, and sorts the result by location then kind.
func Merge(lists ...List) List {
	type key struct {
		kind Kind
		loc  value.Location
	}
	seen := make(map[key]bool)
	out := List{}
	for _, l := range lists {
		for _, e := range l {
			k := key{e.Kind, e.Loc}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Loc != out[j].Loc {
			return out[i].Loc.Before(out[j].Loc)
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
