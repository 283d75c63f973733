/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package value provides the in-memory representation of parsed TOON and JSON documents.
package value

import "fmt"

// Location is a 1-based line and column in source text.
// Columns count runes, not bytes.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns the location as "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports whether l sorts before other.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Table
	Object
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Table:
		return "table"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Quoting records how a string scalar was written in the source.
type Quoting int

const (
	// Unquoted strings are bare text.
	Unquoted Quoting = iota
	// Quoted strings were enclosed in double quotes.
	Quoted
)

// Value is a node in a parsed document.
//
// Only the fields relevant to Kind are populated:
//   - Bool: Bool
//   - Number: Text holds the literal exactly as written
//   - String: Text holds the decoded text, Quoting the source form
//   - List: Items, Declared, Delimiter
//   - Table: Fields, Rows, Declared, Delimiter
//   - Object: Members
type Value struct {
	Kind Kind
	Loc  Location

	Bool    bool
	Text    string
	Quoting Quoting

	Items    []*Value
	Fields   []string
	Rows     []Row
	Declared int
	// Delimiter separates inline items and row cells. Zero means comma.
	Delimiter rune

	Members []Member
}

// Row is one line of a tabular list. Cells keep the count found in the
// source, which may differ from the table's field count.
type Row struct {
	Loc   Location
	Cells []*Value
}

// Member is one key/value entry of an object. Objects keep repeated keys
// so that validation can report them.
type Member struct {
	Key       string
	KeyLoc    Location
	KeyQuoted bool
	Value     *Value
}

// NewNull returns a null scalar.
func NewNull(loc Location) *Value {
	return &Value{Kind: Null, Loc: loc}
}

// NewBool returns a boolean scalar.
func NewBool(b bool, loc Location) *Value {
	return &Value{Kind: Bool, Bool: b, Loc: loc}
}

// NewNumber returns a number scalar holding literal verbatim.
func NewNumber(literal string, loc Location) *Value {
	return &Value{Kind: Number, Text: literal, Loc: loc}
}

// NewString returns a string scalar.
func NewString(text string, quoting Quoting, loc Location) *Value {
	return &Value{Kind: String, Text: text, Quoting: quoting, Loc: loc}
}

// NewList returns a list with the given declared length.
func NewList(declared int, loc Location) *Value {
	return &Value{Kind: List, Declared: declared, Loc: loc}
}

// NewTable returns a tabular list with the given field names.
func NewTable(fields []string, declared int, loc Location) *Value {
	return &Value{Kind: Table, Fields: fields, Declared: declared, Loc: loc}
}

// NewObject returns an empty object.
func NewObject(loc Location) *Value {
	return &Value{Kind: Object, Loc: loc}
}

// DefaultDelimiter is the document delimiter, active outside arrays that
// declare another.
const DefaultDelimiter = ','

// ActiveDelimiter returns the delimiter of a list or table, or
// DefaultDelimiter for anything else.
func (v *Value) ActiveDelimiter() rune {
	if (v.Kind == List || v.Kind == Table) && v.Delimiter != 0 {
		return v.Delimiter
	}
	return DefaultDelimiter
}

// IsScalar reports whether v is null, bool, number, or string.
func (v *Value) IsScalar() bool {
	return v.Kind <= String
}

// Len returns the number of children actually present:
// items for lists, rows for tables, members for objects.
func (v *Value) Len() int {
	switch v.Kind {
	case List:
		return len(v.Items)
	case Table:
		return len(v.Rows)
	case Object:
		return len(v.Members)
	default:
		return 0
	}
}

// Get returns the value of the first member named key.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns member keys in source order, including repeats.
func (v *Value) Keys() []string {
	keys := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		keys = append(keys, m.Key)
	}
	return keys
}

// Add appends a member to an object.
func (v *Value) Add(key string, keyLoc Location, quoted bool, child *Value) {
	v.Members = append(v.Members, Member{Key: key, KeyLoc: keyLoc, KeyQuoted: quoted, Value: child})
}

// Interface converts v to plain Go values: nil, bool, string (numbers keep
// their literal), []any, and map[string]any. Tables become a slice of maps
// aligned on field names; cells beyond the field count are dropped.
// For repeated keys the last member wins.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case Bool:
		return v.Bool
	case Number, String:
		return v.Text
	case List:
		out := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			out = append(out, item.Interface())
		}
		return out
	case Table:
		out := make([]any, 0, len(v.Rows))
		for _, row := range v.Rows {
			m := make(map[string]any, len(v.Fields))
			for i, field := range v.Fields {
				if i < len(row.Cells) {
					m[field] = row.Cells[i].Interface()
				}
			}
			out = append(out, m)
		}
		return out
	case Object:
		out := make(map[string]any, len(v.Members))
		for _, m := range v.Members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}
