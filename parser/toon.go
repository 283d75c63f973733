/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/lexer"
	"bennypowers.dev/tval/value"
)

// TOONParser parses TOON documents.
type TOONParser struct{}

// NewTOONParser creates a new TOON parser.
func NewTOONParser() *TOONParser {
	return &TOONParser{}
}

// Parse lexes and parses TOON text.
func (p *TOONParser) Parse(text string, opts Options) (*value.Value, diag.List, error) {
	units, err := lexer.TOON(text, lexer.Options{IndentSize: opts.IndentSize})
	if err != nil {
		return nil, nil, err
	}
	return ParseTOON(units)
}

// Format returns format.TOON.
func (p *TOONParser) Format() format.Format {
	return format.TOON
}

// ParseTOON builds a tree from lexed units.
//
// Length and row-width mismatches and indentation violations are recovered
// and returned as diagnostics. A list item outside a list, a keyless line
// inside an object, or content after a root scalar or array is a parse error.
func ParseTOON(units []lexer.Unit) (*value.Value, diag.List, error) {
	p := &toonParser{units: units}
	root, err := p.root()
	if err != nil {
		return nil, p.errs, err
	}
	return root, p.errs, nil
}

type toonParser struct {
	units []lexer.Unit
	pos   int
	errs  diag.List
}

func (p *toonParser) peek() (*lexer.Unit, bool) {
	if p.pos >= len(p.units) {
		return nil, false
	}
	return &p.units[p.pos], true
}

func parseErr(loc value.Location, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.ParseError, loc, format, args...)
}

func (p *toonParser) root() (*value.Value, error) {
	first, ok := p.peek()
	if !ok {
		return value.NewObject(value.Location{Line: 1, Column: 1}), nil
	}
	if first.Depth == 0 && !first.Item && !first.HasKey && first.Kind == lexer.Entry {
		var root *value.Value
		switch {
		case first.Header != nil:
			p.pos++
			var err error
			if root, err = p.array(first, first.ChildDepth()); err != nil {
				return nil, err
			}
		case first.Value != nil:
			p.pos++
			root = scalar(*first.Value)
		}
		if root != nil {
			if rest, ok := p.peek(); ok {
				return nil, parseErr(rest.Loc, "unexpected content after root value")
			}
			return root, nil
		}
	}
	root := value.NewObject(first.Loc)
	if err := p.object(0, root); err != nil {
		return nil, err
	}
	return root, nil
}

// skip records an indentation violation for the current unit and drops it
// together with every following unit nested deeper than depth.
func (p *toonParser) skip(depth int) {
	u := &p.units[p.pos]
	p.errs.Add(diag.Errorf(diag.IndentationViolation, u.Loc,
		"expected indentation depth %d, found %d", depth, u.Depth).
		WithSuggestion("indent nested lines exactly one level deeper than their parent"))
	p.pos++
	for p.pos < len(p.units) && p.units[p.pos].Depth > depth {
		p.pos++
	}
}

// object reads members at depth into obj until a shallower unit.
func (p *toonParser) object(depth int, obj *value.Value) error {
	for {
		u, ok := p.peek()
		if !ok || u.Depth < depth {
			return nil
		}
		if u.Depth > depth {
			p.skip(depth)
			continue
		}
		switch {
		case u.Kind == lexer.Row:
			return parseErr(u.Loc, "unexpected table row")
		case u.Item:
			return parseErr(u.Loc, "list item outside a list").
				WithSuggestion("declare the list with a length tag, e.g. items[2]:")
		case !u.HasKey:
			return parseErr(u.Loc, "expected a key")
		}
		p.pos++
		child, err := p.member(u, u.ChildDepth())
		if err != nil {
			return err
		}
		obj.Add(u.Key, u.KeyLoc, u.KeyQuoted, child)
	}
}

// member reads the value introduced by a keyed unit.
func (p *toonParser) member(u *lexer.Unit, childDepth int) (*value.Value, error) {
	switch {
	case u.Header != nil:
		return p.array(u, childDepth)
	case u.Value != nil:
		return scalar(*u.Value), nil
	default:
		obj := value.NewObject(u.Loc)
		if err := p.object(childDepth, obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
}

// array reads the list or table declared by u.
func (p *toonParser) array(u *lexer.Unit, childDepth int) (*value.Value, error) {
	h := u.Header
	var arr *value.Value
	switch {
	case h.Tabular():
		arr = value.NewTable(h.Fields, h.Length, h.Loc)
		p.rows(arr, childDepth)
	case u.Cells != nil:
		arr = value.NewList(h.Length, h.Loc)
		for _, c := range u.Cells {
			arr.Items = append(arr.Items, scalar(c))
		}
	default:
		arr = value.NewList(h.Length, h.Loc)
		if err := p.items(arr, childDepth); err != nil {
			return nil, err
		}
	}
	if h.Delimiter != value.DefaultDelimiter {
		arr.Delimiter = h.Delimiter
	}
	if e := LengthError(arr); e != nil {
		p.errs.Add(e)
	}
	return arr, nil
}

func (p *toonParser) rows(t *value.Value, depth int) {
	for {
		u, ok := p.peek()
		if !ok || u.Kind != lexer.Row || u.Depth < depth {
			return
		}
		if u.Depth > depth {
			p.skip(depth)
			continue
		}
		p.pos++
		row := value.Row{Loc: u.Loc}
		for _, c := range u.Cells {
			row.Cells = append(row.Cells, scalar(c))
		}
		t.Rows = append(t.Rows, row)
		if e := RowWidthError(t, row); e != nil {
			p.errs.Add(e)
		}
	}
}

func (p *toonParser) items(list *value.Value, depth int) error {
	for {
		u, ok := p.peek()
		if !ok || u.Depth < depth {
			return nil
		}
		if u.Depth > depth {
			p.skip(depth)
			continue
		}
		if !u.Item {
			return parseErr(u.Loc, "expected a list item").
				WithSuggestion(`prefix list items with "- "`)
		}
		p.pos++
		item, err := p.item(u)
		if err != nil {
			return err
		}
		list.Items = append(list.Items, item)
	}
}

// item reads one "- " entry. A keyed item opens an object whose further
// fields sit one level below the marker.
func (p *toonParser) item(u *lexer.Unit) (*value.Value, error) {
	switch {
	case u.HasKey:
		obj := value.NewObject(u.Loc)
		first, err := p.member(u, u.ChildDepth())
		if err != nil {
			return nil, err
		}
		obj.Add(u.Key, u.KeyLoc, u.KeyQuoted, first)
		if err := p.object(u.Depth+1, obj); err != nil {
			return nil, err
		}
		return obj, nil
	case u.Header != nil:
		return p.array(u, u.ChildDepth())
	case u.Value != nil:
		return scalar(*u.Value), nil
	default:
		obj := value.NewObject(u.Loc)
		if err := p.object(u.Depth+1, obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
}

// scalar interprets a raw slot. Quoted text is always a string; bare text
// is null, a boolean, a number, or else an unquoted string.
func scalar(s lexer.Scalar) *value.Value {
	if s.Quoted {
		return value.NewString(s.Text, value.Quoted, s.Loc)
	}
	switch s.Raw {
	case "null":
		return value.NewNull(s.Loc)
	case "true":
		return value.NewBool(true, s.Loc)
	case "false":
		return value.NewBool(false, s.Loc)
	}
	if IsNumber(s.Raw) {
		return value.NewNumber(s.Raw, s.Loc)
	}
	return value.NewString(s.Raw, value.Unquoted, s.Loc)
}

// LengthError returns a length-mismatch diagnostic when a list or table
// holds a different number of children than its header declared.
func LengthError(v *value.Value) *diag.Error {
	if v.Kind != value.List && v.Kind != value.Table {
		return nil
	}
	if v.Len() == v.Declared {
		return nil
	}
	noun := "items"
	if v.Kind == value.Table {
		noun = "rows"
	}
	return diag.Errorf(diag.LengthMismatch, v.Loc, "declared %d %s, found %d", v.Declared, noun, v.Len()).
		WithSuggestion("update the length tag to match the content")
}

// RowWidthError returns a row-width-mismatch diagnostic when a row's cell
// count differs from the table's field count.
func RowWidthError(t *value.Value, row value.Row) *diag.Error {
	if len(row.Cells) == len(t.Fields) {
		return nil
	}
	return diag.Errorf(diag.RowWidthMismatch, row.Loc, "row has %d cells, expected %d", len(row.Cells), len(t.Fields))
}
