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

// JSONParser parses JSON documents.
type JSONParser struct{}

// NewJSONParser creates a new JSON parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse lexes and parses JSON text. With opts.AllowComments, comments and
// trailing commas are accepted.
func (p *JSONParser) Parse(text string, opts Options) (*value.Value, diag.List, error) {
	tokens, err := lexer.JSON(text, lexer.JSONOptions{AllowComments: opts.AllowComments})
	if err != nil {
		return nil, nil, err
	}
	return ParseJSON(tokens)
}

// Format returns format.JSON.
func (p *JSONParser) Format() format.Format {
	return format.JSON
}

// ParseJSON builds a tree from lexed tokens. Objects keep repeated keys.
// JSON has no recoverable structural errors, so the returned list is
// always empty.
func ParseJSON(tokens []lexer.Token) (*value.Value, diag.List, error) {
	p := &jsonParser{tokens: tokens}
	root, err := p.value()
	if err != nil {
		return nil, nil, err
	}
	if tok := p.next(); tok.Kind != lexer.EOF {
		return nil, nil, parseErr(tok.Loc, "unexpected %s after document", tok.Kind)
	}
	return root, nil, nil
}

type jsonParser struct {
	tokens []lexer.Token
	pos    int
}

func (p *jsonParser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		var loc value.Location
		if n := len(p.tokens); n > 0 {
			loc = p.tokens[n-1].Loc
		}
		return lexer.Token{Kind: lexer.EOF, Loc: loc}
	}
	return p.tokens[p.pos]
}

func (p *jsonParser) next() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *jsonParser) value() (*value.Value, error) {
	tok := p.next()
	switch tok.Kind {
	case lexer.LBrace:
		return p.object(tok.Loc)
	case lexer.LBracket:
		return p.array(tok.Loc)
	case lexer.String:
		return value.NewString(tok.Text, value.Quoted, tok.Loc), nil
	case lexer.Number:
		return value.NewNumber(tok.Text, tok.Loc), nil
	case lexer.True:
		return value.NewBool(true, tok.Loc), nil
	case lexer.False:
		return value.NewBool(false, tok.Loc), nil
	case lexer.Null:
		return value.NewNull(tok.Loc), nil
	default:
		return nil, parseErr(tok.Loc, "expected a value, found %s", tok.Kind)
	}
}

func (p *jsonParser) object(loc value.Location) (*value.Value, error) {
	obj := value.NewObject(loc)
	if p.peek().Kind == lexer.RBrace {
		p.next()
		return obj, nil
	}
	for {
		key := p.next()
		if key.Kind != lexer.String {
			return nil, parseErr(key.Loc, "expected a string key, found %s", key.Kind)
		}
		if tok := p.next(); tok.Kind != lexer.Colon {
			return nil, parseErr(tok.Loc, "expected ':' after key, found %s", tok.Kind)
		}
		child, err := p.value()
		if err != nil {
			return nil, err
		}
		obj.Add(key.Text, key.Loc, true, child)
		switch tok := p.next(); tok.Kind {
		case lexer.Comma:
		case lexer.RBrace:
			return obj, nil
		default:
			return nil, parseErr(tok.Loc, "expected ',' or '}', found %s", tok.Kind)
		}
	}
}

func (p *jsonParser) array(loc value.Location) (*value.Value, error) {
	list := value.NewList(0, loc)
	if p.peek().Kind == lexer.RBracket {
		p.next()
		return list, nil
	}
	for {
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
		list.Declared = len(list.Items)
		switch tok := p.next(); tok.Kind {
		case lexer.Comma:
		case lexer.RBracket:
			return list, nil
		default:
			return nil, parseErr(tok.Loc, "expected ',' or ']', found %s", tok.Kind)
		}
	}
}
