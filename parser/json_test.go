/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser_test

import (
	"errors"
	"testing"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/parser"
	"bennypowers.dev/tval/testutil"
	"bennypowers.dev/tval/value"
)

func TestJSONParser_Parse(t *testing.T) {
	p := parser.NewJSONParser()
	root, errs, err := p.Parse(`{"name": "x", "tags": ["a", 1, true, null], "nested": {}}`, parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no diagnostics, got %v", errs)
	}
	if root.Kind != value.Object {
		t.Fatalf("expected object root, got %s", root.Kind)
	}
	if got := root.Keys(); len(got) != 3 {
		t.Errorf("expected 3 keys, got %v", got)
	}
	tags, ok := root.Get("tags")
	if !ok || tags.Kind != value.List {
		t.Fatalf("expected tags list, got %v", tags)
	}
	if tags.Len() != 4 || tags.Declared != 4 {
		t.Errorf("expected 4 items, got len=%d declared=%d", tags.Len(), tags.Declared)
	}
	wantKinds := []value.Kind{value.String, value.Number, value.Bool, value.Null}
	for i, k := range wantKinds {
		if tags.Items[i].Kind != k {
			t.Errorf("item %d: expected %s, got %s", i, k, tags.Items[i].Kind)
		}
	}
}

func TestJSONParser_KeepsDuplicateKeys(t *testing.T) {
	root, _, err := parser.NewJSONParser().Parse(`{"a":1,"a":2}`, parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Members) != 2 {
		t.Fatalf("expected both members kept, got %d", len(root.Members))
	}
	if loc := root.Members[1].KeyLoc; loc != (value.Location{Line: 1, Column: 8}) {
		t.Errorf("expected second key at 1:8, got %s", loc)
	}
}

func TestJSONParser_Scalars(t *testing.T) {
	tests := []struct {
		input string
		kind  value.Kind
		text  string
	}{
		{`"hi"`, value.String, "hi"},
		{`-1.5e10`, value.Number, "-1.5e10"},
		{`1.50`, value.Number, "1.50"},
		{`null`, value.Null, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _, err := parser.NewJSONParser().Parse(tt.input, parser.Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if root.Kind != tt.kind || root.Text != tt.text {
				t.Errorf("got %s %q, want %s %q", root.Kind, root.Text, tt.kind, tt.text)
			}
		})
	}
}

func TestJSONParser_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		loc   value.Location
	}{
		{"missing colon", `{"a" 1}`, value.Location{Line: 1, Column: 6}},
		{"missing comma", `[1 2]`, value.Location{Line: 1, Column: 4}},
		{"trailing comma", `[1,]`, value.Location{Line: 1, Column: 4}},
		{"non-string key", `{1: 2}`, value.Location{Line: 1, Column: 2}},
		{"trailing garbage", `{} 1`, value.Location{Line: 1, Column: 4}},
		{"empty", ``, value.Location{Line: 1, Column: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parser.NewJSONParser().Parse(tt.input, parser.Options{})
			if !errors.Is(err, parser.ErrParse) {
				t.Fatalf("expected parse error, got %v", err)
			}
			var d *diag.Error
			if !errors.As(err, &d) {
				t.Fatalf("expected *diag.Error, got %T", err)
			}
			if d.Loc != tt.loc {
				t.Errorf("expected error at %s, got %s", tt.loc, d.Loc)
			}
		})
	}
}

func TestJSONParser_AllowComments(t *testing.T) {
	input := "{\n  // comment\n  \"a\": [1, 2,],\n}"
	if _, _, err := parser.NewJSONParser().Parse(input, parser.Options{}); err == nil {
		t.Fatal("expected an error without AllowComments")
	}
	root, _, err := parser.NewJSONParser().Parse(input, parser.Options{AllowComments: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := root.Get("a")
	if a.Len() != 2 {
		t.Errorf("expected 2 items, got %d", a.Len())
	}
}

func TestJSONParser_Fixture(t *testing.T) {
	text := string(testutil.LoadFixtureFile(t, "parser/users.json"))

	root, _, err := parser.NewJSONParser().Parse(text, parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users, ok := root.Get("users")
	if !ok || users.Len() != 2 {
		t.Errorf("expected 2 users, got %v", users)
	}
}

func TestFor(t *testing.T) {
	tests := []struct {
		in   format.Format
		want format.Format
	}{
		{format.TOON, format.TOON},
		{format.JSON, format.JSON},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			p := parser.For(tt.in)
			if p == nil {
				t.Fatalf("expected a parser for %v", tt.in)
			}
			if p.Format() != tt.want {
				t.Errorf("Format() = %v, want %v", p.Format(), tt.want)
			}
		})
	}
	if p := parser.For(format.Auto); p != nil {
		t.Errorf("expected no parser for auto, got %T", p)
	}
}
