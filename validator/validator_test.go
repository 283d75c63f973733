/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validator_test

import (
	"testing"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/parser"
	"bennypowers.dev/tval/validator"
	"bennypowers.dev/tval/value"
)

func mustParseTOON(t *testing.T, input string) *value.Value {
	t.Helper()
	root, _, err := parser.NewTOONParser().Parse(input, parser.Options{})
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return root
}

func mustParseJSON(t *testing.T, input string) *value.Value {
	t.Helper()
	root, _, err := parser.NewJSONParser().Parse(input, parser.Options{})
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return root
}

func TestValidate_Valid(t *testing.T) {
	input := "users[2]{id,name}:\n  1,Alice\n  2,Bob\ntags[2]: a,b\nmeta:\n  owner: \"x: y\""
	errs := validator.Validate(mustParseTOON(t, input), validator.Options{})
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_DuplicateKeyAtSecondOccurrence(t *testing.T) {
	errs := validator.Validate(mustParseTOON(t, "a: 1\nb: 2\na: 3"), validator.Options{})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != diag.DuplicateKey {
		t.Errorf("expected duplicate-key, got %s", errs[0].Kind)
	}
	if errs[0].Loc != (value.Location{Line: 3, Column: 1}) {
		t.Errorf("expected error at 3:1, got %s", errs[0].Loc)
	}
}

func TestValidate_DuplicateKeysAreScoped(t *testing.T) {
	input := "a:\n  x: 1\nb:\n  x: 2"
	if errs := validator.Validate(mustParseTOON(t, input), validator.Options{}); len(errs) != 0 {
		t.Errorf("keys in sibling objects must not collide, got %v", errs)
	}
}

func TestValidate_JSONDuplicateKeys(t *testing.T) {
	root := mustParseJSON(t, `{"a":1,"a":2}`)

	errs := validator.Validate(root, validator.Options{})
	if !errs.HasKind(diag.DuplicateKey) {
		t.Errorf("expected duplicate-key for JSON by default, got %v", errs)
	}

	errs = validator.Validate(root, validator.Options{AllowDuplicateKeys: true})
	if len(errs) != 0 {
		t.Errorf("expected no errors when duplicates are allowed, got %v", errs)
	}
}

func TestValidate_RecheckMatchesParser(t *testing.T) {
	input := "items[3]:\n  - a\n  - b\nusers[1]{id,name}:\n  1,Alice,extra"
	root, parseErrs, err := parser.NewTOONParser().Parse(input, parser.Options{})
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	errs := validator.Validate(root, validator.Options{})
	merged := diag.Merge(errs, parseErrs)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged errors, got %d: %v", len(merged), merged)
	}
	if merged[0].Kind != diag.LengthMismatch || merged[0].Loc.Line != 1 {
		t.Errorf("expected length-mismatch on line 1, got %v", merged[0])
	}
	if merged[1].Kind != diag.RowWidthMismatch || merged[1].Loc.Line != 5 {
		t.Errorf("expected row-width-mismatch on line 5, got %v", merged[1])
	}
	if merged[1].Path != "users[0]" {
		t.Errorf("expected path users[0], got %q", merged[1].Path)
	}
}

func TestValidate_AmbiguousStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "a: hello world", false},
		{"quoted reserved", `a: "x: y"`, false},
		{"leading zero", "a: 007", true},
		{"reserved brace", "a: x}y", true},
		{"reserved backslash", `a: c:\temp`, true},
		{"leading whitespace", "a:  padded", true},
		{"trailing whitespace", "a: padded ", true},
		{"list marker", "items[1]: - x", true},
		{"empty cell", "items[2]: a,", true},
		{"quoted empty cell", `items[2]: a,""`, false},
		{"hyphenated", "a: well-known", false},
		{"unicode", "a: héllo", false},
		{"document delimiter in value", "key: a,b", true},
		{"document delimiter in list item", "items[1]:\n  - a,b", true},
		{"quoted document delimiter", `key: "a,b"`, false},
		{"comma inside pipe table", "t[1|]{a|b}:\n  x,y|z", false},
		{"pipe inside pipe table", "t[1|]{a|b}:\n  x|\"y|z\"", false},
		{"pipe in value", "key: a|b", false},
		{"leading dot number", "a: .5", true},
		{"trailing dot number", "a: 1.", true},
		{"signed number", "a: +3", true},
		{"version string", "a: 1.2.3", false},
		{"key with space", "my key: 1", true},
		{"quoted key with space", `"my key": 1`, false},
		{"numeric key", "42: x", true},
		{"hyphenated key", "well-known: x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.Validate(mustParseTOON(t, tt.input), validator.Options{})
			got := errs.HasKind(diag.AmbiguousString)
			if got != tt.want {
				t.Errorf("ambiguous = %v, want %v (errors: %v)", got, tt.want, errs)
			}
		})
	}
}

func TestValidate_SortedByLocation(t *testing.T) {
	input := "b: 007\na: 1\na: 2\nc: x]"
	errs := validator.Validate(mustParseTOON(t, input), validator.Options{})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	for i := 1; i < len(errs); i++ {
		if errs[i].Loc.Before(errs[i-1].Loc) {
			t.Errorf("errors out of order: %s before %s", errs[i-1].Loc, errs[i].Loc)
		}
	}
}

func TestValidate_NilTree(t *testing.T) {
	if errs := validator.Validate(nil, validator.Options{}); errs != nil {
		t.Errorf("expected nil, got %v", errs)
	}
}

func TestWarnings(t *testing.T) {
	input := "nested:\n  empty:\nitems[0]:\nrows[0]{a,b}:\nfull: 1"
	warns := validator.Warnings(mustParseTOON(t, input))

	want := map[diag.Kind]string{
		diag.EmptyObject: "nested.empty",
		diag.EmptyList:   "items",
		diag.EmptyTable:  "rows",
	}
	if len(warns) != len(want) {
		t.Fatalf("expected %d warnings, got %v", len(want), warns)
	}
	for _, w := range warns {
		if w.Severity != diag.SeverityWarning {
			t.Errorf("expected warning severity, got %s", w.Severity)
		}
		if path, ok := want[w.Kind]; !ok || path != w.Path {
			t.Errorf("unexpected warning %v", w)
		}
	}
}

func TestWarnings_EmptyDocument(t *testing.T) {
	warns := validator.Warnings(mustParseTOON(t, ""))
	if len(warns) != 1 || warns[0].Kind != diag.EmptyObject {
		t.Errorf("expected one empty-object warning, got %v", warns)
	}
}

func TestWarnings_TableDeclaredButEmpty(t *testing.T) {
	root := mustParseTOON(t, "rows[2]{a}:")
	warns := validator.Warnings(root)
	if len(warns) != 1 || warns[0].Message != "table declared with 2 rows but is empty" {
		t.Errorf("unexpected warnings %v", warns)
	}
}
