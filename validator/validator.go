/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator provides document-wide structural checks over parsed trees.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/parser"
	"bennypowers.dev/tval/value"
)

// Options configures validation.
type Options struct {
	// AllowDuplicateKeys suppresses duplicate-key errors.
	AllowDuplicateKeys bool
}

// reservedChars must not appear in unquoted strings.
const reservedChars = `:"\[]{}`

// numericLike matches text a reader would take for a number, including
// non-canonical forms such as 007, .5, 1. and +3 that do not parse as one.
var numericLike = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Validate checks a tree and returns every structural error, sorted by
// location with repeats of the same kind and location removed.
// Returns errors for:
// - Repeated keys within one object (at the second and later occurrences)
// - Lists and tables whose child count differs from the declared length
// - Table rows whose cell count differs from the field count
// - Unquoted strings and keys that need quoting to read unambiguously
func Validate(tree *value.Value, opts Options) diag.List {
	if tree == nil {
		return nil
	}
	var errs diag.List
	// delims holds the active delimiter of each list item and table cell.
	delims := make(map[*value.Value]rune)
	value.Walk(tree, func(path string, v *value.Value) bool {
		switch v.Kind {
		case value.Object:
			checkObject(path, v, opts, &errs)
		case value.List:
			if e := parser.LengthError(v); e != nil {
				errs.Add(e.WithPath(path))
			}
			for _, item := range v.Items {
				delims[item] = v.ActiveDelimiter()
			}
		case value.Table:
			if e := parser.LengthError(v); e != nil {
				errs.Add(e.WithPath(path))
			}
			for i, row := range v.Rows {
				if e := parser.RowWidthError(v, row); e != nil {
					errs.Add(e.WithPath(fmt.Sprintf("%s[%d]", path, i)))
				}
				for _, cell := range row.Cells {
					delims[cell] = v.ActiveDelimiter()
				}
			}
		case value.String:
			if v.Quoting == value.Unquoted {
				delim, ok := delims[v]
				if !ok {
					delim = value.DefaultDelimiter
				}
				if reason, ok := Ambiguous(v.Text, delim); ok {
					errs.Add(diag.Errorf(diag.AmbiguousString, v.Loc, "unquoted string %q %s", v.Text, reason).
						WithSuggestion("wrap the value in double quotes").
						WithPath(path))
				}
			}
		}
		return true
	})
	return diag.Merge(errs)
}

func checkObject(path string, v *value.Value, opts Options, errs *diag.List) {
	seen := make(map[string]bool, len(v.Members))
	for _, m := range v.Members {
		memberPath := value.JoinPath(path, m.Key)
		if seen[m.Key] && !opts.AllowDuplicateKeys {
			errs.Add(diag.Errorf(diag.DuplicateKey, m.KeyLoc, "duplicate key %q", m.Key).
				WithSuggestion("remove or rename one of the entries").
				WithPath(memberPath))
		}
		seen[m.Key] = true
		if !m.KeyQuoted {
			if reason, ok := ambiguousKey(m.Key); ok {
				errs.Add(diag.Errorf(diag.AmbiguousString, m.KeyLoc, "unquoted key %q %s", m.Key, reason).
					WithSuggestion("wrap the key in double quotes").
					WithPath(memberPath))
			}
		}
	}
}

// Ambiguous reports whether an unquoted string needs quoting where delim
// is the active delimiter, and why.
func Ambiguous(s string, delim rune) (string, bool) {
	if s == "" {
		return "is empty", true
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return "has leading or trailing whitespace", true
	}
	if reason, ok := reserved(s, delim); ok {
		return reason, true
	}
	if numericLike.MatchString(s) {
		return "reads as a number", true
	}
	if s == "-" || strings.HasPrefix(s, "- ") {
		return "reads as a list item marker", true
	}
	return "", false
}

// ambiguousKey reports whether an unquoted key needs quoting. Keys are
// written outside any array, so the document delimiter applies.
func ambiguousKey(k string) (string, bool) {
	if k == "" {
		return "is empty", true
	}
	if strings.IndexFunc(k, unicode.IsSpace) >= 0 {
		return "contains whitespace", true
	}
	if reason, ok := reserved(k, value.DefaultDelimiter); ok {
		return reason, true
	}
	if numericLike.MatchString(k) {
		return "reads as a number", true
	}
	if strings.HasPrefix(k, "-") {
		return "starts with a list item marker", true
	}
	return "", false
}

func reserved(s string, delim rune) (string, bool) {
	if i := strings.IndexAny(s, reservedChars); i >= 0 {
		return fmt.Sprintf("contains reserved character %q", s[i]), true
	}
	if strings.ContainsRune(s, delim) {
		return fmt.Sprintf("contains the active delimiter %q", delim), true
	}
	return "", false
}

// Warnings reports suspicious but valid structure: empty objects, empty
// lists, and tables without rows. The root object of an empty document
// is included.
func Warnings(tree *value.Value) diag.List {
	if tree == nil {
		return nil
	}
	var warns diag.List
	value.Walk(tree, func(path string, v *value.Value) bool {
		switch {
		case v.Kind == value.Object && len(v.Members) == 0:
			warns.Add(diag.Warnf(diag.EmptyObject, v.Loc, "empty object").WithPath(path))
		case v.Kind == value.List && len(v.Items) == 0:
			warns.Add(diag.Warnf(diag.EmptyList, v.Loc, "empty list").WithPath(path))
		case v.Kind == value.Table && len(v.Rows) == 0:
			msg := "table has no rows"
			if v.Declared > 0 {
				msg = fmt.Sprintf("table declared with %d rows but is empty", v.Declared)
			}
			warns.Add(diag.Warnf(diag.EmptyTable, v.Loc, "%s", msg).WithPath(path))
		}
		return true
	})
	return diag.Merge(warns)
}
