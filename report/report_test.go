/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package report_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/parser"
	"bennypowers.dev/tval/report"
	"bennypowers.dev/tval/value"
)

func TestAnalyze_Valid(t *testing.T) {
	r := report.Analyze("items.toon", "items[2]:\n  - a\n  - b", format.TOON, report.Options{})
	assert.Equal(t, report.Valid, r.Verdict)
	assert.Empty(t, r.Errors)
	assert.Equal(t, format.TOON, r.Format)
	assert.Equal(t, 0, r.ExitCode())

	items, ok := r.Tree.Get("items")
	require.True(t, ok)
	assert.Equal(t, value.List, items.Kind)
	assert.Len(t, items.Items, 2)
}

func TestAnalyze_LengthMismatch(t *testing.T) {
	r := report.Analyze("items.toon", "items[3]:\n  - a\n  - b", format.TOON, report.Options{})
	assert.Equal(t, report.ValidationFailed, r.Verdict)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, diag.LengthMismatch, r.Errors[0].Kind)
	assert.Equal(t, 1, r.Errors[0].Loc.Line)
	assert.Equal(t, "items", r.Errors[0].Path)
	assert.Equal(t, 2, r.ExitCode())
}

func TestAnalyze_UnquotedDelimiter(t *testing.T) {
	for _, input := range []string{"key: a,b", "items[1]:\n  - a,b"} {
		r := report.Analyze("d.toon", input, format.TOON, report.Options{})
		assert.Equal(t, report.ValidationFailed, r.Verdict, input)
		require.Len(t, r.Errors, 1, input)
		assert.Equal(t, diag.AmbiguousString, r.Errors[0].Kind)
	}
}

func TestAnalyze_RowWidthKeepsOtherRows(t *testing.T) {
	input := "users[3]{id,name}:\n  1,Alice\n  2,Bob,x\n  3,Carol"
	r := report.Analyze("users.toon", input, format.TOON, report.Options{})
	require.Len(t, r.Errors, 1)
	assert.Equal(t, diag.RowWidthMismatch, r.Errors[0].Kind)
	assert.Equal(t, 3, r.Errors[0].Loc.Line)

	users, _ := r.Tree.Get("users")
	assert.Len(t, users.Rows, 3)
}

func TestAnalyze_JSONDuplicateKeys(t *testing.T) {
	input := `{"a":1,"a":2}`

	r := report.Analyze("dup.json", input, format.JSON, report.Options{})
	assert.Equal(t, report.ValidationFailed, r.Verdict)
	assert.True(t, r.Errors.HasKind(diag.DuplicateKey))

	r = report.Analyze("dup.json", input, format.JSON, report.Options{AllowJSONDuplicates: true})
	assert.Equal(t, report.Valid, r.Verdict)

	r = report.Analyze("dup.toon", "a: 1\na: 2", format.TOON, report.Options{AllowJSONDuplicates: true})
	assert.True(t, r.Errors.HasKind(diag.DuplicateKey), "the JSON option must not affect TOON")
}

func TestAnalyze_ParseFailureStillHasTextStats(t *testing.T) {
	r := report.Analyze("bad.toon", "a: 1\n- b", format.TOON, report.Options{})
	assert.Equal(t, report.ParseFailed, r.Verdict)
	assert.Nil(t, r.Tree)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, diag.ParseError, r.Errors[0].Kind)
	assert.Equal(t, 8, r.Stats.Bytes)
	assert.Equal(t, 2, r.Stats.Lines)
	assert.Nil(t, r.Stats.Ratio)
	assert.Equal(t, 1, r.ExitCode())
}

func TestAnalyze_AutoFallsBackToJSON(t *testing.T) {
	inputs := []string{
		`{"users": [{"id": 1}, {"id": 2}], "ok": true}`,
		`[1, 2, 3]`,
		"{\n  \"a\": {}\n}",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			auto := report.Analyze("in", input, format.Auto, report.Options{})
			explicit := report.Analyze("in", input, format.JSON, report.Options{})

			assert.Equal(t, format.JSON, auto.Format)
			assert.Equal(t, explicit.Verdict, auto.Verdict)
			assert.Equal(t, explicit.Errors, auto.Errors)
			assert.Equal(t, explicit.Warnings, auto.Warnings)
			assert.Equal(t, explicit.Stats, auto.Stats)
		})
	}
}

func TestAnalyze_AutoPrefersTOON(t *testing.T) {
	r := report.Analyze("in", "name: x", format.Auto, report.Options{})
	assert.Equal(t, format.TOON, r.Format)
	assert.Equal(t, report.Valid, r.Verdict)
}

func TestAnalyze_AutoReportsTOONLexError(t *testing.T) {
	r := report.Analyze("in", "a:\n   b: 1", format.Auto, report.Options{})
	assert.Equal(t, format.TOON, r.Format)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, diag.LexError, r.Errors[0].Kind)
	assert.Equal(t, 2, r.Errors[0].Loc.Line)
}

func TestAnalyze_AutoReportsJSONErrorForJSONLikeText(t *testing.T) {
	r := report.Analyze("in", `{"a": 1,}`, format.Auto, report.Options{})
	assert.Equal(t, format.JSON, r.Format)
	assert.Equal(t, report.ParseFailed, r.Verdict)
	assert.Equal(t, diag.ParseError, r.Errors[0].Kind)
}

func TestAnalyzeWith(t *testing.T) {
	input := `{"a": 1}`

	r := report.AnalyzeWith("in", input, parser.NewJSONParser(), report.Options{})
	assert.Equal(t, format.JSON, r.Format)
	assert.Equal(t, report.Valid, r.Verdict)

	r = report.AnalyzeWith("in", input, parser.NewTOONParser(), report.Options{})
	assert.Equal(t, format.TOON, r.Format, "an explicit parser never falls back")
	assert.Equal(t, report.ParseFailed, r.Verdict)

	r = report.AnalyzeWith("in", input, nil, report.Options{})
	assert.Equal(t, format.JSON, r.Format)
	assert.Equal(t, report.Valid, r.Verdict)
}

func TestAnalyze_Strict(t *testing.T) {
	input := "a:\nb: 1"
	r := report.Analyze("in.toon", input, format.TOON, report.Options{})
	assert.Equal(t, report.Valid, r.Verdict)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, diag.EmptyObject, r.Warnings[0].Kind)

	r = report.Analyze("in.toon", input, format.TOON, report.Options{Strict: true})
	assert.Equal(t, report.ValidationFailed, r.Verdict)
}

func TestAnalyze_Idempotent(t *testing.T) {
	input := "users[2]{id,name}:\n  1,Alice\n  2,007\ndup: 1\ndup: 2\nempty[0]:"
	first := report.Analyze("in.toon", input, format.TOON, report.Options{})
	second := report.Analyze("in.toon", input, format.TOON, report.Options{})
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestUnreadable(t *testing.T) {
	r := report.Unreadable("missing.toon", format.TOON, errors.New("no such file"))
	assert.Equal(t, report.ParseFailed, r.Verdict)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, diag.IoFailure, r.Errors[0].Kind)
	assert.True(t, errors.Is(r.Errors[0], diag.ErrIO))
	assert.Equal(t, 1, r.ExitCode())
}

func TestExitCode(t *testing.T) {
	valid := &report.Report{Verdict: report.Valid}
	invalid := &report.Report{Verdict: report.ValidationFailed}
	broken := &report.Report{Verdict: report.ParseFailed}

	tests := []struct {
		name     string
		reports  []*report.Report
		expected int
	}{
		{"none", nil, 0},
		{"all valid", []*report.Report{valid, valid}, 0},
		{"validation failure", []*report.Report{valid, invalid}, 2},
		{"parse failure wins", []*report.Report{invalid, broken, valid}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, report.ExitCode(tt.reports))
		})
	}
}
