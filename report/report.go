/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package report runs the parse, validate, and analyze pipeline over one
// document and summarizes the outcome.
package report

import (
	"errors"

	"bennypowers.dev/tval/analyzer"
	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/parser"
	"bennypowers.dev/tval/validator"
	"bennypowers.dev/tval/value"
)

// Verdict is the overall outcome for one document.
type Verdict string

const (
	Valid            Verdict = "valid"
	ParseFailed      Verdict = "parse-failed"
	ValidationFailed Verdict = "validation-failed"
)

// Exit codes shared by every command that reports on documents.
const (
	ExitValid            = 0
	ExitParseFailed      = 1
	ExitValidationFailed = 2
)

// Options configures a pipeline run.
type Options struct {
	// IndentSize is the number of spaces per TOON level. Zero means 2.
	IndentSize int

	// AllowJSONComments accepts comments and trailing commas in JSON input.
	AllowJSONComments bool

	// AllowJSONDuplicates suppresses duplicate-key errors for JSON input.
	AllowJSONDuplicates bool

	// Strict fails validation when there are warnings.
	Strict bool
}

// Report is the result of analyzing one document.
type Report struct {
	Source   string         `json:"source"`
	Format   format.Format  `json:"format"`
	Verdict  Verdict        `json:"verdict"`
	Errors   diag.List      `json:"errors"`
	Warnings diag.List      `json:"warnings"`
	Stats    analyzer.Stats `json:"stats"`

	// Tree is nil when lexing or parsing failed.
	Tree *value.Value `json:"-"`
}

// Valid reports whether the document passed every check.
func (r *Report) Valid() bool {
	return r.Verdict == Valid
}

// ExitCode maps the verdict to a process exit code.
func (r *Report) ExitCode() int {
	switch r.Verdict {
	case Valid:
		return ExitValid
	case ParseFailed:
		return ExitParseFailed
	default:
		return ExitValidationFailed
	}
}

// ExitCode combines reports: any parse or read failure wins over any
// validation failure, which wins over success.
func ExitCode(reports []*Report) int {
	code := ExitValid
	for _, r := range reports {
		switch r.ExitCode() {
		case ExitParseFailed:
			return ExitParseFailed
		case ExitValidationFailed:
			code = ExitValidationFailed
		}
	}
	return code
}

// Analyze parses, validates, and measures text with the parser for hint.
// With format.Auto it tries TOON first and falls back to JSON when TOON
// lexing fails. It never returns nil; failures are recorded in the report.
func Analyze(source, text string, hint format.Format, opts Options) *Report {
	return AnalyzeWith(source, text, parser.For(hint), opts)
}

// AnalyzeWith runs the pipeline with p. A nil p detects the format as
// Analyze does for format.Auto.
func AnalyzeWith(source, text string, p parser.Parser, opts Options) *Report {
	popts := parser.Options{IndentSize: opts.IndentSize, AllowComments: opts.AllowJSONComments}

	auto := p == nil
	if auto {
		p = parser.NewTOONParser()
	}
	used := p.Format()
	tree, found, err := p.Parse(text, popts)
	if auto && errors.Is(err, diag.ErrLex) {
		jp := parser.NewJSONParser()
		jtree, jfound, jerr := jp.Parse(text, popts)
		if jerr == nil || format.Sniff([]byte(text)) == format.JSON {
			used, tree, found, err = jp.Format(), jtree, jfound, jerr
		}
	}

	r := &Report{Source: source, Format: used, Tree: tree}
	if err != nil {
		r.Verdict = ParseFailed
		r.Errors = diag.Merge(diag.List{asDiag(err)}, found)
		r.Stats = analyzer.Analyze(text, nil)
		return r
	}

	vopts := validator.Options{AllowDuplicateKeys: used == format.JSON && opts.AllowJSONDuplicates}
	r.Errors = diag.Merge(validator.Validate(tree, vopts), found)
	r.Warnings = validator.Warnings(tree)
	r.Stats = analyzer.Analyze(text, tree)

	switch {
	case len(r.Errors) > 0, opts.Strict && len(r.Warnings) > 0:
		r.Verdict = ValidationFailed
	default:
		r.Verdict = Valid
	}
	return r
}

// Unreadable returns a report for a source that could not be read.
func Unreadable(source string, hint format.Format, err error) *Report {
	return &Report{
		Source:  source,
		Format:  hint,
		Verdict: ParseFailed,
		Errors:  diag.List{diag.Errorf(diag.IoFailure, value.Location{Line: 1, Column: 1}, "%v", err)},
	}
}

// asDiag converts a fatal pipeline error to a located diagnostic.
func asDiag(err error) *diag.Error {
	var d *diag.Error
	if errors.As(err, &d) {
		return d
	}
	return diag.Errorf(diag.ParseError, value.Location{Line: 1, Column: 1}, "%v", err)
}
