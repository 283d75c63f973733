/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/profile"
	"bennypowers.dev/tval/report"
)

// Output selects how results are printed.
type Output string

const (
	Text Output = "text"
	JSON Output = "json"
)

// ParseOutput validates an --format flag value.
func ParseOutput(s string) (Output, error) {
	switch Output(s) {
	case Text, JSON:
		return Output(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected text or json)", s)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Title turns a kebab-case tag such as "parse-failed" into "Parse Failed".
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "-", " "))
}

// Percent formats part as a percentage of total.
func Percent(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// Ratio formats an optional compression ratio.
func Ratio(r *float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *r)
}

// Check renders the outcome of validating one document. Quiet prints only
// failing documents and their diagnostics.
func Check(w io.Writer, r *report.Report, quiet bool) {
	if quiet && r.Valid() && len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintf(w, "Validation Result: %s\n", r.Source)
	fmt.Fprintf(w, "Format: %s\n", strings.ToUpper(r.Format.String()))
	fmt.Fprintf(w, "Status: %s\n", Title(string(r.Verdict)))

	diagnostics(w, "Errors", r.Errors)
	diagnostics(w, "Warnings", r.Warnings)

	if len(r.Errors) == 0 && len(r.Warnings) == 0 && !quiet {
		fmt.Fprintln(w, "\nNo issues found.")
	}
}

func diagnostics(w io.Writer, heading string, list diag.List) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	for _, e := range list {
		fmt.Fprintf(w, "  - %s\n", e.Error())
	}
}

// Analysis renders statistics and the token breakdown for one document.
func Analysis(w io.Writer, r *report.Report) {
	s := r.Stats
	fmt.Fprintf(w, "File Analysis: %s\n", r.Source)
	fmt.Fprintf(w, "Format: %s\n", strings.ToUpper(r.Format.String()))
	fmt.Fprintf(w, "Status: %s\n", Title(string(r.Verdict)))
	fmt.Fprintf(w, "Size: %d bytes, %d lines\n", s.Bytes, s.Lines)
	fmt.Fprintf(w, "Total Estimated Tokens: %d\n", s.Tokens)

	if r.Tree == nil {
		diagnostics(w, "Errors", r.Errors)
		return
	}

	fmt.Fprintf(w, "JSON Equivalent: %d bytes, %d tokens\n", s.JSONBytes, s.JSONTokens)
	fmt.Fprintf(w, "Compression Ratio: %s\n", Ratio(s.Ratio))
	fmt.Fprintf(w, "Tokens Saved: %d\n\n", s.TokensSaved())

	b := s.Breakdown
	rows := [][]string{
		{"Keys", fmt.Sprint(b.Keys), Percent(b.Keys, s.Tokens)},
		{"Strings", fmt.Sprint(b.Strings), Percent(b.Strings, s.Tokens)},
		{"Primitives", fmt.Sprint(b.Primitives), Percent(b.Primitives, s.Tokens)},
		{"Structure", fmt.Sprint(b.Structure), Percent(b.Structure, s.Tokens)},
	}
	if b.Tables > 0 {
		rows = append(rows, []string{
			"Tables",
			fmt.Sprintf("%d (%d rows)", b.Tables, b.TableRows),
			Percent(b.Tables, s.Tokens),
		})
	}
	table(w, []string{"Component", "Tokens", "Percentage"}, rows)

	diagnostics(w, "Errors", r.Errors)
	diagnostics(w, "Warnings", r.Warnings)
}

// Profile renders a directory profile listing at most top files.
func Profile(w io.Writer, p *profile.Profile, top int) {
	fmt.Fprintf(w, "Directory Profile: %s\n", p.Directory)
	fmt.Fprintf(w, "Total Files: %d (%d valid, %d invalid, %d unreadable)\n",
		p.TotalFiles, p.Valid, p.Invalid, p.Unreadable)
	fmt.Fprintf(w, "Total Estimated Tokens: %d\n", p.TotalTokens)
	fmt.Fprintf(w, "JSON Equivalent Tokens: %d\n", p.TotalJSONTokens)
	fmt.Fprintf(w, "Tokens Saved: %d\n", p.TokensSaved)
	fmt.Fprintf(w, "Average Compression Ratio: %s\n", Ratio(p.AverageRatio))
	if p.MinRatio != nil {
		fmt.Fprintf(w, "Best Compression: %s (%.2f)\n", p.MinRatio.Path, p.MinRatio.Ratio)
	}
	if p.MaxRatio != nil {
		fmt.Fprintf(w, "Worst Compression: %s (%.2f)\n", p.MaxRatio.Path, p.MaxRatio.Ratio)
	}
	fmt.Fprintln(w)

	if len(p.Files) == 0 {
		fmt.Fprintln(w, "No matching files found.")
		return
	}

	shown := p.Top(top)
	rows := make([][]string, 0, len(shown)+1)
	for _, f := range shown {
		rows = append(rows, []string{
			f.Path,
			fmt.Sprint(f.Tokens),
			f.Format.String(),
			Percent(f.Tokens, p.TotalTokens),
		})
	}
	if rest := len(p.Files) - len(shown); rest > 0 {
		rows = append(rows, []string{fmt.Sprintf("... and %d more files", rest), "", "", ""})
	}
	table(w, []string{"File", "Tokens", "Format", "% of Total"}, rows)
}

// table writes left-aligned columns sized to their widest cell. Every row
// has as many cells as the header.
func table(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	line := func(row []string) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	line(header)
	seps := make([]string, len(widths))
	for i, n := range widths {
		seps[i] = strings.Repeat("-", n)
	}
	fmt.Fprintln(w, strings.Join(seps, "  "))
	for _, row := range rows {
		line(row)
	}
}
