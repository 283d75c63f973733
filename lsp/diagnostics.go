/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lsp

import (
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/report"
)

const source = "tval"

// Diagnostics converts a report on text to LSP diagnostics. Each range runs
// from the diagnostic's column to the end of its line. The result is never
// nil, so publishing it clears stale diagnostics.
func Diagnostics(text string, r *report.Report) []protocol.Diagnostic {
	lines := strings.Split(text, "\n")
	out := make([]protocol.Diagnostic, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		out = append(out, convert(lines, e, protocol.DiagnosticSeverityError))
	}
	for _, w := range r.Warnings {
		out = append(out, convert(lines, w, protocol.DiagnosticSeverityWarning))
	}
	return out
}

func convert(lines []string, e *diag.Error, severity protocol.DiagnosticSeverity) protocol.Diagnostic {
	line := max(e.Loc.Line-1, 0)
	var text string
	if line < len(lines) {
		text = strings.TrimSuffix(lines[line], "\r")
	}

	start := utf16Column(text, e.Loc.Column-1)
	end := max(utf16Column(text, -1), start)

	message := e.Message
	if e.Path != "" {
		message = e.Path + ": " + message
	}
	if e.Suggestion != "" {
		message += " (" + e.Suggestion + ")"
	}

	src := source
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: string(e.Kind)},
		Source:   &src,
		Message:  message,
	}
}

// utf16Column returns the UTF-16 length of the first runes of line, or of
// the whole line when runes is negative.
func utf16Column(line string, runes int) int {
	n := 0
	for i, r := range []rune(line) {
		if runes >= 0 && i >= runes {
			break
		}
		n += utf16.RuneLen(r)
	}
	return n
}
