/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package analyzer computes size and token statistics for documents.
package analyzer

import (
	"strings"
	"unicode/utf8"

	"bennypowers.dev/tval/value"
)

// Stats summarizes a document. Tree-derived fields are zero when no tree
// was produced.
type Stats struct {
	Bytes  int `json:"bytes"`
	Runes  int `json:"runes"`
	Lines  int `json:"lines"`
	Tokens int `json:"tokens"`

	Nodes NodeCounts `json:"nodes"`

	// JSONBytes and JSONTokens describe the compact JSON encoding of the tree.
	JSONBytes  int `json:"jsonBytes"`
	JSONTokens int `json:"jsonTokens"`

	// Ratio is Bytes / JSONBytes; lower is better. Nil when undefined.
	Ratio *float64 `json:"compressionRatio,omitempty"`

	Breakdown Breakdown `json:"breakdown"`
}

// NodeCounts tallies tree nodes by kind.
type NodeCounts struct {
	Null      int `json:"null"`
	Bool      int `json:"bool"`
	Number    int `json:"number"`
	String    int `json:"string"`
	List      int `json:"list"`
	Table     int `json:"table"`
	Object    int `json:"object"`
	TableRows int `json:"tableRows"`
	Keys      int `json:"keys"`
}

// Total returns the number of nodes of every kind.
func (n NodeCounts) Total() int {
	return n.Null + n.Bool + n.Number + n.String + n.List + n.Table + n.Object
}

// Breakdown attributes estimated tokens to parts of the document.
// Structure is whatever the other categories do not account for.
// TableRows counts rows, not tokens, and is not part of Total.
type Breakdown struct {
	Keys       int `json:"keys"`
	Strings    int `json:"strings"`
	Primitives int `json:"primitives"`
	Structure  int `json:"structure"`
	Tables     int `json:"tables"`
	TableRows  int `json:"tableRows"`
}

// Total returns the token sum across categories.
func (b Breakdown) Total() int {
	return b.Keys + b.Strings + b.Primitives + b.Structure + b.Tables
}

// TokensSaved returns how many estimated tokens the document saves over
// its JSON equivalent. Negative when the document is larger.
func (s Stats) TokensSaved() int {
	return s.JSONTokens - s.Tokens
}

// Analyze computes statistics for text and, when non-nil, its tree.
// It never fails; a nil tree yields text statistics only.
func Analyze(text string, tree *value.Value) Stats {
	s := Stats{
		Bytes:  len(text),
		Runes:  utf8.RuneCountInString(text),
		Lines:  countLines(text),
		Tokens: EstimateTokens(text),
	}
	if tree == nil {
		return s
	}

	s.JSONBytes, s.JSONTokens = MeasureJSON(tree)
	if s.JSONBytes > 0 {
		r := float64(s.Bytes) / float64(s.JSONBytes)
		s.Ratio = &r
	}

	value.Walk(tree, func(_ string, v *value.Value) bool {
		count(&s, v)
		return true
	})
	categorized := s.Breakdown.Keys + s.Breakdown.Strings + s.Breakdown.Primitives + s.Breakdown.Tables
	s.Breakdown.Structure = max(0, s.Tokens-categorized)
	return s
}

func count(s *Stats, v *value.Value) {
	n, b := &s.Nodes, &s.Breakdown
	switch v.Kind {
	case value.Null:
		n.Null++
		b.Primitives += EstimateTokens("null")
	case value.Bool:
		n.Bool++
		b.Primitives++
	case value.Number:
		n.Number++
		b.Primitives += EstimateTokens(v.Text)
	case value.String:
		n.String++
		b.Strings += EstimateTokens(v.Text)
		if v.Quoting == value.Quoted {
			b.Strings += 2
		}
	case value.List:
		n.List++
	case value.Table:
		n.Table++
		n.TableRows += len(v.Rows)
		b.TableRows += len(v.Rows)
		for _, f := range v.Fields {
			b.Tables += EstimateTokens(f)
		}
	case value.Object:
		n.Object++
		n.Keys += len(v.Members)
		for _, m := range v.Members {
			b.Keys += EstimateTokens(m.Key)
		}
	}
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
