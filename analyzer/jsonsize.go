/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	"unicode/utf8"

	"bennypowers.dev/tval/value"
)

// MeasureJSON returns the byte length and estimated token count of the
// compact JSON encoding of tree, without rendering it. Members keep source
// order, including repeats, and tables count as arrays of objects keyed by
// field. Cells beyond the field count are dropped; missing cells are omitted.
func MeasureJSON(tree *value.Value) (bytes, tokens int) {
	var m jsonMeasure
	m.value(tree)
	return m.bytes, m.tc.tokens
}

type jsonMeasure struct {
	bytes int
	tc    tokenCounter
}

// ascii counts s, which must be ASCII.
func (m *jsonMeasure) ascii(s string) {
	m.bytes += len(s)
	for i := 0; i < len(s); i++ {
		m.tc.rune(rune(s[i]))
	}
}

func (m *jsonMeasure) value(v *value.Value) {
	if v == nil {
		m.ascii("null")
		return
	}
	switch v.Kind {
	case value.Null:
		m.ascii("null")
	case value.Bool:
		if v.Bool {
			m.ascii("true")
		} else {
			m.ascii("false")
		}
	case value.Number:
		m.literal(v.Text)
	case value.String:
		m.str(v.Text)
	case value.List:
		m.ascii("[")
		for i, item := range v.Items {
			if i > 0 {
				m.ascii(",")
			}
			m.value(item)
		}
		m.ascii("]")
	case value.Table:
		m.ascii("[")
		for i, row := range v.Rows {
			if i > 0 {
				m.ascii(",")
			}
			m.ascii("{")
			for j, field := range v.Fields {
				if j >= len(row.Cells) {
					break
				}
				if j > 0 {
					m.ascii(",")
				}
				m.str(field)
				m.ascii(":")
				m.value(row.Cells[j])
			}
			m.ascii("}")
		}
		m.ascii("]")
	case value.Object:
		m.ascii("{")
		for i, mem := range v.Members {
			if i > 0 {
				m.ascii(",")
			}
			m.str(mem.Key)
			m.ascii(":")
			m.value(mem.Value)
		}
		m.ascii("}")
	}
}

func (m *jsonMeasure) literal(s string) {
	for _, r := range s {
		m.bytes += utf8.RuneLen(r)
		m.tc.rune(r)
	}
}

const hexDigits = "0123456789abcdef"

// str counts s as a quoted JSON string with the short escapes for quote,
// backslash, and \b \f \n \r \t, and \u00XX for other control characters.
func (m *jsonMeasure) str(s string) {
	m.ascii(`"`)
	for _, r := range s {
		switch r {
		case '"':
			m.ascii(`\"`)
		case '\\':
			m.ascii(`\\`)
		case '\b':
			m.ascii(`\b`)
		case '\f':
			m.ascii(`\f`)
		case '\n':
			m.ascii(`\n`)
		case '\r':
			m.ascii(`\r`)
		case '\t':
			m.ascii(`\t`)
		default:
			if r < 0x20 {
				m.ascii(`\u00`)
				m.ascii(string(hexDigits[r>>4]))
				m.ascii(string(hexDigits[r&0xf]))
				continue
			}
			m.bytes += utf8.RuneLen(r)
			m.tc.rune(r)
		}
	}
	m.ascii(`"`)
}
