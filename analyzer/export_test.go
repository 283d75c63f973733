/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	"strconv"
	"strings"

	"bennypowers.dev/tval/value"
)

// MinifiedJSON renders tree as compact JSON, following the same rules
// MeasureJSON counts.
func MinifiedJSON(tree *value.Value) string {
	var sb strings.Builder
	writeJSON(&sb, tree)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v *value.Value) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch v.Kind {
	case value.Null:
		sb.WriteString("null")
	case value.Bool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case value.Number:
		sb.WriteString(v.Text)
	case value.String:
		writeString(sb, v.Text)
	case value.List:
		sb.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSON(sb, item)
		}
		sb.WriteByte(']')
	case value.Table:
		sb.WriteByte('[')
		for i, row := range v.Rows {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('{')
			for j, field := range v.Fields {
				if j >= len(row.Cells) {
					break
				}
				if j > 0 {
					sb.WriteByte(',')
				}
				writeString(sb, field)
				sb.WriteByte(':')
				writeJSON(sb, row.Cells[j])
			}
			sb.WriteByte('}')
		}
		sb.WriteByte(']')
	case value.Object:
		sb.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, m.Key)
			sb.WriteByte(':')
			writeJSON(sb, m.Value)
		}
		sb.WriteByte('}')
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xf])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
