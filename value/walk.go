/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import (
	"strconv"
	"strings"
)

// WalkFunc is called for every node during Walk. path is a dotted path
// with bracketed indices, e.g. "users[0].name". Returning false skips
// the node's children.
type WalkFunc func(path string, v *Value) bool

// Walk visits v and its descendants depth-first in source order.
func Walk(v *Value, fn WalkFunc) {
	walk("", v, fn)
}

func walk(path string, v *Value, fn WalkFunc) {
	if v == nil || !fn(path, v) {
		return
	}
	switch v.Kind {
	case List:
		for i, item := range v.Items {
			walk(indexPath(path, i), item, fn)
		}
	case Table:
		for i, row := range v.Rows {
			rowPath := indexPath(path, i)
			for j, cell := range row.Cells {
				field := strconv.Itoa(j)
				if j < len(v.Fields) {
					field = v.Fields[j]
				}
				walk(JoinPath(rowPath, field), cell, fn)
			}
		}
	case Object:
		for _, m := range v.Members {
			walk(JoinPath(path, m.Key), m.Value, fn)
		}
	}
}

// JoinPath appends key to a dotted path.
func JoinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	var sb strings.Builder
	sb.WriteString(path)
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(i))
	sb.WriteByte(']')
	return sb.String()
}
