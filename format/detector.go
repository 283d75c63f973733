/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package format

import (
	"path/filepath"
	"regexp"
	"strings"
)

// rootHeader matches a keyless TOON array header such as "[3]:" or "[2|]{a|b}:".
var rootHeader = regexp.MustCompile(`^\[\d+[,|\t]?\](\{[^}]*\})?:`)

// Detect picks a format for a file.
// Priority order:
// 1. File extension (.toon, .json, .jsonc)
// 2. Content sniffing of the first non-blank character
// 3. Auto, which the core resolves by trying TOON then JSON
func Detect(path string, content []byte) Format {
	if f := FromExtension(path); f != Auto {
		return f
	}
	return Sniff(content)
}

// FromExtension maps a file extension to a format.
func FromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toon":
		return TOON
	case ".json", ".jsonc":
		return JSON
	default:
		return Auto
	}
}

// Sniff guesses the format from the leading content.
func Sniff(content []byte) Format {
	trimmed := strings.TrimLeft(string(content), " \t\r\n\ufeff")
	switch {
	case trimmed == "":
		return Auto
	case trimmed[0] == '{':
		return JSON
	case trimmed[0] == '[':
		if rootHeader.MatchString(trimmed) {
			return TOON
		}
		return JSON
	default:
		return Auto
	}
}
