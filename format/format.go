/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package format provides input grammar selection and detection.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat indicates an unrecognized format name.
var ErrUnknownFormat = errors.New("unknown format")

// Format selects the grammar used to read a document.
type Format int

const (
	// Auto tries TOON first and falls back to JSON when TOON lexing fails.
	Auto Format = iota

	// TOON is the indentation-structured, length-annotated format.
	TOON

	// JSON is RFC 8259 JSON.
	JSON
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case TOON:
		return "toon"
	case JSON:
		return "json"
	default:
		return "auto"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := FromString(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// FromString returns the format for a user-supplied name.
// The empty string is Auto.
func FromString(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "toon":
		return TOON, nil
	case "json", "jsonc":
		return JSON, nil
	default:
		return Auto, fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}
