/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for tval.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/lexer"
	"bennypowers.dev/tval/report"
)

var (
	// ErrInvalidConfig indicates a config value outside its allowed set.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoFiles indicates that neither arguments nor config named any files.
	ErrNoFiles = errors.New("no files specified and no files found in config")
)

// Values for JSONConfig.DuplicateKeys.
const (
	DuplicateKeysError = "error"
	DuplicateKeysAllow = "allow"
)

// Viper keys bound to persistent flags and TVAL_* environment variables.
const (
	KeyIndent              = "indent"
	KeyAllowJSONComments   = "allow-json-comments"
	KeyAllowJSONDuplicates = "allow-json-duplicates"
)

// Config represents the tval configuration.
type Config struct {
	// Indent is the number of spaces per TOON nesting level.
	Indent int `yaml:"indent" json:"indent"`

	// Format forces the input format for every file: auto, toon, or json.
	Format string `yaml:"format" json:"format"`

	// Strict treats warnings as validation failures.
	Strict bool `yaml:"strict" json:"strict"`

	// Files specifies documents to check when none are given (paths or globs).
	Files []FileSpec `yaml:"files" json:"files"`

	// Extensions limits which files profile analyzes, without the dot.
	Extensions []string `yaml:"extensions" json:"extensions"`

	// Exclude lists doublestar globs that profile skips.
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Workers bounds parallel analysis during profile. Zero means GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`

	// JSON configures JSON input handling.
	JSON JSONConfig `yaml:"json" json:"json"`
}

// JSONConfig configures JSON input handling.
type JSONConfig struct {
	// AllowComments accepts // and /* */ comments and trailing commas.
	AllowComments bool `yaml:"allowComments" json:"allowComments"`

	// DuplicateKeys is "error" (default) or "allow".
	DuplicateKeys string `yaml:"duplicateKeys" json:"duplicateKeys"`
}

// FileSpec represents a document specification.
// It can be specified as a simple string path or as an object with overrides.
type FileSpec struct {
	// Path is the file path (supports globs).
	Path string `yaml:"path" json:"path"`

	// Format overrides the global input format for this file.
	Format string `yaml:"format" json:"format"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Indent:     lexer.DefaultIndent,
		Format:     format.Auto.String(),
		Extensions: []string{"toon", "json"},
		JSON:       JSONConfig{DuplicateKeys: DuplicateKeysError},
	}
}

// withDefaults fills zero values left by a partial config file.
func (c *Config) withDefaults() *Config {
	d := Default()
	if c.Indent == 0 {
		c.Indent = d.Indent
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if len(c.Extensions) == 0 {
		c.Extensions = d.Extensions
	}
	if c.JSON.DuplicateKeys == "" {
		c.JSON.DuplicateKeys = d.JSON.DuplicateKeys
	}
	return c
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	if c.Indent < 1 {
		return fmt.Errorf("%w: indent must be at least 1, got %d", ErrInvalidConfig, c.Indent)
	}
	if _, err := format.FromString(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, spec := range c.Files {
		if _, err := format.FromString(spec.Format); err != nil {
			return fmt.Errorf("%w: files[%s]: %w", ErrInvalidConfig, spec.Path, err)
		}
	}
	switch c.JSON.DuplicateKeys {
	case DuplicateKeysError, DuplicateKeysAllow:
	default:
		return fmt.Errorf("%w: json.duplicateKeys must be %q or %q, got %q",
			ErrInvalidConfig, DuplicateKeysError, DuplicateKeysAllow, c.JSON.DuplicateKeys)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// ApplyViper overrides file values with flags and environment variables
// that were explicitly set.
func (c *Config) ApplyViper(v *viper.Viper) {
	if v.IsSet(KeyIndent) {
		c.Indent = v.GetInt(KeyIndent)
	}
	if v.IsSet(KeyAllowJSONComments) {
		c.JSON.AllowComments = v.GetBool(KeyAllowJSONComments)
	}
	if v.IsSet(KeyAllowJSONDuplicates) {
		if v.GetBool(KeyAllowJSONDuplicates) {
			c.JSON.DuplicateKeys = DuplicateKeysAllow
		} else {
			c.JSON.DuplicateKeys = DuplicateKeysError
		}
	}
}

// ForceFormat makes name the input format for every file, replacing
// per-file overrides.
func (c *Config) ForceFormat(name string) error {
	f, err := format.FromString(name)
	if err != nil {
		return err
	}
	c.Format = f.String()
	for i := range c.Files {
		c.Files[i].Format = ""
	}
	return nil
}

// InputFormat returns the configured global format.
// Returns format.Auto if the field is empty or invalid.
func (c *Config) InputFormat() format.Format {
	f, err := format.FromString(c.Format)
	if err != nil {
		return format.Auto
	}
	return f
}

// FormatForFile returns the input format for path. A matching file spec
// with a format takes precedence over the global setting. Specs match by
// exact path or by glob.
func (c *Config) FormatForFile(path string) format.Format {
	for _, spec := range c.Files {
		if spec.Format == "" {
			continue
		}
		if spec.Path == path || matchDoublestar(filepath.ToSlash(spec.Path), filepath.ToSlash(path)) {
			if f, err := format.FromString(spec.Format); err == nil {
				return f
			}
		}
	}
	return c.InputFormat()
}

// ReportOptions returns pipeline options with configuration applied.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		IndentSize:          c.Indent,
		AllowJSONComments:   c.JSON.AllowComments,
		AllowJSONDuplicates: c.JSON.DuplicateKeys == DuplicateKeysAllow,
		Strict:              c.Strict,
	}
}

// FilePaths returns the list of file paths from all FileSpecs.
func (c *Config) FilePaths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, spec := range c.Files {
		paths = append(paths, spec.Path)
	}
	return paths
}

// matchDoublestar provides ** glob matching using the doublestar library.
func matchDoublestar(pattern, path string) bool {
	matched, _ := doublestar.Match(pattern, path)
	return matched
}
