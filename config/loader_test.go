/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"errors"
	"slices"
	"testing"

	"github.com/spf13/viper"

	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/internal/mapfs"
	"bennypowers.dev/tval/testutil"
)

func TestLoad_SimpleYAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/simple", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.Indent != 4 {
		t.Errorf("expected indent 4, got %d", cfg.Indent)
	}

	if cfg.InputFormat() != format.TOON {
		t.Errorf("expected format toon, got %v", cfg.InputFormat())
	}

	if !cfg.Strict {
		t.Error("expected strict")
	}

	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}

	if !slices.Equal(cfg.Extensions, []string{"toon"}) {
		t.Errorf("expected extensions [toon], got %v", cfg.Extensions)
	}

	if len(cfg.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(cfg.Files))
	}

	if cfg.Files[0].Path != "./data.toon" || cfg.Files[0].Format != "" {
		t.Errorf("unexpected string file spec %+v", cfg.Files[0])
	}

	if cfg.Files[1].Path != "./legacy/*.txt" || cfg.Files[1].Format != "json" {
		t.Errorf("unexpected object file spec %+v", cfg.Files[1])
	}

	opts := cfg.ReportOptions()
	if opts.IndentSize != 4 || !opts.AllowJSONComments || !opts.AllowJSONDuplicates || !opts.Strict {
		t.Errorf("unexpected report options %+v", opts)
	}
}

func TestLoad_JSON(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/json", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.FilePaths(); !slices.Equal(got, []string{"./a.toon", "./b.jsonc"}) {
		t.Errorf("unexpected file paths %v", got)
	}

	if cfg.Files[1].Format != "json" {
		t.Errorf("expected json override, got %q", cfg.Files[1].Format)
	}

	// Unset fields fall back to defaults
	if cfg.Indent != 2 {
		t.Errorf("expected default indent 2, got %d", cfg.Indent)
	}

	if !slices.Equal(cfg.Extensions, []string{"toon", "json"}) {
		t.Errorf("expected default extensions, got %v", cfg.Extensions)
	}
}

func TestLoad_NotFound(t *testing.T) {
	cfg, err := Load(mapfs.New(), "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/invalid", "/project")

	_, err := Load(mfs, "/project")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	cfg := LoadOrDefault(mfs, "/project")
	if cfg.JSON.DuplicateKeys != DuplicateKeysError {
		t.Errorf("expected defaults after an invalid config, got %+v", cfg)
	}
}

func TestLoad_Partial(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/partial", "/project")

	cfg := LoadOrDefault(mfs, "/project")
	if !cfg.Strict {
		t.Error("expected strict from file")
	}
	if cfg.JSON.DuplicateKeys != DuplicateKeysError {
		t.Errorf("expected default duplicateKeys, got %q", cfg.JSON.DuplicateKeys)
	}
}

func TestExpandFiles(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/globs", "/project")

	cfg := LoadOrDefault(mfs, "/project")
	files, err := cfg.ExpandFiles(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slices.Sort(files)
	expected := []string{
		"/project/docs/api/users.toon",
		"/project/docs/intro.toon",
		"/project/root.json",
	}
	if !slices.Equal(files, expected) {
		t.Errorf("expected %v, got %v", expected, files)
	}
}

func TestFormatForFile(t *testing.T) {
	cfg := Default()
	cfg.Files = []FileSpec{
		{Path: "legacy/*.txt", Format: "json"},
		{Path: "data.toon"},
	}

	tests := []struct {
		path     string
		expected format.Format
	}{
		{"legacy/a.txt", format.JSON},
		{"data.toon", format.Auto},
		{"other.txt", format.Auto},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := cfg.FormatForFile(tt.path); got != tt.expected {
				t.Errorf("FormatForFile(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero indent", func(c *Config) { c.Indent = 0 }},
		{"bad format", func(c *Config) { c.Format = "yaml" }},
		{"bad file format", func(c *Config) { c.Files = []FileSpec{{Path: "a", Format: "xml"}} }},
		{"bad duplicate policy", func(c *Config) { c.JSON.DuplicateKeys = "warn" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestApplyViper(t *testing.T) {
	v := viper.New()
	cfg := Default()
	cfg.ApplyViper(v)
	if cfg.Indent != 2 || cfg.JSON.AllowComments {
		t.Errorf("unset keys must not override, got %+v", cfg)
	}

	v.Set(KeyIndent, 4)
	v.Set(KeyAllowJSONComments, true)
	v.Set(KeyAllowJSONDuplicates, true)
	cfg.ApplyViper(v)
	if cfg.Indent != 4 {
		t.Errorf("expected indent 4, got %d", cfg.Indent)
	}
	if !cfg.JSON.AllowComments {
		t.Error("expected allowComments")
	}
	if cfg.JSON.DuplicateKeys != DuplicateKeysAllow {
		t.Errorf("expected duplicateKeys allow, got %q", cfg.JSON.DuplicateKeys)
	}
}

func TestApplyViper_Env(t *testing.T) {
	t.Setenv("TVAL_INDENT", "8")

	v := viper.New()
	v.SetEnvPrefix("TVAL")
	v.AutomaticEnv()

	cfg := Default()
	cfg.ApplyViper(v)
	if cfg.Indent != 8 {
		t.Errorf("expected indent 8 from the environment, got %d", cfg.Indent)
	}
}

func TestResolveFiles(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/globs", "/project")
	cfg := LoadOrDefault(mfs, "/project")

	files, err := cfg.ResolveFiles(mfs, "/project", []string{"explicit.toon"})
	if err != nil || !slices.Equal(files, []string{"explicit.toon"}) {
		t.Errorf("arguments must win, got %v, %v", files, err)
	}

	files, err = cfg.ResolveFiles(mfs, "/project", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("expected 3 files from config, got %v", files)
	}

	_, err = Default().ResolveFiles(mapfs.New(), "/project", nil)
	if !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestForceFormat(t *testing.T) {
	cfg := Default()
	cfg.Files = []FileSpec{{Path: "legacy/*.txt", Format: "json"}}

	if err := cfg.ForceFormat("toon"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.FormatForFile("legacy/a.txt"); got != format.TOON {
		t.Errorf("forced format must replace per-file overrides, got %v", got)
	}

	if err := cfg.ForceFormat("yaml"); !errors.Is(err, format.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
