/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package profile analyzes every matching document under a directory and
// aggregates token and compression statistics.
package profile

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/iter"

	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	tvalfs "bennypowers.dev/tval/fs"
	"bennypowers.dev/tval/internal/logger"
	"bennypowers.dev/tval/load"
	"bennypowers.dev/tval/report"
)

// DefaultTop is how many files text output lists.
const DefaultTop = 20

// Options configures a profile run.
type Options struct {
	// Extensions selects files by extension, without the dot.
	// Empty means toon and json.
	Extensions []string

	// Exclude lists doublestar globs, relative to the profiled directory,
	// for files and directories to skip.
	Exclude []string

	// Workers bounds parallel analysis. Zero means GOMAXPROCS.
	Workers int

	// Config supplies per-file format overrides and pipeline options.
	// Nil means defaults.
	Config *config.Config
}

// OptionsFromConfig returns profile options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
		Workers:    cfg.Workers,
		Config:     cfg,
	}
}

// File summarizes one analyzed document.
type File struct {
	Path       string         `json:"path"`
	Format     format.Format  `json:"format"`
	Verdict    report.Verdict `json:"verdict"`
	Errors     int            `json:"errors"`
	Tokens     int            `json:"tokens"`
	JSONTokens int            `json:"jsonTokens"`
	Ratio      *float64       `json:"compressionRatio,omitempty"`
}

// Extreme names the file holding a minimum or maximum compression ratio.
type Extreme struct {
	Path  string  `json:"path"`
	Ratio float64 `json:"compressionRatio"`
}

// Profile is the aggregate over a directory.
type Profile struct {
	Directory  string `json:"directory"`
	TotalFiles int    `json:"totalFiles"`
	Valid      int    `json:"valid"`
	Invalid    int    `json:"invalid"`
	Unreadable int    `json:"unreadable"`

	TotalTokens     int `json:"totalTokens"`
	TotalJSONTokens int `json:"totalJsonTokens"`
	TokensSaved     int `json:"tokensSaved"`

	// AverageRatio is the mean over files whose ratio is defined.
	AverageRatio *float64 `json:"averageCompressionRatio,omitempty"`
	MinRatio     *Extreme `json:"minCompressionRatio,omitempty"`
	MaxRatio     *Extreme `json:"maxCompressionRatio,omitempty"`

	// Files is sorted by tokens, descending.
	Files []File `json:"files"`

	// Reports holds the full report per file, in walk order.
	Reports []*report.Report `json:"-"`
}

// Top returns at most n files; n <= 0 means all.
func (p *Profile) Top(n int) []File {
	if n <= 0 || n >= len(p.Files) {
		return p.Files
	}
	return p.Files[:n]
}

// ExitCode maps the profiled reports to a process exit code.
func (p *Profile) ExitCode() int {
	return report.ExitCode(p.Reports)
}

// Run walks dir, analyzes each selected file, and aggregates the results.
// It stops scheduling files once ctx is cancelled and returns ctx's error.
func Run(ctx context.Context, filesystem tvalfs.FileSystem, dir string, opts Options) (*Profile, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	paths, err := Collect(ctx, filesystem, dir, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("profiling %d files under %s", len(paths), dir)

	mapper := iter.Mapper[string, *report.Report]{MaxGoroutines: opts.Workers}
	reports := mapper.Map(paths, func(p *string) *report.Report {
		if ctx.Err() != nil {
			return nil
		}
		r, err := load.Load(ctx, *p, load.OptionsFromConfig(cfg, filesystem, *p))
		if err != nil {
			logger.Warn("failed to process %s: %v", *p, err)
		}
		return r
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Aggregate(dir, reports), nil
}

// Collect returns the files under dir that Run would analyze, in walk order.
func Collect(ctx context.Context, filesystem tvalfs.FileSystem, dir string, opts Options) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = config.Default().Extensions
	}

	var paths []string
	err := fs.WalkDir(filesystem, dir, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel := relative(dir, p)
		if rel != "." && excluded(opts.Exclude, rel) {
			logger.Debug("excluding %s", p)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.TrimPrefix(path.Ext(p), ".")
		if ext == "" || !slices.Contains(exts, ext) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Aggregate reduces reports into a profile. Nil reports are skipped.
func Aggregate(dir string, reports []*report.Report) *Profile {
	p := &Profile{Directory: dir, Files: []File{}}

	var ratioSum float64
	var ratioCount int
	for _, r := range reports {
		if r == nil {
			continue
		}
		p.Reports = append(p.Reports, r)
		p.TotalFiles++

		switch {
		case r.Valid():
			p.Valid++
		case r.Errors.HasKind(diag.IoFailure):
			p.Unreadable++
		default:
			p.Invalid++
		}

		s := r.Stats
		p.TotalTokens += s.Tokens
		f := File{
			Path:    r.Source,
			Format:  r.Format,
			Verdict: r.Verdict,
			Errors:  len(r.Errors),
			Tokens:  s.Tokens,
			Ratio:   s.Ratio,
		}
		if s.Ratio != nil {
			f.JSONTokens = s.JSONTokens
			p.TotalJSONTokens += s.JSONTokens
			p.TokensSaved += s.TokensSaved()

			ratio := *s.Ratio
			ratioSum += ratio
			ratioCount++
			if p.MinRatio == nil || ratio < p.MinRatio.Ratio {
				p.MinRatio = &Extreme{Path: r.Source, Ratio: ratio}
			}
			if p.MaxRatio == nil || ratio > p.MaxRatio.Ratio {
				p.MaxRatio = &Extreme{Path: r.Source, Ratio: ratio}
			}
		}
		p.Files = append(p.Files, f)
	}

	if ratioCount > 0 {
		avg := ratioSum / float64(ratioCount)
		p.AverageRatio = &avg
	}

	slices.SortStableFunc(p.Files, func(a, b File) int {
		return b.Tokens - a.Tokens
	})
	return p
}

func relative(dir, p string) string {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
