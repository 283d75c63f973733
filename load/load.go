/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load reads documents from a filesystem and runs them through the
// report pipeline.
package load

import (
	"context"
	"errors"
	"fmt"

	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/fs"
	"bennypowers.dev/tval/internal/logger"
	"bennypowers.dev/tval/parser"
	"bennypowers.dev/tval/report"
)

// ErrRead indicates that a document could not be read.
var ErrRead = errors.New("read failed")

// Options configures how documents are loaded.
type Options struct {
	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Format overrides detection. format.Auto detects from the path and
	// content of each file.
	Format format.Format

	// Report configures the pipeline.
	Report report.Options
}

// OptionsFromConfig returns load options for path with per-file format
// overrides from cfg applied.
func OptionsFromConfig(cfg *config.Config, filesystem fs.FileSystem, path string) Options {
	return Options{
		FS:     filesystem,
		Format: cfg.FormatForFile(path),
		Report: cfg.ReportOptions(),
	}
}

// Load reads path and analyzes it. The returned report is never nil: a read
// failure produces an io-failure report, and the error wraps ErrRead.
func Load(ctx context.Context, path string, opts Options) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return report.Unreadable(path, opts.Format, err), err
	}

	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	content, err := filesystem.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrRead, path, err)
		logger.Debug("%v", err)
		return report.Unreadable(path, opts.Format, err), err
	}

	hint := opts.Format
	if hint == format.Auto {
		hint = format.Detect(path, content)
	}
	p := parser.For(hint)
	if p == nil {
		logger.Debug("analyzing %s, trying each format", path)
	} else {
		logger.Debug("analyzing %s as %s", path, p.Format())
	}

	return report.AnalyzeWith(path, string(content), p, opts.Report), nil
}

// All loads each path in order, stopping early when ctx is cancelled. Read
// failures are recorded in their reports rather than returned.
func All(ctx context.Context, paths []string, cfg *config.Config, filesystem fs.FileSystem) ([]*report.Report, error) {
	reports := make([]*report.Report, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := Load(ctx, path, OptionsFromConfig(cfg, filesystem, path))
		if err != nil && !errors.Is(err, ErrRead) {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
