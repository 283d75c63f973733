/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides the tval diagnostic log. It writes to stderr and
// is silenced while serving LSP or MCP on stdio.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	logger  = log.New(os.Stderr, "", 0)
	verbose bool
)

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

// SetVerbose enables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	printf("warning: "+format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	printf(format, args...)
}

// Debug logs a message only when verbose output is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	on := verbose
	mu.Unlock()
	if on {
		printf("debug: "+format, args...)
	}
}

func printf(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Printf(format, args...)
}
