/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp provides the lsp command for tval.
package lsp

import (
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/fs"
	"bennypowers.dev/tval/internal/logger"
	"bennypowers.dev/tval/lsp"
)

// Cmd is the lsp cobra command.
var Cmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run a language server over stdio",
	Long: `Run a Language Server Protocol server over stdio. It publishes tval
diagnostics when TOON or JSON documents are opened or changed, and clears
them when documents close.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	logger.SetOutput(io.Discard)

	cfg := config.LoadEffective(fs.NewOSFileSystem(), ".")
	return lsp.New(cfg).RunStdio()
}
