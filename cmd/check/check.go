/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package check provides the check command for tval.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/tval/cmd/exit"
	"bennypowers.dev/tval/cmd/render"
	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/fs"
	"bennypowers.dev/tval/load"
	"bennypowers.dev/tval/report"
)

// Cmd is the check cobra command.
var Cmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate TOON and JSON documents",
	Long: `Validate TOON and JSON documents for structural correctness: length tags,
table row widths, indentation, duplicate keys, and ambiguous unquoted strings.

Exits 0 when every document is valid, 1 when any document could not be read
or parsed, and 2 when any document failed validation.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("in", "auto", "Input format (auto, toon, json)")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	Cmd.Flags().Bool("strict", false, "Fail on warnings")
	Cmd.Flags().Bool("quiet", false, "Only output failing documents")
}

func run(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	formatFlag, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")

	output, err := render.ParseOutput(formatFlag)
	if err != nil {
		return err
	}

	filesystem := fs.NewOSFileSystem()

	// Load config from .config/tval.{yaml,json}
	cfg := config.LoadEffective(filesystem, ".")
	if cmd.Flags().Changed("in") {
		if err := cfg.ForceFormat(in); err != nil {
			return fmt.Errorf("invalid input format: %w", err)
		}
	}
	if strict {
		cfg.Strict = true
	}

	files, err := cfg.ResolveFiles(filesystem, ".", args)
	if err != nil {
		return err
	}

	reports, err := load.All(cmd.Context(), files, cfg, filesystem)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output == render.JSON {
		if err := render.WriteJSON(out, reports); err != nil {
			return fmt.Errorf("error encoding reports: %w", err)
		}
		return exit.Code(report.ExitCode(reports))
	}

	failed := 0
	for i, r := range reports {
		if !r.Valid() {
			failed++
		}
		if i > 0 && !quiet {
			fmt.Fprintln(out)
		}
		render.Check(out, r, quiet)
	}
	if !quiet {
		fmt.Fprintf(out, "\n%d checked, %d failed.\n", len(reports), failed)
	}

	return exit.Code(report.ExitCode(reports))
}
