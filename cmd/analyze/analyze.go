/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package analyze provides the analyze command for tval.
package analyze

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

// Cmd is the analyze cobra command.
var Cmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Report size and token statistics for documents",
	Long: `Report byte, line, and estimated token counts for TOON and JSON documents,
with the size of the equivalent minified JSON and a per-component token
breakdown. Token counts are estimates from a word and punctuation heuristic,
not the output of a real tokenizer.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("in", "auto", "Input format (auto, toon, json)")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	formatFlag, _ := cmd.Flags().GetString("format")

	output, err := render.ParseOutput(formatFlag)
	if err != nil {
		return err
	}

	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadEffective(filesystem, ".")
	if cmd.Flags().Changed("in") {
		if err := cfg.ForceFormat(in); err != nil {
			return fmt.Errorf("invalid input format: %w", err)
		}
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
	switch output {
	case render.JSON:
		if err := render.WriteJSON(out, reports); err != nil {
			return fmt.Errorf("error encoding reports: %w", err)
		}
	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(out)
			}
			render.Analysis(out, r)
		}
	}

	return exit.Code(report.ExitCode(reports))
}
