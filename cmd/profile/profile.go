/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package profile provides the profile command for tval.
package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/tval/cmd/exit"
	"bennypowers.dev/tval/cmd/render"
	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/fs"
	"bennypowers.dev/tval/profile"
)

// Cmd is the profile cobra command.
var Cmd = &cobra.Command{
	Use:   "profile <dir>",
	Short: "Aggregate token statistics across a directory",
	Long: `Walk a directory, analyze every TOON and JSON document in it, and report
validity counts, total estimated tokens, tokens saved over JSON, and the
average, best, and worst compression ratios.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringSlice("ext", nil, "File extensions to include, without the dot (default toon,json)")
	Cmd.Flags().StringSlice("exclude", nil, "Glob patterns to skip, relative to dir")
	Cmd.Flags().Int("workers", 0, "Parallel workers (default GOMAXPROCS)")
	Cmd.Flags().Int("top", profile.DefaultTop, "Files to list in text output (0 for all)")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	top, _ := cmd.Flags().GetInt("top")

	output, err := render.ParseOutput(formatFlag)
	if err != nil {
		return err
	}

	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadEffective(filesystem, ".")
	if cmd.Flags().Changed("ext") {
		cfg.Extensions, _ = cmd.Flags().GetStringSlice("ext")
	}
	if cmd.Flags().Changed("exclude") {
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := profile.Run(cmd.Context(), filesystem, args[0], profile.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("error profiling %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	switch output {
	case render.JSON:
		if err := render.WriteJSON(out, p); err != nil {
			return fmt.Errorf("error encoding profile: %w", err)
		}
	default:
		render.Profile(out, p, top)
	}

	return exit.Code(p.ExitCode())
}
