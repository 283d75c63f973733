/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for tval.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/tval/cmd/render"
	"bennypowers.dev/tval/internal/version"
)

// Cmd is the version cobra command that prints version and build information.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for tval.`,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	output, err := render.ParseOutput(formatFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output == render.JSON {
		if err := render.WriteJSON(out, version.Info()); err != nil {
			return fmt.Errorf("error marshaling version info: %w", err)
		}
		return nil
	}
	fmt.Fprintf(out, "tval %s\n", version.Full())
	return nil
}
