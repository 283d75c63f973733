/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tval.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tval/cmd/analyze"
	"bennypowers.dev/tval/cmd/check"
	"bennypowers.dev/tval/cmd/exit"
	"bennypowers.dev/tval/cmd/lsp"
	"bennypowers.dev/tval/cmd/mcp"
	"bennypowers.dev/tval/cmd/profile"
	"bennypowers.dev/tval/cmd/version"
	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/internal/logger"
	"bennypowers.dev/tval/lexer"
)

// ExitError carries a non-zero exit code out of a command.
type ExitError = exit.Error

const keyVerbose = "verbose"

var rootCmd = &cobra.Command{
	Use:   "tval",
	Short: "Validate and analyze TOON and JSON documents",
	Long: `tval parses TOON and JSON documents, checks their structure, and estimates
how many tokens they cost compared to minified JSON.

Flags can also be set with TVAL_* environment variables, for example
TVAL_INDENT=4 or TVAL_ALLOW_JSON_COMMENTS=true.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool(keyVerbose))
	},
}

// Execute runs the root command, cancelling its context on interrupt.
// Errors other than *ExitError are printed to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int(config.KeyIndent, lexer.DefaultIndent, "Spaces per TOON indentation level")
	flags.Bool(config.KeyAllowJSONComments, false, "Accept comments and trailing commas in JSON input")
	flags.Bool(config.KeyAllowJSONDuplicates, false, "Do not report duplicate keys in JSON input")
	flags.BoolP(keyVerbose, "v", false, "Print debug logging to stderr")

	for _, key := range []string{
		config.KeyIndent,
		config.KeyAllowJSONComments,
		config.KeyAllowJSONDuplicates,
		keyVerbose,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("TVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.AddCommand(profile.Cmd)
	rootCmd.AddCommand(version.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(lsp.Cmd)
}
