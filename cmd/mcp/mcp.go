/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command, which serves check and analyze as
// Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"bennypowers.dev/tval/analyzer"
	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/diag"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/fs"
	"bennypowers.dev/tval/internal/logger"
	"bennypowers.dev/tval/internal/version"
	"bennypowers.dev/tval/report"
)

// defaultName labels documents submitted without a name.
const defaultName = "<input>"

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server over stdio",
	Long: `Run a Model Context Protocol server over stdio exposing two tools:
check validates a document, analyze also reports token statistics.`,
	Args: cobra.NoArgs,
	RunE: run,
}

// Input is the argument object for both tools.
type Input struct {
	Text   string `json:"text" jsonschema:"the TOON or JSON document"`
	Format string `json:"format,omitempty" jsonschema:"input format: auto, toon, or json (default auto)"`
	Name   string `json:"name,omitempty" jsonschema:"file name, used for format detection and in the report"`
}

// CheckResult is the check tool's payload.
type CheckResult struct {
	Source   string         `json:"source"`
	Format   format.Format  `json:"format"`
	Verdict  report.Verdict `json:"verdict"`
	Valid    bool           `json:"valid"`
	Errors   diag.List      `json:"errors"`
	Warnings diag.List      `json:"warnings"`
}

// AnalyzeResult is the analyze tool's payload.
type AnalyzeResult struct {
	CheckResult
	Stats       analyzer.Stats `json:"stats"`
	TokensSaved int            `json:"tokensSaved"`
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	logger.SetOutput(io.Discard)

	cfg := config.LoadEffective(fs.NewOSFileSystem(), ".")
	return NewServer(cfg).Run(cmd.Context(), &sdk.StdioTransport{})
}

// NewServer returns an MCP server with the check and analyze tools.
func NewServer(cfg *config.Config) *sdk.Server {
	t := &tools{opts: cfg.ReportOptions()}

	server := sdk.NewServer(&sdk.Implementation{Name: "tval", Version: version.Get()}, nil)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "check",
		Description: "Validate a TOON or JSON document and list structural errors with line and column.",
	}, t.check)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "analyze",
		Description: "Validate a TOON or JSON document and estimate its tokens against the equivalent minified JSON.",
	}, t.analyze)
	return server
}

type tools struct {
	opts report.Options
}

func (t *tools) report(in Input) (*report.Report, error) {
	hint, err := format.FromString(in.Format)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = defaultName
	}
	if hint == format.Auto {
		hint = format.Detect(name, []byte(in.Text))
	}
	return report.Analyze(name, in.Text, hint, t.opts), nil
}

func (t *tools) check(ctx context.Context, req *sdk.CallToolRequest, in Input) (*sdk.CallToolResult, any, error) {
	r, err := t.report(in)
	if err != nil {
		return nil, nil, err
	}
	res, err := textResult(checkResult(r))
	return res, nil, err
}

func (t *tools) analyze(ctx context.Context, req *sdk.CallToolRequest, in Input) (*sdk.CallToolResult, any, error) {
	r, err := t.report(in)
	if err != nil {
		return nil, nil, err
	}
	res, err := textResult(AnalyzeResult{
		CheckResult: checkResult(r),
		Stats:       r.Stats,
		TokensSaved: r.Stats.TokensSaved(),
	})
	return res, nil, err
}

func checkResult(r *report.Report) CheckResult {
	errs, warnings := r.Errors, r.Warnings
	if errs == nil {
		errs = diag.List{}
	}
	if warnings == nil {
		warnings = diag.List{}
	}
	return CheckResult{
		Source:   r.Source,
		Format:   r.Format,
		Verdict:  r.Verdict,
		Valid:    r.Valid(),
		Errors:   errs,
		Warnings: warnings,
	}
}

func textResult(v any) (*sdk.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding result: %w", err)
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
	}, nil
}
