/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp implements a language server that publishes tval diagnostics
// for open TOON and JSON documents.
package lsp

import (
	"net/url"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"bennypowers.dev/tval/config"
	"bennypowers.dev/tval/format"
	"bennypowers.dev/tval/internal/logger"
	"bennypowers.dev/tval/internal/version"
	"bennypowers.dev/tval/report"
)

const name = "tval"

// Server analyzes documents as they are opened and edited.
type Server struct {
	cfg     *config.Config
	store   *Store
	handler protocol.Handler
}

// New returns a server using cfg for formats and pipeline options.
func New(cfg *config.Config) *Server {
	s := &Server{cfg: cfg, store: NewStore()}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.didOpen,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidClose:  s.didClose,
	}
	return s
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, name, false).RunStdio()
}

// Analyze runs the pipeline over text as the document at uri.
func (s *Server) Analyze(uri protocol.DocumentUri, text string) *report.Report {
	path := uriPath(uri)
	hint := s.cfg.FormatForFile(path)
	if hint == format.Auto {
		hint = format.Detect(path, []byte(text))
	}
	return report.Analyze(path, text, hint, s.cfg.ReportOptions())
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}

	v := version.Get()
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    name,
			Version: &v,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	logger.Debug("lsp initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := s.store.Open(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	s.publish(ctx, *doc)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc := s.store.Update(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges)
	s.publish(ctx, doc)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.store.Close(uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) publish(ctx *glsp.Context, doc Document) {
	r := s.Analyze(doc.URI, doc.Text)
	logger.Debug("%s: %s, %d errors", doc.URI, r.Verdict, len(r.Errors))

	v := protocol.UInteger(doc.Version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &v,
		Diagnostics: Diagnostics(doc.Text, r),
	})
}

// uriPath returns the filesystem path of a file URI, or uri unchanged.
func uriPath(uri protocol.DocumentUri) string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return string(uri)
	}
	return u.Path
}
