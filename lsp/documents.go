/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an open text document.
type Document struct {
	URI     protocol.DocumentUri
	Version protocol.Integer
	Text    string
}

// Store holds open documents. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*Document
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[protocol.DocumentUri]*Document)}
}

// Open records a newly opened document.
func (s *Store) Open(uri protocol.DocumentUri, version protocol.Integer, text string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := &Document{URI: uri, Version: version, Text: text}
	s.docs[uri] = doc
	return doc
}

// Update applies content changes in order and returns a snapshot of the
// result. Unknown documents start empty.
func (s *Store) Update(uri protocol.DocumentUri, version protocol.Integer, changes []any) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc.Text = c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			doc.Text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			doc.Text = applyChange(doc.Text, c.Range, c.Text)
		case *protocol.TextDocumentContentChangeEvent:
			doc.Text = applyChange(doc.Text, c.Range, c.Text)
		}
	}
	doc.Version = version
	return *doc
}

// Close forgets a document.
func (s *Store) Close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns a snapshot of a document.
func (s *Store) Get(uri protocol.DocumentUri) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// applyChange replaces rng in text. A nil range replaces everything.
func applyChange(text string, rng *protocol.Range, newText string) string {
	if rng == nil {
		return newText
	}
	start := offset(text, rng.Start)
	end := max(start, offset(text, rng.End))
	return text[:start] + newText + text[end:]
}

// offset converts a UTF-16 position to a byte offset, clamping to the text.
func offset(text string, pos protocol.Position) int {
	lineStart := 0
	for range pos.Line {
		i := strings.IndexByte(text[lineStart:], '\n')
		if i < 0 {
			return len(text)
		}
		lineStart += i + 1
	}

	units := int(pos.Character)
	i := lineStart
	for i < len(text) && units > 0 {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' {
			break
		}
		units -= utf16.RuneLen(r)
		i += size
	}
	return i
}
