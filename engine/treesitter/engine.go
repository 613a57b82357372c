// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package treesitter implements engine.Engine on top of tree-sitter via
// github.com/smacker/go-tree-sitter.
//
// The parser is fed through tree-sitter's pull interface with UTF-16
// encoding, so the engine itself decides chunk sizing and call cadence
// against the installed input. The adapter keeps a byte-accurate copy of
// the text it saw on the last parse; tree-sitter's edit API wants
// row/column points as well as byte offsets, and those rows can only be
// recovered from the text.
package treesitter

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/lexcrest/treedoc/engine"
)

// readChunkBytes is the read size requested from the input source per
// lexer callback.
const readChunkBytes = 1024

// Grammar wraps a tree-sitter language as an opaque engine.Language.
func Grammar(lang *sitter.Language) engine.Language {
	return lang
}

// Engine drives one tree-sitter parser and owns its current tree.
type Engine struct {
	parser      *sitter.Parser
	tree        *sitter.Tree
	input       engine.Input
	logger      engine.Logger
	content     []byte
	invalidated bool
	debugGraphs bool
	closed      bool
}

var _ engine.Engine = (*Engine)(nil)

// New returns an engine with no grammar, input, or tree.
func New() *Engine {
	return &Engine{parser: sitter.NewParser()}
}

// SetLanguage accepts a non-nil *sitter.Language (as produced by the
// generated grammar packages) and rejects everything else.
func (e *Engine) SetLanguage(lang engine.Language) error {
	l, ok := lang.(*sitter.Language)
	if !ok || l == nil {
		return fmt.Errorf("grammar must be a non-nil *sitter.Language, got %T", lang)
	}
	e.parser.SetLanguage(l)
	return nil
}

func (e *Engine) SetInput(input engine.Input) {
	e.input = input
}

func (e *Engine) SetLogger(logger engine.Logger) {
	e.logger = logger
}

// Edit shifts the current tree to match an edit the input source has
// already absorbed. The new text is unavailable until that source is read
// again at the next parse, so the patched span is modeled as a same-row
// run of blanks; the parse that follows reads the real bytes.
func (e *Engine) Edit(edit engine.InputEdit) {
	if e.tree == nil {
		return
	}
	start := edit.StartByte
	oldEnd := start + edit.BytesRemoved
	newEnd := start + edit.BytesInserted

	startPoint := pointAt(e.content, start)
	e.tree.Edit(sitter.EditInput{
		StartIndex:  start,
		OldEndIndex: oldEnd,
		NewEndIndex: newEnd,
		StartPoint:  toSitterPoint(startPoint),
		OldEndPoint: toSitterPoint(pointAt(e.content, oldEnd)),
		NewEndPoint: toSitterPoint(engine.Point{
			Row:    startPoint.Row,
			Column: startPoint.Column + edit.BytesInserted,
		}),
	})
	e.content = spliceBlanks(e.content, start, oldEnd, edit.BytesInserted)
	e.log(engine.LogParse, fmt.Sprintf("edit at byte %d: -%d +%d", start, edit.BytesRemoved, edit.BytesInserted))
}

func (e *Engine) Invalidate() {
	e.invalidated = true
	e.log(engine.LogParse, "incremental state invalidated")
}

func (e *Engine) SetDebugGraphs(enabled bool) {
	e.debugGraphs = enabled
}

// Parse runs tree-sitter over the installed input. With no prior
// Invalidate, the previous tree is offered for incremental subtree reuse.
func (e *Engine) Parse(ctx context.Context) error {
	if e.closed {
		return errors.New("engine is closed")
	}

	var old *sitter.Tree
	if !e.invalidated {
		old = e.tree
	}

	buf := append([]byte(nil), e.content...)
	read := func(offset uint32, _ sitter.Point) []byte {
		if e.input.Read == nil {
			return nil
		}
		if e.input.Seek != nil {
			e.input.Seek(offset)
		}
		chunk := e.input.Read(readChunkBytes)
		buf = patchAt(buf, offset, chunk)
		e.log(engine.LogLex, fmt.Sprintf("read %d bytes at offset %d", len(chunk), offset))
		return chunk
	}

	tree, err := e.parser.ParseInputCtx(ctx, old, sitter.Input{
		Encoding: sitter.InputEncodingUTF16,
		Read:     read,
	})
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	if e.tree != nil {
		e.tree.Close()
	}
	e.tree = tree
	e.content = buf
	e.invalidated = false

	if root := tree.RootNode(); root != nil {
		e.log(engine.LogParse, fmt.Sprintf("parsed %s spanning bytes [%d,%d)",
			root.Type(), root.StartByte(), root.EndByte()))
		if e.debugGraphs {
			e.log(engine.LogGraph, root.String())
		}
	}
	return nil
}

func (e *Engine) RootNode() engine.Node {
	if e.tree == nil {
		return nil
	}
	return wrapNode(e.tree.RootNode())
}

// Close frees the current tree. The parser itself is released by its
// finalizer.
func (e *Engine) Close() error {
	if e.tree != nil {
		e.tree.Close()
		e.tree = nil
	}
	e.content = nil
	e.closed = true
	return nil
}

func (e *Engine) log(kind engine.LogKind, message string) {
	if e.logger.Log != nil {
		e.logger.Log(kind, message)
	}
}

func toSitterPoint(p engine.Point) sitter.Point {
	return sitter.Point{Row: p.Row, Column: p.Column}
}

// pointAt recovers the row/column of a byte offset from UTF-16LE text.
// Columns are bytes since the last newline, matching tree-sitter.
func pointAt(text []byte, offset uint32) engine.Point {
	if offset > uint32(len(text)) {
		offset = uint32(len(text))
	}
	var p engine.Point
	for i := uint32(0); i+1 < offset; i += 2 {
		if text[i] == '\n' && text[i+1] == 0 {
			p.Row++
			p.Column = 0
		} else {
			p.Column += 2
		}
	}
	return p
}

// spliceBlanks replaces text[start:oldEnd] with inserted bytes of UTF-16
// spaces, keeping the tracked text length consistent with the edited
// source until the next parse reads the real bytes.
func spliceBlanks(text []byte, start, oldEnd, inserted uint32) []byte {
	if start > uint32(len(text)) {
		start = uint32(len(text))
	}
	if oldEnd > uint32(len(text)) {
		oldEnd = uint32(len(text))
	}
	if oldEnd < start {
		oldEnd = start
	}
	out := make([]byte, 0, uint32(len(text))-(oldEnd-start)+inserted)
	out = append(out, text[:start]...)
	for i := uint32(0); i < inserted/2; i++ {
		out = append(out, ' ', 0)
	}
	out = append(out, text[oldEnd:]...)
	return out
}

// patchAt overlays chunk onto buf at the given offset, growing buf as
// needed. Incremental parses only re-read changed regions, so the rest of
// buf keeps the carried-over text.
func patchAt(buf []byte, offset uint32, chunk []byte) []byte {
	if len(chunk) == 0 {
		return buf
	}
	end := int(offset) + len(chunk)
	if len(buf) < end {
		buf = append(buf, make([]byte, end-len(buf))...)
	}
	copy(buf[offset:end], chunk)
	return buf
}
