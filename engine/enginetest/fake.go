// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package enginetest provides an in-memory engine.Engine for tests.
//
// The fake behaves like a real engine at the boundary treedoc cares about:
// Parse drains the installed input through seek/read in fixed-size chunks,
// builds a tree from the bytes it saw, and reports through the installed
// logger. Tree shape is controlled per test via BuildTree; the default is a
// single root node spanning the whole document.
package enginetest

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexcrest/treedoc/engine"
)

// readChunk is deliberately small so multi-chunk reads are exercised even
// by short test documents.
const readChunk = 4

// Grammar is the opaque language value the fake engine recognizes.
type Grammar struct {
	// Rule names the grammar's top rule; the default BuildTree uses it as
	// the root node kind.
	Rule string
}

// Engine is a fake engine.Engine. The exported fields record the calls a
// test wants to assert on.
type Engine struct {
	// BuildTree builds the tree for Parse from the drained input bytes.
	// Nil means a single named root spanning the content, with the bound
	// grammar's top rule as its kind.
	BuildTree func(content []byte) *Node

	// ParseErr, when set, makes Parse fail without touching the tree.
	ParseErr error

	// Recorded calls.
	ParseCalls  int
	Edits       []engine.InputEdit
	Invalidated bool
	DebugGraphs bool
	LastContent []byte

	grammar *Grammar
	input   engine.Input
	logger  engine.Logger
	root    *Node
	closed  bool
}

var _ engine.Engine = (*Engine)(nil)

// New returns an empty fake engine.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) SetLanguage(lang engine.Language) error {
	g, ok := lang.(*Grammar)
	if !ok || g == nil {
		return fmt.Errorf("unrecognized grammar value %T", lang)
	}
	e.grammar = g
	return nil
}

func (e *Engine) SetInput(input engine.Input) {
	e.input = input
}

func (e *Engine) SetLogger(logger engine.Logger) {
	e.logger = logger
}

func (e *Engine) Edit(edit engine.InputEdit) {
	e.Edits = append(e.Edits, edit)
}

func (e *Engine) Invalidate() {
	e.Invalidated = true
}

func (e *Engine) SetDebugGraphs(enabled bool) {
	e.DebugGraphs = enabled
}

// Parse drains the input from offset 0 in readChunk-sized reads, then
// builds the tree.
func (e *Engine) Parse(ctx context.Context) error {
	if e.closed {
		return errors.New("engine is closed")
	}
	if e.ParseErr != nil {
		return e.ParseErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var content []byte
	if e.input.Read != nil {
		if e.input.Seek != nil {
			e.input.Seek(0)
		}
		for {
			chunk := e.input.Read(readChunk)
			if len(chunk) == 0 {
				break
			}
			content = append(content, chunk...)
		}
	}

	if e.BuildTree != nil {
		e.root = e.BuildTree(content)
	} else {
		rule := "document"
		if e.grammar != nil && e.grammar.Rule != "" {
			rule = e.grammar.Rule
		}
		e.root = NewNode(rule, 0, uint32(len(content)))
	}

	e.LastContent = content
	e.Invalidated = false
	e.ParseCalls++

	e.log(engine.LogParse, fmt.Sprintf("parsed %d bytes", len(content)))
	if e.DebugGraphs && e.root != nil {
		e.log(engine.LogGraph, e.root.String())
	}
	return nil
}

func (e *Engine) RootNode() engine.Node {
	if e.root == nil {
		return nil
	}
	return e.root
}

func (e *Engine) Close() error {
	e.root = nil
	e.closed = true
	return nil
}

func (e *Engine) log(kind engine.LogKind, message string) {
	if e.logger.Log != nil {
		e.logger.Log(kind, message)
	}
}
