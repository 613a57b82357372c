// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine defines the boundary between treedoc and an incremental
// parse engine.
//
// The engine owns the syntax tree and everything inside it: grammar tables,
// the lexer, incremental subtree reuse, node storage. treedoc owns nothing
// below this interface; it only installs an input source and a log callback,
// applies edits, triggers parses, and navigates the resulting nodes.
//
// All offsets crossing this boundary are byte offsets. The host-facing
// coordinate system (fixed-width units, two bytes per unit) is treedoc's
// concern and never leaks into an Engine implementation.
package engine

import "context"

// Point is a zero-based row/column position. Column is measured in bytes
// from the start of the row, matching tree-sitter's convention.
type Point struct {
	Row    uint32
	Column uint32
}

// Less reports whether p orders strictly before q (row-major).
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Column < q.Column
}

// InputEdit describes a text patch in engine byte coordinates. It is handed
// to the engine before the parse that observes the new text, so the engine
// can shift its cached tree and reuse unaffected subtrees.
type InputEdit struct {
	StartByte     uint32
	BytesRemoved  uint32
	BytesInserted uint32
}

// Input is the pull-based read contract an engine lexes from. Seek
// repositions the read cursor to an absolute byte offset; Read returns the
// next chunk from the cursor, at most byteCount bytes, advancing it. An
// empty result signals end of input. A zero Input is a zero-length source.
//
// The engine is the sole authority on chunk sizing and call cadence; Input
// implementations must not assume any particular read pattern.
type Input struct {
	Seek func(byteOffset uint32)
	Read func(byteCount uint32) []byte
}

// LogKind tags a trace record emitted by an engine.
type LogKind int

const (
	// LogParse marks records from the parser proper (reductions, errors,
	// subtree reuse).
	LogParse LogKind = iota

	// LogLex marks records from the lexer.
	LogLex

	// LogGraph marks debug-graph output, emitted only when debug graphs
	// are enabled on the engine.
	LogGraph
)

// String returns the tag's wire name.
func (k LogKind) String() string {
	switch k {
	case LogParse:
		return "parse"
	case LogLex:
		return "lex"
	case LogGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Logger is the trace contract an engine reports through. A zero Logger
// disables tracing.
type Logger struct {
	Log func(kind LogKind, message string)
}

// Language is an opaque grammar capability. Each Engine implementation
// recognizes only its own language values; SetLanguage rejects anything
// else.
type Language any

// Engine is an incremental parse engine as seen by a treedoc Document.
//
// Implementations are single-threaded and non-reentrant: the caller
// serializes all calls, and Parse runs to completion driving Input
// synchronously. RootNode returns nil until a parse has completed, and the
// returned Node (like every Node reachable from it) is only meaningful
// until the next Parse; guarding against use of superseded nodes is the
// caller's job, not the engine's.
type Engine interface {
	// SetLanguage binds a grammar. It does not trigger a parse.
	SetLanguage(lang Language) error

	// SetInput installs the byte source for subsequent parses. A zero
	// Input reads as a zero-length document.
	SetInput(input Input)

	// SetLogger installs the trace callback. A zero Logger disables it.
	SetLogger(logger Logger)

	// Edit records a text patch against the current tree so the next
	// Parse can reuse unaffected subtrees. A no-op before the first parse.
	Edit(edit InputEdit)

	// Invalidate discards incremental-reuse state; the next Parse is a
	// full reparse.
	Invalidate()

	// SetDebugGraphs toggles emission of LogGraph records.
	SetDebugGraphs(enabled bool)

	// Parse (re)builds the tree from the installed input. On success the
	// previous tree and every node obtained from it are superseded.
	Parse(ctx context.Context) error

	// RootNode returns the current tree's root, or nil if no parse has
	// completed.
	RootNode() Node

	// Close releases the engine's tree state. The engine must not be used
	// afterwards.
	Close() error
}

// Node is a single node of an engine's current tree. Implementations are
// cheap value-like references into engine-owned storage; they carry no
// lifetime of their own and dangle once the tree they came from is
// superseded.
//
// Navigation methods return an untyped nil interface (never a typed nil)
// when the requested node does not exist.
type Node interface {
	// Kind returns the node's grammar symbol name.
	Kind() string

	// Named reports whether the node is a named rule as opposed to an
	// anonymous token.
	Named() bool

	StartByte() uint32
	EndByte() uint32
	StartPoint() Point
	EndPoint() Point

	Parent() Node
	NextSibling() Node
	PrevSibling() Node
	NextNamedSibling() Node
	PrevNamedSibling() Node

	ChildCount() uint32
	Child(i uint32) Node
	NamedChildCount() uint32
	NamedChild(i uint32) Node

	// DescendantForByteRange returns the smallest (deepest) node whose
	// [start,end) span contains [min,max), this node included. Ties among
	// equal-depth candidates resolve to the first in traversal order. The
	// Named variant restricts results to named nodes.
	DescendantForByteRange(min, max uint32) Node
	NamedDescendantForByteRange(min, max uint32) Node

	// DescendantForPointRange is the row/column analogue of
	// DescendantForByteRange.
	DescendantForPointRange(min, max Point) Node
	NamedDescendantForPointRange(min, max Point) Node

	// String renders the node's subtree as an S-expression.
	String() string
}
