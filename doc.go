// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package treedoc exposes a mutable, incrementally-reparsed syntax tree to
// a host through generation-checked node handles.
//
// A parse engine destroys and rebuilds its tree on every reparse, yet
// hosts hold references to nodes from earlier trees. treedoc makes that
// safe without weak pointers or reference counting: the Document carries a
// monotonically increasing generation counter, every Node handle is
// stamped with the generation it was minted at, and every accessor
// compares the two before dereferencing the engine node. A superseded
// handle never reads freed memory; it just answers with absent results.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Document                             │
//	│   generation ── pending edit ── ByteSource ── TraceSink     │
//	│        │                            │             │         │
//	│        ▼                            ▼             ▼         │
//	│   Node handles              Input Source     Diagnostic     │
//	│   (gen-tagged)                Adapter       Sink Adapter    │
//	└────────┬────────────────────────┬─────────────┬─────────────┘
//	         ▼                        ▼             ▼
//	              engine.Engine  (external incremental parser)
//
// Host-facing offsets are coordinate units of BytesPerUnit bytes (UTF-16
// code units); the engine works in bytes. The two adapters and the node
// accessors carry the conversion, nothing else does.
//
// # Usage
//
//	doc := treedoc.New(treesitter.New())
//	if err := doc.SetLanguage(treesitter.Grammar(javascript.GetLanguage())); err != nil {
//		return err
//	}
//	src := treedoc.NewStringSource("1+2")
//	if err := doc.SetInput(src); err != nil {
//		return err
//	}
//	if err := doc.Parse(ctx); err != nil {
//		return err
//	}
//	root := doc.Root()
//	kind, _ := root.Kind()
//
//	src.SetText("1*2")
//	doc.Edit(treedoc.Edit{Position: 1, UnitsRemoved: 1, UnitsInserted: 1})
//	if err := doc.Parse(ctx); err != nil {
//		return err
//	}
//	root.Valid() // false: fetch doc.Root() again
package treedoc

// BytesPerUnit is the width of one host coordinate unit in engine bytes.
// Offsets cross the host/engine boundary by exact multiplication or
// division by this constant; multi-unit (surrogate-pair) characters get no
// special casing.
const BytesPerUnit = 2
