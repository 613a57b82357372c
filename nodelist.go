// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import "github.com/lexcrest/treedoc/engine"

// NodeList is a lazy, indexable view over one node's children, either all
// of them or named ones only. It holds no materialized slice: Len and At
// delegate to the engine's child-count and child-at operations, and each
// At mints a fresh handle at the generation captured when the view was
// created.
//
// Like a Node, a list created before a parse answers emptily afterwards:
// Len reports 0 and At returns zero handles.
type NodeList struct {
	doc   *Document
	ref   engine.Node
	gen   uint64
	named bool
}

func (l NodeList) resolve() (engine.Node, bool) {
	if l.ref == nil || l.doc == nil || l.gen != l.doc.generation {
		return nil, false
	}
	return l.ref, true
}

// Len returns the number of children in view, or 0 on a stale list.
func (l NodeList) Len() int {
	ref, ok := l.resolve()
	if !ok {
		return 0
	}
	if l.named {
		return int(ref.NamedChildCount())
	}
	return int(ref.ChildCount())
}

// At returns the i-th child in view, or a zero Node when i is out of range
// or the list is stale.
func (l NodeList) At(i int) Node {
	ref, ok := l.resolve()
	if !ok || i < 0 {
		return Node{}
	}
	var child engine.Node
	if l.named {
		child = ref.NamedChild(uint32(i))
	} else {
		child = ref.Child(uint32(i))
	}
	if child == nil {
		return Node{}
	}
	return Node{doc: l.doc, ref: child, gen: l.gen}
}
