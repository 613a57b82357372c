// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/lexcrest/treedoc/engine"
)

// node adapts a *sitter.Node to engine.Node. The wrapped pointer indexes
// into tree-sitter's own node storage; it carries no lifetime and dangles
// once its tree is superseded, which is exactly the contract engine.Node
// documents.
type node struct {
	inner *sitter.Node
}

var _ engine.Node = node{}

func wrapNode(n *sitter.Node) engine.Node {
	if n == nil {
		return nil
	}
	return node{inner: n}
}

func (n node) Kind() string { return n.inner.Type() }
func (n node) Named() bool { return n.inner.IsNamed() }

func (n node) StartByte() uint32 { return n.inner.StartByte() }
func (n node) EndByte() uint32 { return n.inner.EndByte() }

func (n node) StartPoint() engine.Point { return fromSitterPoint(n.inner.StartPoint()) }
func (n node) EndPoint() engine.Point { return fromSitterPoint(n.inner.EndPoint()) }

func (n node) Parent() engine.Node { return wrapNode(n.inner.Parent()) }
func (n node) NextSibling() engine.Node { return wrapNode(n.inner.NextSibling()) }
func (n node) PrevSibling() engine.Node { return wrapNode(n.inner.PrevSibling()) }
func (n node) NextNamedSibling() engine.Node { return wrapNode(n.inner.NextNamedSibling()) }
func (n node) PrevNamedSibling() engine.Node { return wrapNode(n.inner.PrevNamedSibling()) }

func (n node) ChildCount() uint32 { return n.inner.ChildCount() }
func (n node) NamedChildCount() uint32 { return n.inner.NamedChildCount() }

func (n node) Child(i uint32) engine.Node {
	return wrapNode(n.inner.Child(int(i)))
}

func (n node) NamedChild(i uint32) engine.Node {
	return wrapNode(n.inner.NamedChild(int(i)))
}

// The smacker binding exposes no descendant-for-range query, so the
// containment walk lives here.

func (n node) DescendantForByteRange(min, max uint32) engine.Node {
	return engine.FindDescendantForByteRange(n, min, max, false)
}

func (n node) NamedDescendantForByteRange(min, max uint32) engine.Node {
	return engine.FindDescendantForByteRange(n, min, max, true)
}

func (n node) DescendantForPointRange(min, max engine.Point) engine.Node {
	return engine.FindDescendantForPointRange(n, min, max, false)
}

func (n node) NamedDescendantForPointRange(min, max engine.Point) engine.Node {
	return engine.FindDescendantForPointRange(n, min, max, true)
}

func (n node) String() string { return n.inner.String() }

func fromSitterPoint(p sitter.Point) engine.Point {
	return engine.Point{Row: p.Row, Column: p.Column}
}
