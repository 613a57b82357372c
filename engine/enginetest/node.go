// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package enginetest

import (
	"fmt"
	"strings"

	"github.com/lexcrest/treedoc/engine"
)

// Node is a fake engine.Node built explicitly by tests.
type Node struct {
	kind       string
	named      bool
	startByte  uint32
	endByte    uint32
	startPoint engine.Point
	endPoint   engine.Point
	children   []*Node
	parent     *Node
}

var _ engine.Node = (*Node)(nil)

// NewNode builds a named node spanning [startByte, endByte) with the given
// children, linking their parent pointers. Points default to row zero with
// the byte offset as the column, which matches any single-line document.
func NewNode(kind string, startByte, endByte uint32, children ...*Node) *Node {
	n := &Node{
		kind:       kind,
		named:      true,
		startByte:  startByte,
		endByte:    endByte,
		startPoint: engine.Point{Row: 0, Column: startByte},
		endPoint:   engine.Point{Row: 0, Column: endByte},
		children:   children,
	}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// NewToken builds an anonymous leaf (punctuation, operators).
func NewToken(kind string, startByte, endByte uint32) *Node {
	n := NewNode(kind, startByte, endByte)
	n.named = false
	return n
}

// At overrides the default single-line points, for multi-line fixtures.
func (n *Node) At(start, end engine.Point) *Node {
	n.startPoint = start
	n.endPoint = end
	return n
}

func (n *Node) Kind() string { return n.kind }
func (n *Node) Named() bool { return n.named }
func (n *Node) StartByte() uint32 { return n.startByte }
func (n *Node) EndByte() uint32 { return n.endByte }
func (n *Node) StartPoint() engine.Point { return n.startPoint }
func (n *Node) EndPoint() engine.Point { return n.endPoint }

func (n *Node) Parent() engine.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) NextSibling() engine.Node { return n.sibling(1, false) }
func (n *Node) PrevSibling() engine.Node { return n.sibling(-1, false) }
func (n *Node) NextNamedSibling() engine.Node { return n.sibling(1, true) }
func (n *Node) PrevNamedSibling() engine.Node { return n.sibling(-1, true) }

func (n *Node) sibling(step int, namedOnly bool) engine.Node {
	if n.parent == nil {
		return nil
	}
	sibs := n.parent.children
	idx := -1
	for i, s := range sibs {
		if s == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for i := idx + step; i >= 0 && i < len(sibs); i += step {
		if !namedOnly || sibs[i].named {
			return sibs[i]
		}
	}
	return nil
}

func (n *Node) ChildCount() uint32 { return uint32(len(n.children)) }

func (n *Node) Child(i uint32) engine.Node {
	if i >= uint32(len(n.children)) {
		return nil
	}
	return n.children[i]
}

func (n *Node) NamedChildCount() uint32 {
	var count uint32
	for _, c := range n.children {
		if c.named {
			count++
		}
	}
	return count
}

func (n *Node) NamedChild(i uint32) engine.Node {
	var seen uint32
	for _, c := range n.children {
		if !c.named {
			continue
		}
		if seen == i {
			return c
		}
		seen++
	}
	return nil
}

func (n *Node) DescendantForByteRange(min, max uint32) engine.Node {
	return engine.FindDescendantForByteRange(n, min, max, false)
}

func (n *Node) NamedDescendantForByteRange(min, max uint32) engine.Node {
	return engine.FindDescendantForByteRange(n, min, max, true)
}

func (n *Node) DescendantForPointRange(min, max engine.Point) engine.Node {
	return engine.FindDescendantForPointRange(n, min, max, false)
}

func (n *Node) NamedDescendantForPointRange(min, max engine.Point) engine.Node {
	return engine.FindDescendantForPointRange(n, min, max, true)
}

// String renders the subtree as an S-expression in tree-sitter's style:
// named nodes as (kind ...), anonymous tokens as quoted text.
func (n *Node) String() string {
	var b strings.Builder
	n.sexp(&b)
	return b.String()
}

func (n *Node) sexp(b *strings.Builder) {
	if !n.named {
		fmt.Fprintf(b, "%q", n.kind)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.kind)
	for _, c := range n.children {
		b.WriteByte(' ')
		c.sexp(b)
	}
	b.WriteByte(')')
}
