// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import (
	"fmt"
	"math"

	"github.com/lexcrest/treedoc/engine"
)

// Point is a zero-based row/column position, passed through from the
// engine unconverted (columns are byte columns, not unit-scaled).
type Point = engine.Point

// Node is a generation-tagged, read-only handle on a tree node. It is a
// small copyable value; copies share nothing but the reference.
//
// A handle is valid only while its document's generation still equals the
// generation it was minted at. Every accessor re-checks this before
// touching the underlying node reference, because the engine may have
// freed or repurposed that reference during any parse since. A stale
// handle is not an error: accessors answer with the zero value and
// ok == false (or a zero Node), and the handle stays safely inert forever.
//
// The zero Node is the absent node; Exists reports false for it.
type Node struct {
	doc *Document
	ref engine.Node
	gen uint64
}

// Exists reports whether the handle refers to a node at all, regardless of
// staleness.
func (n Node) Exists() bool {
	return n.ref != nil
}

// Valid reports whether the handle's generation still matches its
// document's, i.e. whether accessors will answer. It never touches the
// node reference, so it is safe to poll at any rate.
func (n Node) Valid() bool {
	return n.ref != nil && n.doc != nil && n.gen == n.doc.generation
}

// resolve gates every dereference of the node reference. This comparison
// is the single mechanism keeping a superseded reference from ever being
// read.
func (n Node) resolve() (engine.Node, bool) {
	if !n.Valid() {
		return nil, false
	}
	return n.ref, true
}

// wrap mints a handle at the same generation as n for an engine node
// reached by navigating from it.
func (n Node) wrap(ref engine.Node) Node {
	if ref == nil {
		return Node{}
	}
	return Node{doc: n.doc, ref: ref, gen: n.gen}
}

// Kind returns the node's grammar symbol name.
func (n Node) Kind() (string, bool) {
	ref, ok := n.resolve()
	if !ok {
		return "", false
	}
	return ref.Kind(), true
}

// Named reports whether the node is a named rule rather than an anonymous
// token.
func (n Node) Named() (named, ok bool) {
	ref, ok := n.resolve()
	if !ok {
		return false, false
	}
	return ref.Named(), true
}

// StartIndex returns the node's start offset in coordinate units.
func (n Node) StartIndex() (uint32, bool) {
	ref, ok := n.resolve()
	if !ok {
		return 0, false
	}
	return ref.StartByte() / BytesPerUnit, true
}

// EndIndex returns the node's end offset in coordinate units.
func (n Node) EndIndex() (uint32, bool) {
	ref, ok := n.resolve()
	if !ok {
		return 0, false
	}
	return ref.EndByte() / BytesPerUnit, true
}

// StartPosition returns the node's start row/column.
func (n Node) StartPosition() (Point, bool) {
	ref, ok := n.resolve()
	if !ok {
		return Point{}, false
	}
	return ref.StartPoint(), true
}

// EndPosition returns the node's end row/column.
func (n Node) EndPosition() (Point, bool) {
	ref, ok := n.resolve()
	if !ok {
		return Point{}, false
	}
	return ref.EndPoint(), true
}

// Parent returns the node's parent, or a zero Node at the root or on a
// stale handle.
func (n Node) Parent() Node {
	ref, ok := n.resolve()
	if !ok {
		return Node{}
	}
	return n.wrap(ref.Parent())
}

// NextSibling returns the following sibling, named or not.
func (n Node) NextSibling() Node {
	ref, ok := n.resolve()
	if !ok {
		return Node{}
	}
	return n.wrap(ref.NextSibling())
}

// PrevSibling returns the preceding sibling, named or not.
func (n Node) PrevSibling() Node {
	ref, ok := n.resolve()
	if !ok {
		return Node{}
	}
	return n.wrap(ref.PrevSibling())
}

// NextNamedSibling returns the following named sibling.
func (n Node) NextNamedSibling() Node {
	ref, ok := n.resolve()
	if !ok {
		return Node{}
	}
	return n.wrap(ref.NextNamedSibling())
}

// PrevNamedSibling returns the preceding named sibling.
func (n Node) PrevNamedSibling() Node {
	ref, ok := n.resolve()
	if !ok {
		return Node{}
	}
	return n.wrap(ref.PrevNamedSibling())
}

// Children returns a lazy view over all of the node's children.
func (n Node) Children() NodeList {
	return NodeList{doc: n.doc, ref: n.ref, gen: n.gen}
}

// NamedChildren returns a lazy view over the node's named children.
func (n Node) NamedChildren() NodeList {
	return NodeList{doc: n.doc, ref: n.ref, gen: n.gen, named: true}
}

// String renders the node's subtree as an S-expression, or "" on a stale
// or zero handle.
func (n Node) String() string {
	ref, ok := n.resolve()
	if !ok {
		return ""
	}
	return ref.String()
}

// DescendantForIndex returns the deepest node containing the given
// unit-offset range. One offset is a degenerate range; two are (min, max)
// in caller order, with no min ≤ max validation (delegated to the engine).
// Any other count fails with ErrInvalidArity; an offset that cannot be
// scaled into the engine's byte space fails with ErrInvalidArgument.
//
// A stale handle returns a zero Node and no error; argument validation
// only happens on a live handle.
func (n Node) DescendantForIndex(offsets ...uint32) (Node, error) {
	ref, ok := n.resolve()
	if !ok {
		return Node{}, nil
	}
	min, max, err := byteBounds(offsets)
	if err != nil {
		return Node{}, err
	}
	return n.wrap(ref.DescendantForByteRange(min, max)), nil
}

// NamedDescendantForIndex is DescendantForIndex restricted to named nodes.
func (n Node) NamedDescendantForIndex(offsets ...uint32) (Node, error) {
	ref, ok := n.resolve()
	if !ok {
		return Node{}, nil
	}
	min, max, err := byteBounds(offsets)
	if err != nil {
		return Node{}, err
	}
	return n.wrap(ref.NamedDescendantForByteRange(min, max)), nil
}

// DescendantForPosition is the row/column analogue of DescendantForIndex.
func (n Node) DescendantForPosition(points ...Point) (Node, error) {
	ref, ok := n.resolve()
	if !ok {
		return Node{}, nil
	}
	min, max, err := pointBounds(points)
	if err != nil {
		return Node{}, err
	}
	return n.wrap(ref.DescendantForPointRange(min, max)), nil
}

// NamedDescendantForPosition is DescendantForPosition restricted to named
// nodes.
func (n Node) NamedDescendantForPosition(points ...Point) (Node, error) {
	ref, ok := n.resolve()
	if !ok {
		return Node{}, nil
	}
	min, max, err := pointBounds(points)
	if err != nil {
		return Node{}, err
	}
	return n.wrap(ref.NamedDescendantForPointRange(min, max)), nil
}

func byteBounds(offsets []uint32) (min, max uint32, err error) {
	switch len(offsets) {
	case 1:
		b, err := unitsToBytes(offsets[0])
		return b, b, err
	case 2:
		min, err = unitsToBytes(offsets[0])
		if err != nil {
			return 0, 0, err
		}
		max, err = unitsToBytes(offsets[1])
		if err != nil {
			return 0, 0, err
		}
		return min, max, nil
	default:
		return 0, 0, fmt.Errorf("%w: need 1 or 2 unit offsets, got %d", ErrInvalidArity, len(offsets))
	}
}

func pointBounds(points []Point) (min, max Point, err error) {
	switch len(points) {
	case 1:
		return points[0], points[0], nil
	case 2:
		return points[0], points[1], nil
	default:
		return Point{}, Point{}, fmt.Errorf("%w: need 1 or 2 points, got %d", ErrInvalidArity, len(points))
	}
}

func unitsToBytes(u uint32) (uint32, error) {
	if u > math.MaxUint32/BytesPerUnit {
		return 0, fmt.Errorf("%w: unit offset %d overflows the engine's byte space", ErrInvalidArgument, u)
	}
	return u * BytesPerUnit, nil
}
