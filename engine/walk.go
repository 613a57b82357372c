// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// FindDescendantForByteRange walks from n to the deepest node whose
// [start,end) byte span contains [min,max). n itself is always a
// candidate, so a range wider than n still answers with n; this matches
// tree-sitter's descendant queries. With namedOnly set, anonymous nodes
// are passed through but never returned, and nil is returned when the
// filter rejects every candidate.
//
// Engine implementations whose native API lacks a descendant-for-range
// query can delegate to this; it only requires child indexing and byte
// bounds.
func FindDescendantForByteRange(n Node, min, max uint32, namedOnly bool) Node {
	if n == nil {
		return nil
	}
	var best Node
	cur := n
	for {
		if !namedOnly || cur.Named() {
			best = cur
		}
		next := childContainingBytes(cur, min, max)
		if next == nil {
			return best
		}
		cur = next
	}
}

// FindDescendantForPointRange is the row/column analogue of
// FindDescendantForByteRange.
func FindDescendantForPointRange(n Node, min, max Point, namedOnly bool) Node {
	if n == nil {
		return nil
	}
	var best Node
	cur := n
	for {
		if !namedOnly || cur.Named() {
			best = cur
		}
		next := childContainingPoints(cur, min, max)
		if next == nil {
			return best
		}
		cur = next
	}
}

// First child containing the range wins; later equal-span siblings are
// never considered.
func childContainingBytes(n Node, min, max uint32) Node {
	count := n.ChildCount()
	for i := uint32(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.StartByte() <= min && max <= c.EndByte() {
			return c
		}
	}
	return nil
}

func childContainingPoints(n Node, min, max Point) Node {
	count := n.ChildCount()
	for i := uint32(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if !min.Less(c.StartPoint()) && !c.EndPoint().Less(max) {
			return c
		}
	}
	return nil
}
