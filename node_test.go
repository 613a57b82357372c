// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcrest/treedoc/engine/enginetest"
)

// parsedExprRoot parses the "1+2" fixture and returns its root.
func parsedExprRoot(t *testing.T) (*Document, Node) {
	t.Helper()
	doc, _ := newExprDoc(t)
	require.NoError(t, doc.Parse(context.Background()))
	return doc, doc.Root()
}

func TestZeroNode(t *testing.T) {
	var n Node
	assert.False(t, n.Exists())
	assert.False(t, n.Valid())
	_, ok := n.Kind()
	assert.False(t, ok)
	assert.False(t, n.Parent().Exists())
	assert.Equal(t, "", n.String())
	assert.Equal(t, 0, n.Children().Len())
}

func TestNodeScalarAccessors(t *testing.T) {
	_, root := parsedExprRoot(t)
	num := root.Children().At(0)
	op := root.Children().At(1)

	kind, ok := num.Kind()
	require.True(t, ok)
	assert.Equal(t, "number", kind)

	named, ok := num.Named()
	require.True(t, ok)
	assert.True(t, named)

	named, ok = op.Named()
	require.True(t, ok)
	assert.False(t, named)

	// Engine bytes halve into coordinate units.
	start, _ := op.StartIndex()
	end, _ := op.EndIndex()
	assert.Equal(t, uint32(1), start)
	assert.Equal(t, uint32(2), end)

	// Positions pass through unconverted.
	pos, ok := op.StartPosition()
	require.True(t, ok)
	assert.Equal(t, Point{Row: 0, Column: 2}, pos)
	pos, ok = op.EndPosition()
	require.True(t, ok)
	assert.Equal(t, Point{Row: 0, Column: 4}, pos)
}

func TestUnitByteRoundTrip(t *testing.T) {
	for _, u := range []uint32{0, 1, 3, 1 << 20, math.MaxUint32 / BytesPerUnit} {
		b, err := unitsToBytes(u)
		require.NoError(t, err)
		assert.Equal(t, u, b/BytesPerUnit)
	}
}

func TestNodeNavigation(t *testing.T) {
	_, root := parsedExprRoot(t)
	num1 := root.Children().At(0)
	op := root.Children().At(1)
	num2 := root.Children().At(2)

	assert.Equal(t, op, num1.NextSibling())
	assert.Equal(t, num2, num1.NextNamedSibling())
	assert.Equal(t, op, num2.PrevSibling())
	assert.Equal(t, num1, num2.PrevNamedSibling())
	assert.Equal(t, root, num1.Parent())

	assert.False(t, root.Parent().Exists())
	assert.False(t, num2.NextSibling().Exists())
	assert.False(t, num1.PrevSibling().Exists())
}

func TestNodeLists(t *testing.T) {
	_, root := parsedExprRoot(t)

	all := root.Children()
	named := root.NamedChildren()
	assert.Equal(t, 3, all.Len())
	assert.Equal(t, 2, named.Len())

	kind, _ := named.At(1).Kind()
	assert.Equal(t, "number", kind)
	start, _ := named.At(1).StartIndex()
	assert.Equal(t, uint32(2), start)

	assert.False(t, all.At(-1).Exists())
	assert.False(t, all.At(3).Exists())
	assert.False(t, named.At(2).Exists())

	// Leaf nodes have empty views.
	assert.Equal(t, 0, all.At(0).Children().Len())
}

func TestDescendantForIndex(t *testing.T) {
	_, root := parsedExprRoot(t)

	got, err := root.DescendantForIndex(0)
	require.NoError(t, err)
	kind, _ := got.Kind()
	assert.Equal(t, "number", kind)

	// A single offset behaves as a degenerate range. Unit 1 sits on the
	// boundary between the first number and the "+" token; the earlier
	// child wins.
	point, err := root.DescendantForIndex(1)
	require.NoError(t, err)
	ranged, err := root.DescendantForIndex(1, 1)
	require.NoError(t, err)
	assert.Equal(t, point, ranged)
	kind, _ = point.Kind()
	assert.Equal(t, "number", kind)

	// A range spanning several children answers with the parent.
	got, err = root.DescendantForIndex(0, 3)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	// Out-of-range bounds fall back to the queried node itself.
	got, err = root.DescendantForIndex(0, 100)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestNamedDescendantSkipsAnonymousNodes(t *testing.T) {
	_, root := parsedExprRoot(t)

	// [2,4) bytes is exactly the "+" token; the named query surfaces the
	// enclosing expression instead.
	unnamed, err := root.DescendantForIndex(1, 2)
	require.NoError(t, err)
	kind, _ := unnamed.Kind()
	assert.Equal(t, "+", kind)

	named, err := root.NamedDescendantForIndex(1, 2)
	require.NoError(t, err)
	kind, _ = named.Kind()
	assert.Equal(t, "expression", kind)
	isNamed, ok := named.Named()
	require.True(t, ok)
	assert.True(t, isNamed)
}

func TestDescendantForPosition(t *testing.T) {
	_, root := parsedExprRoot(t)

	got, err := root.DescendantForPosition(Point{Row: 0, Column: 2}, Point{Row: 0, Column: 4})
	require.NoError(t, err)
	kind, _ := got.Kind()
	assert.Equal(t, "+", kind)

	// A degenerate point on the boundary between two children belongs to
	// the earlier one, the same tie-break the byte queries use.
	named, err := root.NamedDescendantForPosition(Point{Row: 0, Column: 2})
	require.NoError(t, err)
	kind, _ = named.Kind()
	assert.Equal(t, "number", kind)
}

func TestDescendantArityAndArgumentErrors(t *testing.T) {
	_, root := parsedExprRoot(t)

	_, err := root.DescendantForIndex()
	assert.ErrorIs(t, err, ErrInvalidArity)
	_, err = root.DescendantForIndex(1, 2, 3)
	assert.ErrorIs(t, err, ErrInvalidArity)
	_, err = root.NamedDescendantForIndex()
	assert.ErrorIs(t, err, ErrInvalidArity)
	_, err = root.DescendantForPosition()
	assert.ErrorIs(t, err, ErrInvalidArity)
	_, err = root.NamedDescendantForPosition(Point{}, Point{}, Point{})
	assert.ErrorIs(t, err, ErrInvalidArity)

	_, err = root.DescendantForIndex(math.MaxUint32)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = root.DescendantForIndex(0, math.MaxUint32/2+1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStaleHandleSkipsQueriesSilently(t *testing.T) {
	doc, root := parsedExprRoot(t)
	require.NoError(t, doc.Parse(context.Background()))
	require.False(t, root.Valid())

	// Staleness wins over argument validation, and is never an error.
	got, err := root.DescendantForIndex(1, 2, 3)
	assert.NoError(t, err)
	assert.False(t, got.Exists())

	got, err = root.NamedDescendantForPosition()
	assert.NoError(t, err)
	assert.False(t, got.Exists())
}

func TestStringRendersSubtree(t *testing.T) {
	_, root := parsedExprRoot(t)
	assert.Equal(t, `(expression (number) "+" (number))`, root.String())

	num := root.Children().At(0)
	assert.Equal(t, `(number)`, num.String())
}

func TestMultilinePoints(t *testing.T) {
	eng := enginetest.New()
	// Two-row fixture: "a\nb" in UTF-16 is 6 bytes.
	eng.BuildTree = func([]byte) *enginetest.Node {
		return enginetest.NewNode("document", 0, 6,
			enginetest.NewNode("word", 0, 2),
			enginetest.NewNode("word", 4, 6).At(Point{Row: 1, Column: 0}, Point{Row: 1, Column: 2}),
		)
	}
	doc := New(eng)
	require.NoError(t, doc.SetLanguage(&enginetest.Grammar{}))
	require.NoError(t, doc.SetInput(NewStringSource("a\nb")))
	require.NoError(t, doc.Parse(context.Background()))

	root := doc.Root()
	got, err := root.DescendantForPosition(Point{Row: 1, Column: 1})
	require.NoError(t, err)
	pos, _ := got.StartPosition()
	assert.Equal(t, Point{Row: 1, Column: 0}, pos)
}
