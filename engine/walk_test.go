// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcrest/treedoc/engine"
	"github.com/lexcrest/treedoc/engine/enginetest"
)

// Fixture: (pair (key) ":" (value (number))) over bytes [0,10).
func pairTree() *enginetest.Node {
	return enginetest.NewNode("pair", 0, 10,
		enginetest.NewNode("key", 0, 4),
		enginetest.NewToken(":", 4, 6),
		enginetest.NewNode("value", 6, 10,
			enginetest.NewNode("number", 6, 10),
		),
	)
}

func TestFindDescendantForByteRange(t *testing.T) {
	root := pairTree()

	tests := []struct {
		name      string
		min, max  uint32
		namedOnly bool
		want      string
	}{
		{"deepest containing node", 7, 9, false, "number"},
		{"degenerate range", 2, 2, false, "key"},
		{"anonymous token", 4, 6, false, ":"},
		{"anonymous skipped when named", 4, 6, true, "pair"},
		{"spanning children", 2, 8, false, "pair"},
		{"wider than root falls back to root", 0, 100, false, "pair"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got engine.Node
			if tt.namedOnly {
				got = root.NamedDescendantForByteRange(tt.min, tt.max)
			} else {
				got = root.DescendantForByteRange(tt.min, tt.max)
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind())
		})
	}
}

func TestFindDescendantNamedOnlyCanComeUpEmpty(t *testing.T) {
	// Walking from an anonymous leaf with the named filter finds nothing.
	root := pairTree()
	op := root.Child(1)
	require.NotNil(t, op)
	assert.Nil(t, engine.FindDescendantForByteRange(op, 4, 6, true))
}

func TestFindDescendantForPointRange(t *testing.T) {
	root := pairTree()

	got := root.DescendantForPointRange(
		engine.Point{Row: 0, Column: 7},
		engine.Point{Row: 0, Column: 9},
	)
	require.NotNil(t, got)
	assert.Equal(t, "number", got.Kind())

	named := root.NamedDescendantForPointRange(
		engine.Point{Row: 0, Column: 4},
		engine.Point{Row: 0, Column: 6},
	)
	require.NotNil(t, named)
	assert.Equal(t, "pair", named.Kind())
}

func TestPointLess(t *testing.T) {
	assert.True(t, engine.Point{Row: 0, Column: 9}.Less(engine.Point{Row: 1, Column: 0}))
	assert.True(t, engine.Point{Row: 1, Column: 1}.Less(engine.Point{Row: 1, Column: 2}))
	assert.False(t, engine.Point{Row: 1, Column: 2}.Less(engine.Point{Row: 1, Column: 2}))
}
