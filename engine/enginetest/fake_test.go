// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package enginetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcrest/treedoc/engine"
)

func TestFakeEngineDrainsInputInChunks(t *testing.T) {
	eng := New()
	require.NoError(t, eng.SetLanguage(&Grammar{Rule: "program"}))

	content := []byte{'h', 0, 'e', 0, 'l', 0, 'l', 0, 'o', 0}
	cursor := 0
	var seeks []uint32
	eng.SetInput(engine.Input{
		Seek: func(off uint32) {
			seeks = append(seeks, off)
			cursor = int(off)
		},
		Read: func(n uint32) []byte {
			if cursor >= len(content) {
				return nil
			}
			end := cursor + int(n)
			if end > len(content) {
				end = len(content)
			}
			chunk := content[cursor:end]
			cursor = end
			return chunk
		},
	})

	require.NoError(t, eng.Parse(context.Background()))
	assert.Equal(t, content, eng.LastContent)
	assert.Equal(t, []uint32{0}, seeks)

	root := eng.RootNode()
	require.NotNil(t, root)
	assert.Equal(t, "program", root.Kind())
	assert.Equal(t, uint32(10), root.EndByte())
}

func TestFakeEngineRejectsForeignGrammar(t *testing.T) {
	eng := New()
	assert.Error(t, eng.SetLanguage("not a grammar"))
	assert.Error(t, eng.SetLanguage(nil))
	assert.Error(t, eng.SetLanguage((*Grammar)(nil)))
}

func TestFakeNodeSiblings(t *testing.T) {
	root := NewNode("list", 0, 6,
		NewNode("item", 0, 2),
		NewToken(",", 2, 4),
		NewNode("item", 4, 6),
	)

	first := root.Child(0)
	assert.Equal(t, ",", first.NextSibling().Kind())
	assert.Equal(t, "item", first.NextNamedSibling().Kind())
	assert.Nil(t, root.Child(2).NextSibling())
	assert.Nil(t, first.PrevSibling())
	assert.Equal(t, ",", root.Child(2).PrevSibling().Kind())
	assert.Equal(t, "item", root.Child(2).PrevNamedSibling().Kind())

	assert.Equal(t, uint32(2), root.NamedChildCount())
	assert.Equal(t, "item", root.NamedChild(1).Kind())
	assert.Nil(t, root.NamedChild(2))
	assert.Nil(t, root.Parent())
}

func TestFakeNodeSexp(t *testing.T) {
	root := NewNode("list", 0, 6,
		NewNode("item", 0, 2),
		NewToken(",", 2, 4),
		NewNode("item", 4, 6),
	)
	assert.Equal(t, `(list (item) "," (item))`, root.String())
}

func TestFakeEngineLogsThroughInstalledLogger(t *testing.T) {
	eng := New()
	var kinds []engine.LogKind
	eng.SetLogger(engine.Logger{Log: func(kind engine.LogKind, _ string) {
		kinds = append(kinds, kind)
	}})
	eng.SetDebugGraphs(true)

	require.NoError(t, eng.Parse(context.Background()))
	assert.Contains(t, kinds, engine.LogParse)
	assert.Contains(t, kinds, engine.LogGraph)
}
